// Copyright (c) 2014 Utkan Güngördü <utkan@freeconsole.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cfix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BinSize is the number of key slots per bin: one 64-byte cache line of
// 32-bit keys (M2_ALIGNMENT / sizeof(uint32) in the original source).
const BinSize = 16

// DataMax is the largest number of uint32 data words an entry may carry.
const DataMax = 15

// Inf is the sentinel key value meaning "empty slot". Because it also must
// be usable as a real key, the table keeps a dedicated Special Key Slot for
// it (see specialPresent/specialData in table.go).
const Inf uint32 = 0xFFFFFFFF

// Config is the construction-time configuration surface for a Table.
// Mirrors cfix_config_t in the original C source one field at a time.
type Config struct {
	// Start is the target initial key capacity: the table is sized so that
	// Bins*BinSize >= Start.
	Start uint32 `yaml:"start"`
	// Data is the number of uint32 data words carried per entry, 0..DataMax.
	Data uint32 `yaml:"data"`
	// Depth bounds the cuckoo displacement recursion.
	Depth uint32 `yaml:"depth"`
	// Lower is the fill-ratio threshold below which a delete may shrink the
	// table.
	Lower float64 `yaml:"lower"`
	// Upper is the fill-ratio threshold above which an insert preemptively
	// grows the table.
	Upper float64 `yaml:"upper"`
	// Growth is the base multiplier applied to the prime index on grow.
	Growth float64 `yaml:"growth"`
	// Attempt is the per-retry additive coefficient applied on grow.
	Attempt float64 `yaml:"attempt"`
	// Random is the uniform-noise coefficient applied on grow.
	Random float64 `yaml:"random"`
}

// DefaultConfig returns the configuration defaults from the original source
// (CFIX_CONFIG_DEFAULT_*).
func DefaultConfig() Config {
	return Config{
		Start:   112,
		Data:    1,
		Depth:   3,
		Lower:   0.0,
		Upper:   1.0,
		Growth:  1.5,
		Attempt: 0.5,
		Random:  0.5,
	}
}

// validate checks the two constraints spec.md places on Config: 0 <= Lower <
// Upper <= 1 and Data <= DataMax. A violation is a misconfiguration and is
// fatal, detected at construction, matching the original's assert() pair.
func (c Config) validate() error {
	if !(0.0 <= c.Lower && c.Lower < c.Upper && c.Upper <= 1.0) {
		return fmt.Errorf("cfix: invalid config: need 0 <= lower(%v) < upper(%v) <= 1", c.Lower, c.Upper)
	}
	if c.Data > DataMax {
		return fmt.Errorf("cfix: invalid config: data=%d exceeds DataMax=%d", c.Data, DataMax)
	}
	return nil
}

// LoadConfig reads a YAML document at path and overlays it on top of
// DefaultConfig, so a partial file only overrides the fields it sets.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cfix: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("cfix: parsing config %q: %w", path, err)
	}
	return cfg, nil
}
