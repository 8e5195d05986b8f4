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

import "go.uber.org/zap"

// logger is the package-level diagnostics sink. Each successful
// grow/shrink/rebuild is logged at debug level; this is the struct-logging analogue
// of the CFIX_VERBOSE fprintf(stderr, ...) lines the original source
// compiles in around grow/shrink/rebuild, made always-on instead of a
// build-time toggle.
var logger = zap.NewNop()

// SetLogger installs the *zap.Logger used for diagnostics. Passing nil
// restores the no-op logger (the default, matching a library that must stay
// silent unless a caller opts in).
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// abort logs a structured fatal diagnostic and panics. Used for the three
// fatal conditions spec.md §7 names: allocation failure propagated from a
// non-default allocator, a callback that mutated the table during Apply,
// and misconfiguration detected at construction; and also for a Rebuild
// ratio outside (0, 1] and an exhausted grow or Rebuild retry budget.
func abort(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
	panic("cfix: " + msg)
}
