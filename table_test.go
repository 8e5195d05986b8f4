package cfix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Start = 16
	cfg.Data = 2
	return cfg
}

func TestInsertLookupUpdateDeleteRoundTrip(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	require.True(t, tb.Insert(7, []uint32{1, 2}))
	require.False(t, tb.Insert(7, []uint32{9, 9}))

	data, ok := tb.Lookup(7)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, data)

	require.True(t, tb.Update(7, []uint32{5, 6}))
	data, ok = tb.Lookup(7)
	require.True(t, ok)
	require.Equal(t, []uint32{5, 6}, data)

	require.True(t, tb.Delete(7))
	require.False(t, tb.Delete(7))
	_, ok = tb.Lookup(7)
	require.False(t, ok)

	require.False(t, tb.Update(7, []uint32{0, 0}))
}

func TestSpecialKeySlot(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	require.False(t, tb.Update(Inf, []uint32{1, 1}))
	require.True(t, tb.Insert(Inf, []uint32{1, 1}))
	require.False(t, tb.Insert(Inf, []uint32{2, 2}))

	data, ok := tb.Lookup(Inf)
	require.True(t, ok)
	require.Equal(t, []uint32{1, 1}, data)

	require.True(t, tb.Update(Inf, []uint32{3, 3}))
	data, ok = tb.Lookup(Inf)
	require.True(t, ok)
	require.Equal(t, []uint32{3, 3}, data)

	require.True(t, tb.Delete(Inf))
	require.False(t, tb.Delete(Inf))
	_, ok = tb.Lookup(Inf)
	require.False(t, ok)
}

func TestManyKeysRoundTrip(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	const n = 5000
	for i := uint32(0); i < n; i++ {
		require.True(t, tb.Insert(i, []uint32{i, i + 1}))
	}
	require.EqualValues(t, n, tb.Keys())

	for i := uint32(0); i < n; i++ {
		data, ok := tb.Lookup(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, []uint32{i, i + 1}, data)
	}

	for i := uint32(0); i < n; i += 2 {
		require.True(t, tb.Delete(i))
	}
	require.EqualValues(t, n/2, tb.Keys())
	for i := uint32(0); i < n; i += 2 {
		_, ok := tb.Lookup(i)
		require.False(t, ok)
	}
	for i := uint32(1); i < n; i += 2 {
		_, ok := tb.Lookup(i)
		require.True(t, ok)
	}
}

func TestMinMaxTrackRealKeysOnly(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	require.Equal(t, Inf, tb.Min())
	require.Equal(t, uint32(0), tb.Max())

	tb.Insert(Inf, []uint32{0, 0})
	require.Equal(t, Inf, tb.Min())
	require.Equal(t, uint32(0), tb.Max())

	tb.Insert(100, []uint32{0, 0})
	tb.Insert(5, []uint32{0, 0})
	tb.Insert(42, []uint32{0, 0})
	require.Equal(t, uint32(5), tb.Min())
	require.Equal(t, uint32(100), tb.Max())
}

func TestCloneIsIndependentOfSource(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	for i := uint32(0); i < 50; i++ {
		tb.Insert(i, []uint32{i, 0})
	}

	clone := tb.Clone()
	defer clone.Close()

	require.True(t, tb.Delete(10))
	data, ok := clone.Lookup(10)
	require.True(t, ok)
	require.Equal(t, []uint32{10, 0}, data)

	require.True(t, clone.Delete(20))
	_, ok = tb.Lookup(20)
	require.True(t, ok)
}

func TestLoadFactorExcludesSpecialKey(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	require.Equal(t, 0.0, tb.LoadFactor())
	tb.Insert(Inf, []uint32{0, 0})
	require.Equal(t, 0.0, tb.LoadFactor())

	tb.Insert(1, []uint32{0, 0})
	require.Greater(t, tb.LoadFactor(), 0.0)
}

func TestStatsHistogramCountsAllKeys(t *testing.T) {
	tb := New(smallConfig())
	defer tb.Close()

	const n = 1000
	for i := uint32(0); i < n; i++ {
		tb.Insert(i, []uint32{0, 0})
	}

	s := tb.Stats()
	var total uint32
	for occupancy, bins := range s.Hist {
		total += uint32(occupancy) * bins
	}
	require.EqualValues(t, n, total)
	require.LessOrEqual(t, s.Primary, uint32(n))
}
