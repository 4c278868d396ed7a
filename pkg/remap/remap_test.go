package remap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

func swapHalves() []Region {
	return []Region{
		{OffsetIn: 0x0, Size: 0x1000, OffsetOut: 0x1000},
		{OffsetIn: 0x1000, Size: 0x1000, OffsetOut: 0x0},
	}
}

func TestSwapHalves(t *testing.T) {
	tr, err := TranslateAddressSignal(swapHalves(), hdl.NewSignal("addr", 16))
	require.NoError(t, err)
	require.Len(t, tr.Cases, 2)

	tests := []struct {
		in, out uint64
		mapped  bool
	}{
		{0x0500, 0x1500, true},
		{0x1200, 0x0200, true},
		{0x2500, 0x2500, false},
		{0x0fff, 0x1fff, true},
		{0x1000, 0x0000, true},
		{0x2000, 0x2000, false},
	}
	for _, tt := range tests {
		out, mapped, err := tr.Apply(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.out, out, "addr %#x", tt.in)
		assert.Equal(t, tt.mapped, mapped, "addr %#x", tt.in)
	}

	// Both regions are aligned, so the rewrite is pure bit rearrangement.
	assert.Equal(t, "{4'h1, addr[11:0]}", tr.Cases[0].Out.String())
	assert.Equal(t, "(addr[15:12] == 4'h0)", tr.Cases[0].Enable.String())
}

func TestNormalize(t *testing.T) {
	in := []Region{
		{OffsetIn: 0x300, Size: 0x10, OffsetOut: 0},
		{OffsetIn: 0x100, Size: 0x100, OffsetOut: 0x1000},
	}
	norm, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x100), norm[0].OffsetIn)
	assert.Equal(t, uint64(0x300), in[0].OffsetIn, "input must not be reordered")

	again, err := Normalize(norm)
	require.NoError(t, err)
	assert.Equal(t, norm, again)
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name    string
		regions []Region
	}{
		{"empty", nil},
		{"zero size", []Region{{OffsetIn: 0, Size: 0}}},
		{"overlap", []Region{{OffsetIn: 0, Size: 0x20}, {OffsetIn: 0x10, Size: 0x20}}},
		{"overlap unsorted", []Region{{OffsetIn: 0x10, Size: 0x20}, {OffsetIn: 0, Size: 0x11}}},
		{"wraps", []Region{{OffsetIn: ^uint64(0), Size: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.regions)
			assert.ErrorIs(t, err, elab.ErrConfig)

			_, err = New(tt.regions)
			assert.ErrorIs(t, err, elab.ErrConfig)

			_, err = TranslateAddressSignal(tt.regions, hdl.NewSignal("a", 16))
			assert.ErrorIs(t, err, elab.ErrConfig)
		})
	}

	_, err := Normalize([]Region{{OffsetIn: 0, Size: 0x10}, {OffsetIn: 0x10, Size: 0x10}})
	assert.NoError(t, err, "touching regions do not overlap")
}

func TestTranslateShapes(t *testing.T) {
	addr := hdl.NewSignal("a", 16)

	tests := []struct {
		name   string
		region Region
		probe  uint64
	}{
		{"aligned, aligned out", Region{OffsetIn: 0x400, Size: 0x100, OffsetOut: 0x800}, 0x4a0},
		{"aligned, unaligned out", Region{OffsetIn: 0x400, Size: 0x100, OffsetOut: 0x833}, 0x4a0},
		{"unaligned, moves down", Region{OffsetIn: 0x123, Size: 0x50, OffsetOut: 0x10}, 0x150},
		{"unaligned, moves up", Region{OffsetIn: 0x123, Size: 0x50, OffsetOut: 0x9000}, 0x150},
		{"non power of two size", Region{OffsetIn: 0x300, Size: 0x30, OffsetOut: 0x0}, 0x32f},
		{"single address", Region{OffsetIn: 0x40, Size: 1, OffsetOut: 0x41}, 0x40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := TranslateAddressSignal([]Region{tt.region}, addr)
			require.NoError(t, err)

			out, mapped, err := tr.Apply(tt.probe)
			require.NoError(t, err)
			assert.True(t, mapped)
			assert.Equal(t, tt.region.Map(tt.probe), out)

			// One below and one past the region are not mapped.
			if tt.region.OffsetIn > 0 {
				out, mapped, err = tr.Apply(tt.region.OffsetIn - 1)
				require.NoError(t, err)
				assert.False(t, mapped)
				assert.Equal(t, tt.region.OffsetIn-1, out)
			}
			out, mapped, err = tr.Apply(tt.region.End())
			require.NoError(t, err)
			assert.False(t, mapped)
			assert.Equal(t, tt.region.End(), out)
		})
	}
}

func TestTranslateMatchesRemapper(t *testing.T) {
	regions := []Region{
		{OffsetIn: 0x0000, Size: 0x0800, OffsetOut: 0x8000},
		{OffsetIn: 0x0a00, Size: 0x0123, OffsetOut: 0x0100},
		{OffsetIn: 0x2000, Size: 0x1000, OffsetOut: 0x2345},
		{OffsetIn: 0x7000, Size: 0x0010, OffsetOut: 0x7000},
	}
	m, err := New(regions)
	require.NoError(t, err)
	tr, err := m.Translate(hdl.NewSignal("addr", 16))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		a := rng.Uint64N(1 << 16)
		want, wantMapped := m.Map(a)
		got, gotMapped, err := tr.Apply(a)
		require.NoError(t, err)
		require.Equal(t, want, got, "addr %#x", a)
		require.Equal(t, wantMapped, gotMapped, "addr %#x", a)

		if r, ok := m.Lookup(a); ok {
			assert.Equal(t, a-r.OffsetIn+r.OffsetOut, got)
		} else {
			assert.Equal(t, a, got)
		}
	}
}

func TestTranslateInsufficientWidth(t *testing.T) {
	_, err := TranslateAddressSignal([]Region{{OffsetIn: 0x100, Size: 0x100, OffsetOut: 0}}, hdl.NewSignal("a", 8))
	assert.ErrorIs(t, err, elab.ErrInsufficientWidth)

	_, err = TranslateAddressSignal([]Region{{OffsetIn: 0, Size: 0x10, OffsetOut: 0x100}}, hdl.NewSignal("a", 8))
	assert.ErrorIs(t, err, elab.ErrInsufficientWidth)
}

func TestRemapperLookup(t *testing.T) {
	m, err := New(swapHalves())
	require.NoError(t, err)

	r, ok := m.Lookup(0x1abc)
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), r.OffsetIn)

	_, ok = m.Lookup(0x2000)
	assert.False(t, ok)

	regions := m.Regions()
	regions[0].OffsetOut = 0xdead
	again := m.Regions()
	assert.Equal(t, uint64(0x1000), again[0].OffsetOut, "Regions must return a copy")
}
