package specparse

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/layout"
)

// testdataDir returns the absolute path to testdata/ relative to this test file.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "testdata")
}

func TestParseDeviceDef_Minimal(t *testing.T) {
	yaml := `
name: Tiny
description: "One register"
fields:
  - name: ctrl
    type: bits
    width: 16
    access: wo
`
	def, err := ParseDeviceDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseDeviceDef failed: %v", err)
	}
	if def.Name != "Tiny" {
		t.Errorf("name = %q, want Tiny", def.Name)
	}
	if def.Description != "One register" {
		t.Errorf("description = %q, want %q", def.Description, "One register")
	}

	s, err := def.Layout()
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if s.Name != "Tiny" || len(s.Members) != 1 {
		t.Fatalf("layout = %v, want struct Tiny with one member", s)
	}
	if s.Members[0].Access != layout.AccessWriteOnly {
		t.Errorf("access = %v, want write-only", s.Members[0].Access)
	}

	p, err := def.Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.Name != DefaultProfile || p.DataWidth != DefaultDataWidth || p.AddrWidth != DefaultAddrWidth {
		t.Errorf("profile = %+v, want defaults", p)
	}
	if p.AddrStep != 8 {
		t.Errorf("addrStep = %d, want 8", p.AddrStep)
	}
	if def.Regions() != nil {
		t.Errorf("regions = %v, want nil", def.Regions())
	}
}

func TestLoadDeviceDef_Regs(t *testing.T) {
	def, err := LoadDeviceDef(filepath.Join(testdataDir(t), "devices", "regs.yaml"))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}

	s, err := def.Layout()
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if got := s.BitWidth(); got != 1088 {
		t.Errorf("BitWidth = %d, want 1088", got)
	}
	dma, ok := s.Members[4].Type.(layout.Struct)
	if !ok {
		t.Fatalf("dma type = %T, want layout.Struct", s.Members[4].Type)
	}
	if dma.Name != "Channel" || len(dma.Members) != 2 {
		t.Errorf("dma = %v, want Channel with 2 members", dma)
	}
	if !s.Members[2].IsPadding() {
		t.Error("member 2 should be padding")
	}

	cfg, err := def.EndpointConfig()
	if err != nil {
		t.Fatalf("EndpointConfig failed: %v", err)
	}
	if cfg.Bus.AddrWidth != 8 || cfg.Bus.AddrStep != 8 {
		t.Errorf("bus = %+v, want 8 bit byte-addressed", cfg.Bus)
	}

	ep, err := endpoint.New(s, cfg)
	if err != nil {
		t.Fatalf("endpoint.New failed: %v", err)
	}
	m := ep.AddressMap()
	if len(m.Entries) != 5 {
		t.Errorf("entries = %d, want 5", len(m.Entries))
	}
	if m.MaxAddr != 136 {
		t.Errorf("MaxAddr = %d, want 136", m.MaxAddr)
	}
}

func TestLoadDeviceDef_SwapRegions(t *testing.T) {
	def, err := LoadDeviceDef(filepath.Join(testdataDir(t), "devices", "swap.yaml"))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}

	regions := def.Regions()
	if len(regions) != 2 {
		t.Fatalf("len(regions) = %d, want 2", len(regions))
	}
	if regions[1].OffsetIn != 2 || regions[1].OffsetOut != 0 {
		t.Errorf("regions[1] = %+v, want 0x2 -> 0x0", regions[1])
	}

	s, err := def.Layout()
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	lanes, ok := s.Members[0].Type.(layout.Array)
	if !ok {
		t.Fatalf("lanes type = %T, want layout.Array", s.Members[0].Type)
	}
	if elem, ok := lanes.Elem.(layout.Struct); !ok || elem.Name != "Lanes" {
		t.Errorf("lanes elem = %v, want struct Lanes", lanes.Elem)
	}

	cfg, err := def.EndpointConfig()
	if err != nil {
		t.Fatalf("EndpointConfig failed: %v", err)
	}
	if cfg.Bus.AddrStep != 32 {
		t.Errorf("addrStep = %d, want 32", cfg.Bus.AddrStep)
	}
	ep, err := endpoint.New(s, cfg)
	if err != nil {
		t.Fatalf("endpoint.New failed: %v", err)
	}

	e, _, ok := ep.Lookup(0)
	if !ok || e.Field.Path.String() != "lanes[1].cfg" {
		t.Errorf("Lookup(0) = %v, %v; want lanes[1].cfg", e.Field, ok)
	}
	e, _, ok = ep.Lookup(3)
	if !ok || e.Field.Path.String() != "lanes[0].data" {
		t.Errorf("Lookup(3) = %v, %v; want lanes[0].data", e.Field, ok)
	}
	if e.Access != layout.AccessWriteOnly {
		t.Errorf("access = %v, want write-only", e.Access)
	}
}

func TestWithShared(t *testing.T) {
	yaml := `
name: Timers
fields:
  - { name: t0, type: Timer }
  - { name: t1, type: Timer }
`
	def, err := ParseDeviceDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseDeviceDef failed: %v", err)
	}
	if _, err := def.Layout(); !errors.Is(err, elab.ErrConfig) {
		t.Errorf("Layout without shared types: err = %v, want ErrConfig", err)
	}

	shared, err := LoadSharedTypes(filepath.Join(testdataDir(t), "shared.yaml"))
	if err != nil {
		t.Fatalf("LoadSharedTypes failed: %v", err)
	}
	s, err := def.WithShared(shared).Layout()
	if err != nil {
		t.Fatalf("Layout with shared types failed: %v", err)
	}
	if got := s.BitWidth(); got != 128 {
		t.Errorf("BitWidth = %d, want 128", got)
	}
	if len(def.Types) != 0 {
		t.Error("WithShared modified the original definition")
	}

	// Types defined by the device win over shared ones.
	regs, err := LoadDeviceDef(filepath.Join(testdataDir(t), "devices", "regs.yaml"))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}
	s, err = regs.WithShared(shared).Layout()
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if got := s.Members[4].Type.BitWidth(); got != 64 {
		t.Errorf("dma width = %d, want 64 (own Channel)", got)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad access", "name: X\nfields:\n  - {name: a, type: bits, width: 8, access: sometimes}\n"},
		{"bits without width", "name: X\nfields:\n  - {name: a, type: bits}\n"},
		{"array without count", "name: X\nfields:\n  - {name: a, type: array, elem: {type: bits, width: 8}}\n"},
		{"array without elem", "name: X\nfields:\n  - {name: a, type: array, count: 4}\n"},
		{"array wider than 64 bits", "name: X\nfields:\n  - {name: a, type: bits, width: 8}\n  - {name: huge, type: array, count: 288230376151711744, elem: {type: bits, width: 64}}\n"},
		{"struct without fields", "name: X\nfields:\n  - {name: a, type: struct}\n"},
		{"unknown type", "name: X\nfields:\n  - {name: a, type: Widget}\n"},
		{"named padding", "name: X\nfields:\n  - {name: a, type: padding, width: 8}\n"},
		{"padding without width", "name: X\nfields:\n  - {type: padding}\n"},
		{"missing type", "name: X\nfields:\n  - {name: a, width: 8}\n"},
		{"missing name", "name: X\nfields:\n  - {type: bits, width: 8}\n"},
		{"recursive type", "name: X\ntypes:\n  - name: A\n    fields:\n      - {name: a, type: A}\nfields:\n  - {name: a, type: A}\n"},
		{"duplicate type", "name: X\ntypes:\n  - {name: A, fields: [{name: a, type: bits, width: 1}]}\n  - {name: A, fields: [{name: a, type: bits, width: 1}]}\nfields:\n  - {name: a, type: A}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseDeviceDef([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseDeviceDef failed: %v", err)
			}
			_, err = def.Layout()
			if !errors.Is(err, elab.ErrConfig) {
				t.Errorf("Layout: err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown profile", "name: X\nbus: {profile: pci}\n"},
		{"odd data width", "name: X\nbus: {dataWidth: 24}\n"},
		{"odd step", "name: X\nbus: {addrStep: 12}\n"},
		{"mi32 too wide", "name: X\nbus: {profile: mi32, dataWidth: 64}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseDeviceDef([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseDeviceDef failed: %v", err)
			}
			if _, err := def.Profile(); !errors.Is(err, elab.ErrConfig) {
				t.Errorf("Profile: err = %v, want ErrConfig", err)
			}
			if _, err := def.EndpointConfig(); !errors.Is(err, elab.ErrConfig) {
				t.Errorf("EndpointConfig: err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestParseDeviceDef_Invalid(t *testing.T) {
	if _, err := ParseDeviceDef([]byte("fields: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := ParseDeviceDef([]byte("description: nameless\n")); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := LoadDeviceDef(filepath.Join(testdataDir(t), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
