package main

import (
	"fmt"
	"strings"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/hdl"
	"github.com/busmap/busmap-go/pkg/specparse"
)

// Elaborate loads the layout of def and elaborates its endpoint.
func Elaborate(def *specparse.RawDeviceDef) (*endpoint.Endpoint, error) {
	t, err := def.Layout()
	if err != nil {
		return nil, err
	}
	cfg, err := def.EndpointConfig()
	if err != nil {
		return nil, err
	}
	return endpoint.New(t, cfg)
}

// PackageName derives a Go package name from a device name: "RegBank" to
// "regbank".
func PackageName(name string) string {
	return strings.ReplaceAll(specparse.FileName(name), "-", "")
}

// newFileData collects everything the templates print about ep.
func newFileData(def *specparse.RawDeviceDef, ep *endpoint.Endpoint, pkg string) (*fileData, error) {
	if pkg == "" {
		pkg = PackageName(def.Name)
	}
	bus := ep.Config().Bus
	amap := ep.AddressMap()

	data := &fileData{
		Name:        def.Name,
		Description: def.Description,
		Package:     pkg,
		GoPrefix:    specparse.GoName(def.Name),
		MacroPrefix: specparse.ConstName(specparse.FileName(def.Name)),
		Bus:         bus.Name,
		DataWidth:   bus.DataWidth,
		AddrWidth:   bus.AddrWidth,
		AddrStep:    amap.AddrStep,
		MinAddr:     amap.MinAddr,
		MaxAddr:     amap.MaxAddr,
	}

	addr := hdl.NewSignal("addr", bus.AddrWidth)
	decodes, err := ep.Decoders(addr)
	if err != nil {
		return nil, err
	}
	for _, d := range decodes {
		e := d.Entry
		path := e.Field.Path.String()
		switch e.Class {
		case endpoint.ClassRegister:
			data.Registers = append(data.Registers, registerData{
				GoName:    specparse.GoName(path),
				MacroName: specparse.ConstName(path),
				Path:      path,
				Offset:    e.StartAddr(amap.AddrStep),
				End:       e.EndAddr(amap.AddrStep),
				Width:     int(e.Field.Width()),
				Access:    e.Access.String(),
				Hit:       d.Hit.String(),
			})
		case endpoint.ClassBlockMemory:
			data.Memories = append(data.Memories, memoryData{
				GoName:    specparse.GoName(path),
				MacroName: specparse.ConstName(path),
				Path:      path,
				Offset:    e.StartAddr(amap.AddrStep),
				End:       e.EndAddr(amap.AddrStep),
				Depth:     e.Field.Width() / uint64(e.DataWidth),
				Width:     e.DataWidth,
				Access:    e.Access.String(),
				Hit:       d.Hit.String(),
			})
		default:
			return nil, fmt.Errorf("%s: unexpected access class %s", path, e.Class)
		}
	}

	if regions := ep.Regions(); len(regions) > 0 {
		for _, r := range regions {
			data.Regions = append(data.Regions, regionData{OffsetIn: r.OffsetIn, Size: r.Size, OffsetOut: r.OffsetOut})
		}
		out, err := ep.RemapAddress(addr)
		if err != nil {
			return nil, err
		}
		data.Remap = out.String()
	}
	return data, nil
}

// GenerateGo renders the Go constants file for ep.
func GenerateGo(def *specparse.RawDeviceDef, ep *endpoint.Endpoint, pkg string) (string, error) {
	data, err := newFileData(def, ep, pkg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderTemplate(&b, "go", data)
	return b.String(), nil
}

// GenerateVerilog renders the Verilog header for ep.
func GenerateVerilog(def *specparse.RawDeviceDef, ep *endpoint.Endpoint) (string, error) {
	data, err := newFileData(def, ep, "")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderTemplate(&b, "verilog", data)
	return b.String(), nil
}
