package main

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"hex":   func(v uint64) string { return fmt.Sprintf("%#x", v) },
	"vhex":  func(w int, v uint64) string { return fmt.Sprintf("%d'h%x", w, v) },
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	goFileTmpl +
		verilogFileTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template data types ---

// fileData holds pre-computed data for both output files.
type fileData struct {
	Name        string
	Description string
	Package     string

	// GoPrefix and MacroPrefix start every generated identifier.
	GoPrefix    string
	MacroPrefix string

	Bus       string
	DataWidth int
	AddrWidth int
	AddrStep  uint64
	MinAddr   uint64
	MaxAddr   uint64

	Registers []registerData
	Memories  []memoryData
	Regions   []regionData

	// Remap is the rewrite of the bus address, empty without regions.
	Remap string
}

type registerData struct {
	GoName    string
	MacroName string
	Path      string
	Offset    uint64
	End       uint64
	Width     int
	Access    string
	Hit       string
}

type memoryData struct {
	GoName    string
	MacroName string
	Path      string
	Offset    uint64
	End       uint64
	Depth     uint64
	Width     int
	Access    string
	Hit       string
}

type regionData struct {
	OffsetIn  uint64
	Size      uint64
	OffsetOut uint64
}

// --- Template definitions ---

const goFileTmpl = `{{define "go"}}// Code generated by busmap-gen. DO NOT EDIT.

package {{.Package}}

// {{.GoPrefix}} bus parameters.
const (
{{.GoPrefix}}DataWidth = {{.DataWidth}}
{{.GoPrefix}}AddrWidth = {{.AddrWidth}}
{{.GoPrefix}}AddrStep = {{.AddrStep}}
{{.GoPrefix}}MinAddr uint64 = {{hex .MinAddr}}
{{.GoPrefix}}MaxAddr uint64 = {{hex .MaxAddr}}
)
{{- if .Registers}}

// {{.GoPrefix}} register offsets, in bus address units.
const (
{{- range .Registers}}
{{$.GoPrefix}}{{.GoName}} uint64 = {{hex .Offset}} // {{.Path}}, {{.Width}} bits, {{.Access}}
{{- end}}
)
{{- end}}
{{- if .Memories}}

// {{.GoPrefix}} block memories: base offsets in bus address units and
// depths in words.
const (
{{- range .Memories}}
{{$.GoPrefix}}{{.GoName}} uint64 = {{hex .Offset}} // {{.Path}}, {{.Access}}
{{$.GoPrefix}}{{.GoName}}Depth = {{.Depth}}
{{$.GoPrefix}}{{.GoName}}Width = {{.Width}}
{{- end}}
)
{{- end}}
{{- if .Regions}}

// {{.GoPrefix}}Region moves Size addresses from OffsetIn to OffsetOut.
type {{.GoPrefix}}Region struct {
OffsetIn, Size, OffsetOut uint64
}

// {{.GoPrefix}}Regions is the remap table applied before decoding.
var {{.GoPrefix}}Regions = []{{.GoPrefix}}Region{
{{- range .Regions}}
{OffsetIn: {{hex .OffsetIn}}, Size: {{hex .Size}}, OffsetOut: {{hex .OffsetOut}}},
{{- end}}
}

// {{.GoPrefix}}Remap returns the address decoded in place of addr.
func {{.GoPrefix}}Remap(addr uint64) uint64 {
for _, r := range {{.GoPrefix}}Regions {
if addr >= r.OffsetIn && addr-r.OffsetIn < r.Size {
return addr - r.OffsetIn + r.OffsetOut
}
}
return addr
}
{{- end}}

// {{.GoPrefix}}FieldPath returns the path of the field at the decoded address
// addr, or "" when no field covers it.
func {{.GoPrefix}}FieldPath(addr uint64) string {
switch {
{{- range .Registers}}
case {{if .Offset}}addr >= {{hex .Offset}} && {{end}}addr < {{hex .End}}:
return {{quote .Path}}
{{- end}}
{{- range .Memories}}
case {{if .Offset}}addr >= {{hex .Offset}} && {{end}}addr < {{hex .End}}:
return {{quote .Path}}
{{- end}}
}
return ""
}
{{end}}`

const verilogFileTmpl = `{{define "verilog"}}// Code generated by busmap-gen. DO NOT EDIT.
{{- if .Description}}
// {{.Description}}
{{- end}}

` + "`" + `ifndef {{.MacroPrefix}}_VH
` + "`" + `define {{.MacroPrefix}}_VH

` + "`" + `define {{.MacroPrefix}}_DATA_WIDTH {{.DataWidth}}
` + "`" + `define {{.MacroPrefix}}_ADDR_WIDTH {{.AddrWidth}}
` + "`" + `define {{.MacroPrefix}}_MIN_ADDR {{vhex .AddrWidth .MinAddr}}
` + "`" + `define {{.MacroPrefix}}_MAX_ADDR {{.MaxAddr}}
{{- if .Remap}}

// Address rewrite applied before decoding.
` + "`" + `define {{.MacroPrefix}}_REMAP(addr) {{.Remap}}
{{- end}}
{{- range .Registers}}

// {{.Path}}: {{.Width}} bits, {{.Access}}
` + "`" + `define {{$.MacroPrefix}}_{{.MacroName}} {{vhex $.AddrWidth .Offset}}
` + "`" + `define {{$.MacroPrefix}}_{{.MacroName}}_HIT(addr) {{.Hit}}
{{- end}}
{{- range .Memories}}

// {{.Path}}: {{.Depth}} x {{.Width}} bits, {{.Access}}
` + "`" + `define {{$.MacroPrefix}}_{{.MacroName}} {{vhex $.AddrWidth .Offset}}
` + "`" + `define {{$.MacroPrefix}}_{{.MacroName}}_DEPTH {{.Depth}}
` + "`" + `define {{$.MacroPrefix}}_{{.MacroName}}_HIT(addr) {{.Hit}}
{{- end}}

` + "`" + `endif
{{end}}`
