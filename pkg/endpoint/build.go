package endpoint

import (
	"errors"

	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
	"github.com/busmap/busmap-go/pkg/layout"
)

// BuildInterface returns the interface a used field is exposed through:
//
//	Bits               RegisterControl of the field width
//	Array of Bits      BlockMemoryPort, one word per element
//	Array, Struct      nested Decoder over the field's own layout
//
// Scalars and memory words wider than dataWidth are rejected.
func BuildInterface(f layout.Field, dataWidth int, c layout.Classifier) (busif.Interface, error) {
	intf, err := layout.Match(f.Type,
		func(b layout.Bits) (busif.Interface, error) {
			if err := fitsData(f.Path, b.Width, dataWidth); err != nil {
				return nil, err
			}
			return &busif.RegisterControl{Name: f.Path.Name(), Width: int(b.Width), Dir: busif.Master}, nil
		},
		func(a layout.Array) (busif.Interface, error) {
			if elem, ok := a.Elem.(layout.Bits); ok {
				if err := fitsData(f.Path, elem.Width, dataWidth); err != nil {
					return nil, err
				}
				return &busif.BlockMemoryPort{
					Name:      f.Path.Name(),
					AddrWidth: hdl.AddrWidthFor(a.Count),
					DataWidth: int(elem.Width),
					Dir:       busif.Master,
				}, nil
			}
			return nestedDecoder(f, dataWidth, c)
		},
		func(layout.Struct) (busif.Interface, error) {
			return nestedDecoder(f, dataWidth, c)
		},
	)
	if err != nil {
		var ue *elab.UnsupportedTypeError
		if errors.As(err, &ue) && ue.Path == "" {
			ue.Op = "build interface"
			ue.Path = f.Path.String()
		}
		return nil, err
	}
	return intf, nil
}

// BuildDecoded returns the decoded tree for the children of root. Entered
// children become plain decoders, used ones their BuildInterface result.
func BuildDecoded(root layout.Field, dataWidth int, c layout.Classifier) (*busif.Decoder, error) {
	if root.Type == nil || root.Kind() == layout.KindBits {
		return nil, elab.Configf("build decoder", "%s: not a composite field", fieldName(root))
	}
	children, err := layout.Children(root)
	if err != nil {
		return nil, err
	}

	d := &busif.Decoder{Name: root.Path.Name(), Members: make([]busif.Interface, 0, len(children))}
	for _, ch := range children {
		var m busif.Interface
		if layout.Enters(c, ch) {
			m, err = BuildDecoded(ch, dataWidth, c)
		} else {
			m, err = BuildInterface(ch, dataWidth, c)
		}
		if err != nil {
			return nil, err
		}
		d.Members = append(d.Members, m)
	}
	return d, nil
}

func nestedDecoder(f layout.Field, dataWidth int, c layout.Classifier) (busif.Interface, error) {
	d, err := BuildDecoded(f, dataWidth, c)
	if err != nil {
		return nil, err
	}
	d.Nested = true
	return d, nil
}

func fitsData(p layout.Path, width uint64, dataWidth int) error {
	if width > uint64(dataWidth) {
		return &elab.InsufficientWidthError{
			Op:        "build interface",
			Subject:   "bus data for " + p.String(),
			Required:  int(width),
			Available: dataWidth,
		}
	}
	return nil
}

func fieldName(f layout.Field) string { return where(f.Path) }
