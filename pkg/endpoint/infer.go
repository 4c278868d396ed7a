package endpoint

import (
	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/layout"
)

// maxInferredAddrWidth bounds the depth of memories read from an interface
// map.
const maxInferredAddrWidth = 32

// InferType returns the layout an interface map implies:
//
//	Signal           read-only bits of the signal width
//	RegisterControl  bits of the register width
//	BlockMemoryPort  array of Depth() words
//	Decoder          struct of its members, or an array when the members
//	                 are named [0], [1], ... and share one type
//
// The top-level decoder must become a struct.
func InferType(m *busif.Decoder) (layout.Struct, error) {
	if m == nil {
		return layout.Struct{}, elab.Configf("infer type", "no interface map")
	}
	t, err := inferDecoder(m, m.Name, nil)
	if err != nil {
		return layout.Struct{}, err
	}
	s, ok := t.(layout.Struct)
	if !ok {
		return layout.Struct{}, elab.Configf("infer type", "%s: top-level members must be named", m.Name)
	}
	return s, nil
}

func inferDecoder(d *busif.Decoder, name string, p layout.Path) (layout.Type, error) {
	if len(d.Members) == 0 {
		return nil, elab.Configf("infer type", "%s: decoder has no members", where(p))
	}

	if indexed(d) {
		var elem layout.Type
		for i, m := range d.Members {
			t, err := inferMember(m, "", p.Index(uint64(i)))
			if err != nil {
				return nil, err
			}
			if elem == nil {
				elem = t
				continue
			}
			if t.String() != elem.String() {
				return nil, &elab.ShapeMismatchError{
					Op:     "infer type",
					Path:   p.Index(uint64(i)).String(),
					Reason: "array element " + t.String() + " differs from " + elem.String(),
				}
			}
		}
		return layout.NewArray(elem, uint64(len(d.Members))), nil
	}

	members := make([]layout.Member, 0, len(d.Members))
	for _, m := range d.Members {
		if m.InterfaceName() == "" {
			return nil, elab.Configf("infer type", "%s: unnamed member", where(p))
		}
		t, err := inferMember(m, m.InterfaceName(), p.Child(m.InterfaceName()))
		if err != nil {
			return nil, err
		}
		member := layout.Named(m.InterfaceName(), t)
		if _, ok := m.(*busif.Signal); ok {
			member.Access = layout.AccessReadOnly
		}
		members = append(members, member)
	}
	return layout.NewStruct(name, members...), nil
}

func inferMember(m busif.Interface, name string, p layout.Path) (layout.Type, error) {
	switch v := m.(type) {
	case *busif.Signal:
		return layout.NewBits(uint64(v.Width)), nil
	case *busif.RegisterControl:
		return layout.NewBits(uint64(v.Width)), nil
	case *busif.BlockMemoryPort:
		if v.AddrWidth < 0 || v.AddrWidth > maxInferredAddrWidth {
			return nil, elab.Configf("infer type", "%s: memory address width %d out of range", p, v.AddrWidth)
		}
		return layout.NewArray(layout.NewBits(uint64(v.DataWidth)), v.Depth()), nil
	case *busif.Decoder:
		return inferDecoder(v, name, p)
	default:
		return nil, &elab.UnsupportedTypeError{Op: "infer type", Path: p.String(), What: m.Kind().String()}
	}
}

func indexed(d *busif.Decoder) bool {
	for i, m := range d.Members {
		if m.InterfaceName() != layout.IndexElem(uint64(i)) {
			return false
		}
	}
	return true
}

func where(p layout.Path) string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.String()
}

// splitClassifier enters the decoders of an interface map that are not
// nested and uses the nested ones.
type splitClassifier struct {
	actions map[string]layout.Action
}

func newSplitClassifier(m *busif.Decoder) splitClassifier {
	c := splitClassifier{actions: make(map[string]layout.Action)}
	for node := range busif.Walk(m) {
		if d, ok := node.Intf.(*busif.Decoder); ok {
			act := layout.Enter
			if d.Nested {
				act = layout.Use
			}
			c.actions[node.Path.String()] = act
		}
	}
	return c
}

func (c splitClassifier) Classify(f layout.Field) layout.Action {
	if act, ok := c.actions[f.Path.String()]; ok {
		return act
	}
	return layout.Use
}

// FromInterfaceMap builds an endpoint from an interface map: the layout is
// inferred with InferType, decoders that are not nested are entered, nested
// ones are exposed whole, and the map is connected to the result. The
// classifier in cfg is replaced.
func FromInterfaceMap(m *busif.Decoder, cfg Config) (*Endpoint, []Connection, error) {
	t, err := InferType(m)
	if err != nil {
		return nil, nil, err
	}
	cfg.Classifier = newSplitClassifier(m)
	ep, err := New(t, cfg)
	if err != nil {
		return nil, nil, err
	}
	conns, err := ep.ConnectByInterfaceMap(m)
	if err != nil {
		return nil, nil, err
	}
	return ep, conns, nil
}
