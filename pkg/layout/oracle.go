package layout

import (
	"errors"
	"iter"
	"math/bits"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Action is a Classifier decision.
type Action uint8

const (
	// Use exposes the field as one leaf.
	Use Action = iota
	// Enter recurses into the field's children.
	Enter
)

// String returns the action name.
func (a Action) String() string {
	if a == Enter {
		return "enter"
	}
	return "use"
}

// Classifier decides whether a field is exposed whole or entered.
// Entering a scalar is ignored; scalars are always used.
type Classifier interface {
	Classify(f Field) Action
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(f Field) Action

// Classify calls fn(f).
func (fn ClassifierFunc) Classify(f Field) Action { return fn(f) }

// DefaultClassifier enters structs and arrays of composites and uses
// everything else, so arrays of scalars become block memories.
type DefaultClassifier struct{}

// Classify implements Classifier.
func (DefaultClassifier) Classify(f Field) Action {
	if IsComposite(f.Type) {
		return Enter
	}
	return Use
}

// Compile-time interface satisfaction check.
var _ Classifier = DefaultClassifier{}

// Enters reports whether c enters f. Scalars are never entered.
func Enters(c Classifier, f Field) bool {
	return f.Kind() != KindBits && c.Classify(f) == Enter
}

// Oracle flattens a composite field into the ordered sequence of leaf fields
// selected by a Classifier. Sequences are finite and may be ranged over more
// than once. An error ends the sequence.
type Oracle interface {
	Fields(root Field, c Classifier) iter.Seq2[Field, error]
}

// Walker is the reference Oracle: depth-first, in member order, offsets
// accumulated from widths.
type Walker struct{}

// Compile-time interface satisfaction check.
var _ Oracle = Walker{}

// Fields implements Oracle. A non-composite root yields itself.
func (Walker) Fields(root Field, c Classifier) iter.Seq2[Field, error] {
	return func(yield func(Field, error) bool) {
		if err := Validate(root.Type); err != nil {
			yield(Field{}, err)
			return
		}
		if !IsComposite(root.Type) {
			yield(root, nil)
			return
		}
		walk(root, c, yield)
	}
}

func walk(f Field, c Classifier, yield func(Field, error) bool) bool {
	children, err := Children(f)
	if err != nil {
		return yield(Field{}, err)
	}
	for _, child := range children {
		if Enters(c, child) {
			if !walk(child, c, yield) {
				return false
			}
			continue
		}
		if !yield(child, nil) {
			return false
		}
	}
	return true
}

// Flatten collects the fields an oracle yields for t.
func Flatten(o Oracle, t Type, c Classifier) ([]Field, error) {
	var out []Field
	for f, err := range o.Fields(Root(t), c) {
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Validate checks that every node of t is well formed: no nil types, no zero
// widths, no empty arrays or structs, and a total width that fits in 64 bits.
func Validate(t Type) error {
	_, err := validate(t, nil)
	return err
}

// validate returns the bit width of t, computed with overflow checks.
func validate(t Type, p Path) (uint64, error) {
	w, err := Match(t,
		func(b Bits) (uint64, error) {
			if b.Width == 0 {
				return 0, elab.Configf("layout", "%s: zero-width bits", where(p))
			}
			return b.Width, nil
		},
		func(a Array) (uint64, error) {
			if a.Count == 0 {
				return 0, elab.Configf("layout", "%s: array with no elements", where(p))
			}
			ew, err := validate(a.Elem, p.Index(0))
			if err != nil {
				return 0, err
			}
			hi, lo := bits.Mul64(ew, a.Count)
			if hi != 0 {
				return 0, elab.Configf("layout", "%s: %d elements of %d bits overflow the bit range", where(p), a.Count, ew)
			}
			return lo, nil
		},
		func(s Struct) (uint64, error) {
			if len(s.Members) == 0 {
				return 0, elab.Configf("layout", "%s: struct %q has no members", where(p), s.Name)
			}
			seen := make(map[string]bool, len(s.Members))
			var total uint64
			for _, m := range s.Members {
				if !m.IsPadding() {
					if seen[m.Name] {
						return 0, elab.Configf("layout", "%s: duplicate member %q", where(p), m.Name)
					}
					seen[m.Name] = true
				}
				mw, err := validate(m.Type, p.Child(m.Name))
				if err != nil {
					return 0, err
				}
				var carry uint64
				total, carry = bits.Add64(total, mw, 0)
				if carry != 0 {
					return 0, elab.Configf("layout", "%s: struct %q overflows the bit range at member %q", where(p), s.Name, m.Name)
				}
			}
			return total, nil
		},
	)
	if err != nil {
		var ue *elab.UnsupportedTypeError
		if errors.As(err, &ue) && ue.Path == "" {
			ue.Path = where(p)
		}
	}
	return w, err
}

func where(p Path) string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.String()
}

// MinAddrWidth returns the address width needed to reach every addrStep-bit
// unit of t: bitlen(ceil(width/addrStep) - 1), at least 1.
func MinAddrWidth(t Type, addrStep uint64) int {
	units := hdl.CeilDiv(t.BitWidth(), addrStep)
	if units == 0 {
		return 1
	}
	return hdl.AddrWidthFor(units)
}
