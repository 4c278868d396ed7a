// Package layout describes register/memory layouts and flattens them into
// bit ranges.
//
// A layout is a tree built from three kinds of Type:
//
//	Bits    a scalar of fixed width
//	Array   a fixed number of elements of one type
//	Struct  an ordered list of named members (unnamed members are padding)
//
// The set is closed. Code that needs to handle every kind goes through Match,
// which takes one handler per kind, so adding a kind breaks every caller at
// compile time instead of falling into a default branch.
//
// An Oracle turns a Type into the ordered sequence of leaf Fields. Walker is
// the oracle shipped with this package; a Classifier decides which composite
// fields are entered and which are exposed whole.
package layout

import (
	"fmt"
	"strings"

	"github.com/busmap/busmap-go/pkg/elab"
)

// Kind tags the variants of Type.
type Kind uint8

const (
	KindBits Kind = iota
	KindArray
	KindStruct
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBits:
		return "bits"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Type is a node of a structural layout description.
type Type interface {
	// Kind returns the variant tag.
	Kind() Kind

	// BitWidth returns the total size in bits.
	BitWidth() uint64

	String() string

	isType()
}

// Bits is a scalar of Width bits.
type Bits struct {
	Width uint64
}

// NewBits returns a scalar type of width w.
func NewBits(w uint64) Bits { return Bits{Width: w} }

func (Bits) Kind() Kind { return KindBits }

func (b Bits) BitWidth() uint64 { return b.Width }

func (b Bits) String() string { return fmt.Sprintf("bits<%d>", b.Width) }

func (Bits) isType() {}

// Array is Count elements of Elem, packed without gaps.
type Array struct {
	Elem  Type
	Count uint64
}

// NewArray returns an array of count elements of elem.
func NewArray(elem Type, count uint64) Array { return Array{Elem: elem, Count: count} }

func (Array) Kind() Kind { return KindArray }

// BitWidth wraps for arrays wider than 64 bits; Validate rejects those.
func (a Array) BitWidth() uint64 {
	if a.Elem == nil {
		return 0
	}
	return a.Elem.BitWidth() * a.Count
}

func (a Array) String() string {
	if a.Elem == nil {
		return fmt.Sprintf("<nil>[%d]", a.Count)
	}
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Count)
}

func (Array) isType() {}

// Member is one member of a Struct.
type Member struct {
	// Name is empty for padding. Padding occupies bits but is never exposed.
	Name   string
	Type   Type
	Access Access
}

// Named returns a read-write member.
func Named(name string, t Type) Member { return Member{Name: name, Type: t} }

// Pad returns a padding member of w bits.
func Pad(w uint64) Member { return Member{Type: Bits{Width: w}} }

// IsPadding reports whether m is padding.
func (m Member) IsPadding() bool { return m.Name == "" }

// Struct is an ordered list of members laid out back to back.
type Struct struct {
	Name    string
	Members []Member
}

// NewStruct returns a struct type.
func NewStruct(name string, members ...Member) Struct {
	return Struct{Name: name, Members: members}
}

func (Struct) Kind() Kind { return KindStruct }

func (s Struct) BitWidth() uint64 {
	var w uint64
	for _, m := range s.Members {
		if m.Type != nil {
			w += m.Type.BitWidth()
		}
	}
	return w
}

func (s Struct) String() string {
	parts := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		t := "<nil>"
		if m.Type != nil {
			t = m.Type.String()
		}
		name := m.Name
		if name == "" {
			name = "_"
		}
		parts = append(parts, name+": "+t)
	}
	return "struct " + s.Name + "{" + strings.Join(parts, ", ") + "}"
}

func (Struct) isType() {}

// Match dispatches t to the handler for its kind. A nil or foreign Type is
// reported as an error.
func Match[R any](t Type, onBits func(Bits) (R, error), onArray func(Array) (R, error), onStruct func(Struct) (R, error)) (R, error) {
	switch v := t.(type) {
	case Bits:
		return onBits(v)
	case Array:
		return onArray(v)
	case Struct:
		return onStruct(v)
	default:
		var zero R
		return zero, &elab.UnsupportedTypeError{Op: "layout", What: fmt.Sprintf("%T", t)}
	}
}

// IsComposite reports whether t has to be entered to reach scalars. Arrays of
// scalars are not composite: they are exposed as one block of memory.
func IsComposite(t Type) bool {
	switch v := t.(type) {
	case Struct:
		return true
	case Array:
		_, scalar := v.Elem.(Bits)
		return !scalar
	default:
		return false
	}
}
