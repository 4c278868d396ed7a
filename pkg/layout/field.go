package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Access is the bus access mode of a member.
type Access uint8

const (
	AccessReadWrite Access = iota
	AccessReadOnly
	AccessWriteOnly
)

// String returns the access mode name.
func (a Access) String() string {
	switch a {
	case AccessReadWrite:
		return "read-write"
	case AccessReadOnly:
		return "read-only"
	case AccessWriteOnly:
		return "write-only"
	default:
		return "unknown"
	}
}

// Readable reports whether the bus may read the member.
func (a Access) Readable() bool { return a != AccessWriteOnly }

// Writable reports whether the bus may write the member.
func (a Access) Writable() bool { return a != AccessReadOnly }

// ParseAccess parses an access mode. The empty string means read-write.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(s) {
	case "", "rw", "readwrite", "read-write":
		return AccessReadWrite, nil
	case "ro", "r", "readonly", "read-only":
		return AccessReadOnly, nil
	case "wo", "w", "writeonly", "write-only":
		return AccessWriteOnly, nil
	default:
		return 0, fmt.Errorf("unknown access mode %q", s)
	}
}

// Path names a field from the layout root: member names and element indexes.
type Path []string

// Child returns p extended by a member name.
func (p Path) Child(name string) Path {
	return append(p[:len(p):len(p)], name)
}

// Index returns p extended by an array index.
func (p Path) Index(i uint64) Path {
	return append(p[:len(p):len(p)], IndexElem(i))
}

// Name returns the last element of p.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String renders p as "a.b[2].c".
func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 && !strings.HasPrefix(e, "[") {
			b.WriteByte('.')
		}
		b.WriteString(e)
	}
	return b.String()
}

// IndexElem returns the path element for array index i.
func IndexElem(i uint64) string {
	return "[" + strconv.FormatUint(i, 10) + "]"
}

// ParseIndexElem returns the index of an element produced by IndexElem.
func ParseIndexElem(e string) (uint64, bool) {
	if len(e) < 3 || e[0] != '[' || e[len(e)-1] != ']' {
		return 0, false
	}
	i, err := strconv.ParseUint(e[1:len(e)-1], 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Field is one flattened range of a layout, in bits from the layout root.
// End is exclusive.
type Field struct {
	Start  uint64
	End    uint64
	Type   Type
	Path   Path
	Access Access
}

// Root returns the field covering all of t.
func Root(t Type) Field {
	return Field{Start: 0, End: t.BitWidth(), Type: t}
}

// Width returns the field size in bits.
func (f Field) Width() uint64 { return f.End - f.Start }

// Kind returns the kind of the field's type.
func (f Field) Kind() Kind { return f.Type.Kind() }

// String renders the field as "(start,end,path)".
func (f Field) String() string {
	return fmt.Sprintf("(%d,%d,%s)", f.Start, f.End, f.Path)
}

// Children returns the exposed sub-fields of a composite field: struct
// members without padding, or array elements. Scalars have no children.
func Children(f Field) ([]Field, error) {
	return Match(f.Type,
		func(Bits) ([]Field, error) { return nil, nil },
		func(a Array) ([]Field, error) {
			ew := a.Elem.BitWidth()
			out := make([]Field, 0, a.Count)
			for i := uint64(0); i < a.Count; i++ {
				start := f.Start + i*ew
				out = append(out, Field{
					Start:  start,
					End:    start + ew,
					Type:   a.Elem,
					Path:   f.Path.Index(i),
					Access: f.Access,
				})
			}
			return out, nil
		},
		func(s Struct) ([]Field, error) {
			off := f.Start
			out := make([]Field, 0, len(s.Members))
			for _, m := range s.Members {
				w := m.Type.BitWidth()
				if !m.IsPadding() {
					access := m.Access
					if f.Access != AccessReadWrite {
						access = f.Access
					}
					out = append(out, Field{
						Start:  off,
						End:    off + w,
						Type:   m.Type,
						Path:   f.Path.Child(m.Name),
						Access: access,
					})
				}
				off += w
			}
			return out, nil
		},
	)
}
