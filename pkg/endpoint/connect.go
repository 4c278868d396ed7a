package endpoint

import (
	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/layout"
	"github.com/busmap/busmap-go/pkg/log"
)

// ConnKind tells how a decoded leaf was connected.
type ConnKind uint8

const (
	// ConnSignal drives the read data of a register from a plain signal.
	ConnSignal ConnKind = iota
	// ConnRegister connects a register to a register interface.
	ConnRegister
	// ConnMemory connects a block memory port directly.
	ConnMemory
)

// String returns the connection kind name.
func (k ConnKind) String() string {
	switch k {
	case ConnSignal:
		return "signal"
	case ConnRegister:
		return "register"
	case ConnMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Connection pairs a decoded leaf with the interface supplied for it.
type Connection struct {
	Path     layout.Path
	Kind     ConnKind
	Decoded  busif.Interface
	Supplied busif.Interface
}

// ConnectByInterfaceMap connects every leaf of the decoded tree to the
// member of m with the same path. A supplied Signal must be a master, since
// it drives the register read data; supplied RegisterControls and
// BlockMemoryPorts must be slaves. Every decoded member needs a counterpart
// and m may not name members the decoded tree lacks.
//
// An endpoint is connected at most once; later calls fail.
func (ep *Endpoint) ConnectByInterfaceMap(m *busif.Decoder) ([]Connection, error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.connected {
		return nil, elab.Configf("connect", "%s is already connected", ep.subject())
	}
	if m == nil {
		return nil, elab.Configf("connect", "no interface map")
	}

	var conns []Connection
	if err := connect(ep.decoded, m, nil, &conns); err != nil {
		ep.emitError(&stageError{log.StageConnect, err})
		return nil, err
	}
	ep.connected = true

	for _, c := range conns {
		ep.emit(log.StageConnect, log.CategoryConnection, func(ev *log.Event) {
			ev.Connection = &log.ConnectionEvent{
				Path:   c.Path.String(),
				Kind:   c.Kind.String(),
				Target: c.Supplied.String(),
			}
		})
	}
	return conns, nil
}

func connect(decoded, supplied *busif.Decoder, base layout.Path, out *[]Connection) error {
	for _, sm := range supplied.Members {
		if _, ok := decoded.Member(sm.InterfaceName()); !ok {
			return &elab.ShapeMismatchError{
				Op:     "connect",
				Path:   base.Child(sm.InterfaceName()).String(),
				Reason: "no such member",
			}
		}
	}

	for _, dm := range decoded.Members {
		path := base.Child(dm.InterfaceName())
		sm, ok := supplied.Member(dm.InterfaceName())
		if !ok {
			return &elab.ShapeMismatchError{Op: "connect", Path: path.String(), Reason: "member missing from interface map"}
		}

		switch d := dm.(type) {
		case *busif.Decoder:
			sub, ok := sm.(*busif.Decoder)
			if !ok {
				return kindMismatch(path, d, sm)
			}
			if err := connect(d, sub, path, out); err != nil {
				return err
			}

		case *busif.RegisterControl:
			var kind ConnKind
			var width int
			switch s := sm.(type) {
			case *busif.Signal:
				if s.Dir != busif.Master {
					return directionConflict(path, busif.Master, s.Dir)
				}
				kind, width = ConnSignal, s.Width
			case *busif.RegisterControl:
				if s.Dir != busif.Slave {
					return directionConflict(path, busif.Slave, s.Dir)
				}
				kind, width = ConnRegister, s.Width
			default:
				return kindMismatch(path, d, sm)
			}
			if width != d.Width {
				return &elab.ShapeMismatchError{Op: "connect", Path: path.String(), Reason: "register width", Expected: d.Width, Got: width}
			}
			*out = append(*out, Connection{Path: path, Kind: kind, Decoded: d, Supplied: sm})

		case *busif.BlockMemoryPort:
			s, ok := sm.(*busif.BlockMemoryPort)
			if !ok {
				return kindMismatch(path, d, sm)
			}
			if s.Dir != busif.Slave {
				return directionConflict(path, busif.Slave, s.Dir)
			}
			if s.DataWidth != d.DataWidth {
				return &elab.ShapeMismatchError{Op: "connect", Path: path.String(), Reason: "memory data width", Expected: d.DataWidth, Got: s.DataWidth}
			}
			if s.AddrWidth < d.AddrWidth {
				return &elab.ShapeMismatchError{Op: "connect", Path: path.String(), Reason: "memory address width", Expected: d.AddrWidth, Got: s.AddrWidth}
			}
			*out = append(*out, Connection{Path: path, Kind: ConnMemory, Decoded: d, Supplied: sm})

		default:
			return &elab.UnsupportedTypeError{Op: "connect", Path: path.String(), What: dm.Kind().String()}
		}
	}
	return nil
}

func kindMismatch(path layout.Path, decoded, supplied busif.Interface) error {
	return &elab.UnsupportedTypeError{
		Op:   "connect",
		Path: path.String(),
		What: supplied.Kind().String() + " supplied for " + decoded.Kind().String(),
	}
}

func directionConflict(path layout.Path, want, got busif.Direction) error {
	return &elab.DirectionConflictError{Op: "connect", Path: path.String(), Want: want.String(), Got: got.String()}
}
