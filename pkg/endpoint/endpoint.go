package endpoint

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
	"github.com/busmap/busmap-go/pkg/layout"
	"github.com/busmap/busmap-go/pkg/log"
	"github.com/busmap/busmap-go/pkg/remap"
)

// Endpoint is an elaborated address space.
type Endpoint struct {
	id      string
	typ     layout.Struct
	cfg     Config
	decoded *busif.Decoder
	amap    *AddressMap

	// remapper is nil when no regions are configured.
	remapper *remap.Remapper

	mu        sync.Mutex
	connected bool
}

// New elaborates t. The root of t must be a struct.
func New(t layout.Type, cfg Config) (*Endpoint, error) {
	cfg = cfg.withDefaults()
	ep := &Endpoint{
		id:  uuid.NewString(),
		cfg: cfg,
	}
	if s, ok := t.(layout.Struct); ok {
		ep.typ = s
		if ep.cfg.Subject == "" {
			ep.cfg.Subject = s.Name
		}
	}

	began := time.Now()
	if err := ep.elaborate(t); err != nil {
		ep.emitError(err)
		return nil, fmt.Errorf("elaborate %s: %w", ep.subject(), err)
	}

	ep.emit(log.StageBind, log.CategorySummary, func(ev *log.Event) {
		ev.Summary = &log.SummaryEvent{
			Entries:   len(ep.amap.Entries),
			MinAddr:   ep.amap.MinAddr,
			MaxAddr:   ep.amap.MaxAddr,
			AddrWidth: ep.amap.AddrWidth,
			AddrStep:  ep.amap.AddrStep,
			Bus:       ep.cfg.Bus.Name,
			Duration:  time.Since(began),
		}
	})
	return ep, nil
}

// stageError tags an elaboration failure with the stage it occurred in.
type stageError struct {
	stage log.Stage
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

func (ep *Endpoint) elaborate(t layout.Type) error {
	if err := ep.cfg.Validate(); err != nil {
		return &stageError{log.StageLayout, err}
	}
	if _, ok := t.(layout.Struct); !ok {
		return &stageError{log.StageLayout, elab.Configf("new endpoint", "layout root must be a struct, got %v", t)}
	}
	if err := layout.Validate(t); err != nil {
		return &stageError{log.StageLayout, err}
	}

	decoded, err := BuildDecoded(layout.Root(t), ep.cfg.Bus.DataWidth, ep.cfg.Classifier)
	if err != nil {
		return &stageError{log.StageLayout, err}
	}
	decoded.Name = ep.typ.Name
	ep.decoded = decoded

	amap, err := ParseTemplate(t, decoded, ep.cfg)
	if err != nil {
		return &stageError{log.StageBind, err}
	}
	ep.amap = amap
	for _, e := range amap.Entries {
		ep.emit(log.StageBind, log.CategoryField, func(ev *log.Event) {
			ev.Field = &log.FieldEvent{
				Path:        e.Field.Path.String(),
				Start:       e.Field.Start,
				End:         e.Field.End,
				Kind:        e.Field.Kind().String(),
				Interface:   e.Intf.Kind().String(),
				Access:      e.Access.String(),
				DataWidth:   e.DataWidth,
				WidthShared: e.WidthShared,
			}
		})
	}

	if len(ep.cfg.Regions) == 0 {
		return nil
	}
	m, err := remap.New(ep.cfg.Regions)
	if err != nil {
		return &stageError{log.StageRemap, err}
	}
	// Checks that every region fits the bus address.
	if _, err := m.Translate(hdl.NewSignal("addr", ep.cfg.Bus.AddrWidth)); err != nil {
		return &stageError{log.StageRemap, err}
	}
	ep.remapper = m
	for _, r := range m.Regions() {
		ep.emit(log.StageRemap, log.CategoryRegion, func(ev *log.Event) {
			ev.Region = &log.RegionEvent{
				OffsetIn:  r.OffsetIn,
				Size:      r.Size,
				OffsetOut: r.OffsetOut,
				Aligned:   r.Aligned(),
			}
		})
	}
	return nil
}

func (ep *Endpoint) subject() string {
	if ep.cfg.Subject != "" {
		return ep.cfg.Subject
	}
	return "layout"
}

func (ep *Endpoint) emit(stage log.Stage, category log.Category, fill func(*log.Event)) {
	ev := log.Event{
		Timestamp:     time.Now(),
		ElaborationID: ep.id,
		Stage:         stage,
		Category:      category,
		Subject:       ep.cfg.Subject,
	}
	fill(&ev)
	ep.cfg.Logger.Log(ev)
}

func (ep *Endpoint) emitError(err error) {
	stage := log.StageLayout
	if se, ok := err.(*stageError); ok {
		stage = se.stage
	}
	ep.emit(stage, log.CategoryError, func(ev *log.Event) {
		ev.Error = &log.ErrorEventData{
			Stage:   stage,
			Message: err.Error(),
			Class:   elab.Class(err),
		}
	})
}

// ID returns the elaboration ID shared by every event of this endpoint.
func (ep *Endpoint) ID() string { return ep.id }

// Type returns the elaborated layout.
func (ep *Endpoint) Type() layout.Struct { return ep.typ }

// Config returns the configuration the endpoint was built with.
func (ep *Endpoint) Config() Config { return ep.cfg }

// AddressMap returns a copy of the elaboration result.
func (ep *Endpoint) AddressMap() *AddressMap { return ep.amap.Clone() }

// Decoded returns the decoded interface tree. It must not be modified.
func (ep *Endpoint) Decoded() *busif.Decoder { return ep.decoded }

// WordAddrStep returns the number of bits in one bus data word.
func (ep *Endpoint) WordAddrStep() uint64 { return ep.cfg.Bus.WordAddrStep() }

// AddrStep returns the number of bits per raw bus address.
func (ep *Endpoint) AddrStep() uint64 { return ep.cfg.Bus.AddrStep }

// MinAddrWidth returns the address width needed to cover the layout.
func (ep *Endpoint) MinAddrWidth() int { return ep.amap.AddrWidth }

// Regions returns the normalized region table, or nil.
func (ep *Endpoint) Regions() []remap.Region {
	if ep.remapper == nil {
		return nil
	}
	return ep.remapper.Regions()
}

// IsInRange returns the predicate MinAddr <= addr < MaxAddr. Bounds the
// address cannot exceed are left out.
func (ep *Endpoint) IsInRange(addr hdl.Expr) hdl.Expr {
	w := addr.Width()
	var terms []hdl.Expr
	if ep.amap.MinAddr > 0 {
		if hdl.BitLen(ep.amap.MinAddr) > w {
			return hdl.Const(0, 1)
		}
		terms = append(terms, hdl.Ge(addr, hdl.Const(ep.amap.MinAddr, w)))
	}
	if last := ep.amap.MaxAddr - 1; hdl.BitLen(last) <= w && last < hdl.Mask(w) {
		terms = append(terms, hdl.Le(addr, hdl.Const(last, w)))
	}
	if len(terms) == 0 {
		return hdl.True()
	}
	return hdl.And(terms[0], terms[1:]...)
}

// Contains reports whether the raw address addr is inside the address map,
// without remapping.
func (ep *Endpoint) Contains(addr uint64) bool {
	return ep.amap.Contains(addr)
}

// Lookup resolves a raw bus address, remapped first when regions are
// configured, to its entry and the word index inside the entry.
func (ep *Endpoint) Lookup(addr uint64) (Entry, uint64, bool) {
	if ep.remapper != nil {
		addr, _ = ep.remapper.Map(addr)
	}
	e, ok := ep.amap.Lookup(addr)
	if !ok {
		return Entry{}, 0, false
	}
	bit := addr*ep.cfg.Bus.AddrStep - e.Field.Start
	return e, bit / uint64(e.DataWidth), true
}

// RemapAddress returns the address decoded in place of addr: the output of
// the region table, or addr itself without one.
func (ep *Endpoint) RemapAddress(addr *hdl.Signal) (hdl.Expr, error) {
	if ep.remapper == nil {
		return addr, nil
	}
	tr, err := ep.remapper.Translate(addr)
	if err != nil {
		return nil, err
	}
	return tr.Out, nil
}
