package log

import (
	"strings"
	"time"
)

// Event represents an elaboration log event captured at any stage.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ElaborationID identifies one elaboration pass (UUID).
	ElaborationID string `cbor:"2,keyasint"`

	// Stage where the event was captured.
	Stage Stage `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Subject names the layout being elaborated.
	Subject string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Field      *FieldEvent      `cbor:"10,keyasint,omitempty"` // Layout and bind stages
	Region     *RegionEvent     `cbor:"11,keyasint,omitempty"` // Remap stage
	Summary    *SummaryEvent    `cbor:"12,keyasint,omitempty"` // End of a successful pass
	Connection *ConnectionEvent `cbor:"13,keyasint,omitempty"` // Connect stage
	Error      *ErrorEventData  `cbor:"14,keyasint,omitempty"` // Failures at any stage
}

// Stage indicates which elaboration step captured the event.
type Stage uint8

const (
	// StageLayout is the flattening of the structural description.
	StageLayout Stage = 0
	// StageBind is the matching of fields to interfaces.
	StageBind Stage = 1
	// StageRemap is the region table setup.
	StageRemap Stage = 2
	// StageConnect is the interface map connection.
	StageConnect Stage = 3
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLayout:
		return "LAYOUT"
	case StageBind:
		return "BIND"
	case StageRemap:
		return "REMAP"
	case StageConnect:
		return "CONNECT"
	default:
		return "UNKNOWN"
	}
}

// ParseStage parses a stage name, case-insensitively.
func ParseStage(s string) (Stage, bool) {
	for st := StageLayout; st <= StageConnect; st++ {
		if strings.EqualFold(s, st.String()) {
			return st, true
		}
	}
	return 0, false
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryField indicates a field event.
	CategoryField Category = 0
	// CategoryRegion indicates a region event.
	CategoryRegion Category = 1
	// CategorySummary indicates the end of a pass.
	CategorySummary Category = 2
	// CategoryConnection indicates a connection event.
	CategoryConnection Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryField:
		return "FIELD"
	case CategoryRegion:
		return "REGION"
	case CategorySummary:
		return "SUMMARY"
	case CategoryConnection:
		return "CONNECTION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryField; c <= CategoryError; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, true
		}
	}
	return 0, false
}

// FieldEvent captures one flattened or bound field.
type FieldEvent struct {
	// Path is the field path from the layout root.
	Path string `cbor:"1,keyasint"`

	// Start and End are bit offsets; End is exclusive.
	Start uint64 `cbor:"2,keyasint"`
	End   uint64 `cbor:"3,keyasint"`

	// Kind is the layout kind (bits, array, struct).
	Kind string `cbor:"4,keyasint"`

	// Interface is the bound interface kind (bind stage only).
	Interface string `cbor:"5,keyasint,omitempty"`

	// Access is the access mode.
	Access string `cbor:"6,keyasint,omitempty"`

	// DataWidth is the interface data width.
	DataWidth int `cbor:"7,keyasint,omitempty"`

	// WidthShared is set when the data width equals the bus data width.
	WidthShared bool `cbor:"8,keyasint,omitempty"`
}

// RegionEvent captures one normalized remap region.
type RegionEvent struct {
	OffsetIn  uint64 `cbor:"1,keyasint"`
	Size      uint64 `cbor:"2,keyasint"`
	OffsetOut uint64 `cbor:"3,keyasint"`
	Aligned   bool   `cbor:"4,keyasint,omitempty"`
}

// SummaryEvent captures the result of a successful pass.
type SummaryEvent struct {
	Entries   int    `cbor:"1,keyasint"`
	MinAddr   uint64 `cbor:"2,keyasint"`
	MaxAddr   uint64 `cbor:"3,keyasint"`
	AddrWidth int    `cbor:"4,keyasint"`
	AddrStep  uint64 `cbor:"5,keyasint"`
	Bus       string `cbor:"6,keyasint,omitempty"`

	// Duration of the pass.
	Duration time.Duration `cbor:"7,keyasint,omitempty"`
}

// ConnectionEvent captures one interface map connection.
type ConnectionEvent struct {
	Path   string `cbor:"1,keyasint"`
	Kind   string `cbor:"2,keyasint"`
	Target string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures failures at any stage.
type ErrorEventData struct {
	// Stage where the error occurred.
	Stage Stage `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Class is the error class (configuration error, shape mismatch, ...).
	Class string `cbor:"3,keyasint,omitempty"`
}
