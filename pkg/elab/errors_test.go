package elab

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		msg      string
	}{
		{
			name:     "config",
			err:      Configf("normalize", "region %d overlaps", 2),
			sentinel: ErrConfig,
			msg:      "normalize: configuration error: region 2 overlaps",
		},
		{
			name:     "shape",
			err:      &ShapeMismatchError{Op: "parse template", Reason: "leaf count", Expected: 3, Got: 2},
			sentinel: ErrShapeMismatch,
			msg:      "parse template: shape mismatch: leaf count (expected 3, got 2)",
		},
		{
			name:     "unsupported",
			err:      &UnsupportedTypeError{Path: "regs.a", What: "signal"},
			sentinel: ErrUnsupportedType,
			msg:      "unsupported type at regs.a: signal",
		},
		{
			name:     "width",
			err:      &InsufficientWidthError{Op: "translate", Subject: "dst address", Required: 12, Available: 8},
			sentinel: ErrInsufficientWidth,
			msg:      "translate: insufficient width: dst address needs 12 bits, has 8",
		},
		{
			name:     "direction",
			err:      &DirectionConflictError{Op: "connect", Path: "ctrl", Want: "slave", Got: "master"},
			sentinel: ErrDirectionConflict,
			msg:      "connect: direction conflict at ctrl: want slave, got master",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.msg, tt.err.Error())

			wrapped := fmt.Errorf("building endpoint: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestErrorClassesAreDistinct(t *testing.T) {
	err := Configf("", "bad step")
	assert.False(t, errors.Is(err, ErrShapeMismatch))
	assert.False(t, errors.Is(err, ErrInsufficientWidth))

	var ce *ConfigError
	if assert.ErrorAs(t, err, &ce) {
		assert.Equal(t, "bad step", ce.Reason)
	}
}

func TestClass(t *testing.T) {
	wrapped := fmt.Errorf("load regs.yaml: %w", &InsufficientWidthError{Op: "bind", Subject: "ctrl", Required: 64, Available: 32})
	assert.Equal(t, "insufficient width", Class(wrapped))
	assert.Equal(t, "configuration error", Class(Configf("x", "y")))
	assert.Equal(t, "", Class(errors.New("plain")))
	assert.Equal(t, "", Class(nil))
}
