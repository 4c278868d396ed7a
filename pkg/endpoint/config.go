package endpoint

import (
	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/layout"
	"github.com/busmap/busmap-go/pkg/log"
	"github.com/busmap/busmap-go/pkg/remap"
)

// Config configures an Endpoint. It is copied on construction; changing it
// afterwards has no effect.
type Config struct {
	// Bus is the bus the address space is decoded from.
	Bus busif.Profile

	// Classifier decides which composite fields are entered.
	// If nil, layout.DefaultClassifier is used.
	Classifier layout.Classifier

	// Oracle flattens the layout.
	// If nil, layout.Walker is used.
	Oracle layout.Oracle

	// Logger receives elaboration events.
	// If nil, events are discarded.
	Logger log.Logger

	// Regions is an optional remap table applied to bus addresses before
	// they are decoded.
	Regions []remap.Region

	// Subject names the layout in elaboration events. Defaults to the
	// struct name.
	Subject string
}

// DefaultConfig returns a Config for a 32-bit AXI4-Lite bus with a 32-bit
// address.
func DefaultConfig() Config {
	return Config{
		Bus:        busif.AXI4Lite(32, 32),
		Classifier: layout.DefaultClassifier{},
		Oracle:     layout.Walker{},
		Logger:     log.NoopLogger{},
	}
}

func (c Config) withDefaults() Config {
	if c.Classifier == nil {
		c.Classifier = layout.DefaultClassifier{}
	}
	if c.Oracle == nil {
		c.Oracle = layout.Walker{}
	}
	if c.Logger == nil {
		c.Logger = log.NoopLogger{}
	}
	if len(c.Regions) > 0 {
		c.Regions = append([]remap.Region(nil), c.Regions...)
	}
	return c
}

// Validate checks the bus profile.
func (c *Config) Validate() error {
	return c.Bus.Validate()
}
