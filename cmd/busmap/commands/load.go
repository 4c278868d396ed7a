// Package commands implements the busmap CLI commands.
package commands

import (
	"fmt"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/log"
	"github.com/busmap/busmap-go/pkg/specparse"
)

// LoadOptions selects the definition files and the event sink of a run.
type LoadOptions struct {
	DefPath    string
	SharedPath string
	Logger     log.Logger
}

// Load reads a device definition and elaborates its endpoint.
func Load(opts LoadOptions) (*specparse.RawDeviceDef, *endpoint.Endpoint, error) {
	def, err := specparse.LoadDeviceDef(opts.DefPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.SharedPath != "" {
		shared, err := specparse.LoadSharedTypes(opts.SharedPath)
		if err != nil {
			return nil, nil, err
		}
		def = def.WithShared(shared)
	}

	t, err := def.Layout()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := def.EndpointConfig()
	if err != nil {
		return nil, nil, err
	}
	if opts.Logger != nil {
		cfg.Logger = opts.Logger
	}

	ep, err := endpoint.New(t, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opts.DefPath, err)
	}
	return def, ep, nil
}
