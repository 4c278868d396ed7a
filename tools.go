//go:build tools

package tools

// Run: go run github.com/vektra/mockery/v2 (from the module root) to
// regenerate the mocks configured in .mockery.yaml.
import (
	_ "github.com/vektra/mockery/v2"
)
