//go:build !cgo

package hal

import (
	"context"
	"errors"
)

func windowAvailable() error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}

func runWindow(_ context.Context, _ Config, _ Logger, _ NewAppFunc) error {
	return windowAvailable()
}
