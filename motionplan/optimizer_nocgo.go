//go:build windows || no_cgo

package motionplan

import (
	"context"

	"github.com/pkg/errors"
)

var errNotSupported = errors.New("constrained optimization is not supported on this build")

func (o *Optimizer) solve(ctx context.Context, start Reduced, result *OptimizeResult) error {
	return errNotSupported
}
