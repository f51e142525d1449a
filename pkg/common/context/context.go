// Package context holds small helpers for interpreting context errors.
package context

import (
	"context"
	"errors"
	"fmt"

	tferrors "github.com/vnykmshr/taskflow/pkg/common/errors"
)

// IsCanceled returns true if the context has been canceled
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context was canceled due to a timeout
func IsTimedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Err returns ctx.Err(). A passed deadline is additionally marked with
// errors.ErrTimeout so that errors.IsTemporary recognizes it.
func Err(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if IsTimedOut(ctx) {
		return fmt.Errorf("%w: %w", tferrors.ErrTimeout, err)
	}
	return err
}
