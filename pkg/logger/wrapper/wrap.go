package wrap

import (
	"context"
	"errors"
)

// Error wraps an error with the current LogCtx from the context. The
// incoming error is never modified: re-wrapping an already wrapped error
// adds a fresh outer layer, keeping the chain acyclic for errors.Is/As.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		c = x
	} else {
		// No context on this call: carry forward whatever an inner
		// wrapper already captured.
		var e *errorWithLogCtx
		if errors.As(err, &e) {
			c = e.logCtx
		}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}
