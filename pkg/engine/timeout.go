package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/kisketch/pkg/board"
)

var (
	// ErrTimeout is returned when evaluation runs past the engine's timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

type evalResult struct {
	board  *board.Board
	errors []EvalError
	err    error
}

// wait blocks until ch delivers, ctx is done, or the engine timeout expires.
// The evaluating goroutine is not stopped on timeout; its result is dropped
// because nothing reads ch again.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*board.Board, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	select {
	case res := <-ch:
		if gen != e.currentGeneration() {
			return nil, nil, ErrSuperseded
		}
		return res.board, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout())
		}
		return nil, nil, ctx.Err()
	}
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return EvalTimeout
	}
	return e.Timeout
}
