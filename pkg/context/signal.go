// Package context provides context utilities with proper resource cleanup
package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// WithSignal creates a context that cancels when any of the given signals
// arrives. The returned cancel function must be called to release the
// signal registration and the watcher goroutine.
//
// The run command uses this so an interrupted pipeline sees context
// cancellation; cleanup steps are shielded from it by the executor.
func WithSignal(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, len(sigs))
	signal.Notify(ch, sigs...)

	stopCh := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		select {
		case <-ch:
			cancel()
		case <-stopCh:
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()

	stop := func() {
		stopOnce.Do(func() {
			cancel()
			close(stopCh)
		})
	}
	return ctx, stop
}
