package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Interrupt is a context cancelled by SIGINT or SIGTERM that remembers which
// signal arrived.
type Interrupt struct {
	context.Context
	cancel context.CancelFunc
	caught atomic.Value
}

// OnInterrupt starts watching for termination signals until Stop is called
// or parent is done.
func OnInterrupt(parent context.Context) *Interrupt {
	ctx, cancel := context.WithCancel(parent)
	in := &Interrupt{Context: ctx, cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			in.caught.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return in
}

// Stop releases the signal handler.
func (in *Interrupt) Stop() {
	in.cancel()
}

// Caught returns the signal that cancelled the context, or nil.
func (in *Interrupt) Caught() os.Signal {
	sig, _ := in.caught.Load().(os.Signal)
	return sig
}

// notice prints a line addressed to the user rather than part of the world output.
func notice(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ctxReader stops reading once ctx is done. A Read already blocked on the
// underlying reader still has to return first.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(p)
	if ctxErr := c.ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	return n, err
}

// HandleExecutionError treats end of input and cancellation as a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
