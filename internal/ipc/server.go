package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

// Handler processes one control command.
type Handler interface {
	Handle(context.Context, Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// WithQuit layers the process-level quit command over session command
// handling. The session controller never owns process lifetime, so quit is
// intercepted here and forwarded to the app's shutdown func; the reply is
// still written before the socket goes down.
func WithQuit(next Handler, shutdown func()) Handler {
	return HandlerFunc(func(ctx context.Context, req Request) Response {
		if req.Command == "quit" {
			shutdown()
			return Response{OK: true, Message: "shutting down"}
		}
		return next.Handle(ctx, req)
	})
}

// Serve accepts control-socket clients until ctx is cancelled or the listener
// closes. Each connection carries exactly one command.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept control connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			serveConn(ctx, c, handler)
		}(conn)
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler) {
	defer conn.Close()

	var req Request
	if err := decodeValue(bufio.NewReader(conn), &req); err != nil {
		_ = encodeValue(conn, Response{Error: fmt.Sprintf("bad request: %v", err)})
		return
	}

	_ = encodeValue(conn, handler.Handle(ctx, req))
}
