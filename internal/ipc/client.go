package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// Send dials the control socket, issues one command, and waits for the reply.
func Send(ctx context.Context, path string, req Request, timeout time.Duration) (Response, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := encodeValue(conn, req); err != nil {
		return Response{}, fmt.Errorf("send %q: %w", req.Command, err)
	}

	var resp Response
	if err := decodeValue(bufio.NewReader(conn), &resp); err != nil {
		return Response{}, fmt.Errorf("await %q reply: %w", req.Command, err)
	}
	return resp, nil
}

// Probe asks an existing owner for its status. It reports false without error
// when nothing answers, so Acquire can reclaim a stale socket file.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	_, err := Send(ctx, path, Request{Command: "status"}, timeout)
	switch {
	case err == nil:
		return true, nil
	case isSocketMissing(err), isConnectionRefused(err):
		return false, nil
	default:
		return false, fmt.Errorf("probe %s: %w", path, err)
	}
}

func isSocketMissing(err error) bool {
	return err != nil && errors.Is(err, os.ErrNotExist)
}

func isConnectionRefused(err error) bool {
	return err != nil && errors.Is(err, syscall.ECONNREFUSED)
}
