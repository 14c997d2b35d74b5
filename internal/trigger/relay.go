package trigger

import (
	"aprd/internal/providers"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

const (
	relayReadTimeout  = 5 * time.Second
	relayWriteTimeout = 5 * time.Second
	maxRequestSize    = 4096
)

// Relay accepts button presses from the status indicator over a unix socket.
type Relay struct {
	socketPath string
	listener   *Listener
	logger     providers.Logger
	conns      sync.WaitGroup
}

func NewRelay(socketPath string, listener *Listener, logger providers.Logger) *Relay {
	return &Relay{socketPath: socketPath, listener: listener, logger: logger}
}

// Serve blocks until ctx is cancelled.
func (r *Relay) Serve(ctx context.Context) error {
	if err := os.Remove(r.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", r.socketPath, err)
	}
	ln, err := net.Listen("unix", r.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", r.socketPath, err)
	}
	defer func() {
		ln.Close()
		os.Remove(r.socketPath)
	}()
	if err = os.Chmod(r.socketPath, 0o660); err != nil {
		return fmt.Errorf("chmod %s: %w", r.socketPath, err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	r.logger.Infof(providers.TypeTrigger, "Button relay listening on %s", r.socketPath)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			r.logger.Warnf(providers.TypeTrigger, "Relay accept failed: %v", err)
			continue
		}
		r.conns.Add(1)
		go func() {
			defer r.conns.Done()
			r.handle(conn)
		}()
	}
	r.conns.Wait()
	return nil
}

func (r *Relay) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(relayReadTimeout))

	var req Request
	if err := decode(io.LimitReader(conn, maxRequestSize), &req); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		r.respond(conn, Response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	switch req.Action {
	case ActionPing:
		r.respond(conn, Response{OK: true})
	case ActionRotate:
		if err := r.listener.Press(req.Interface); err != nil {
			r.respond(conn, Response{Error: err.Error()})
			return
		}
		r.respond(conn, Response{OK: true})
	case "":
		r.respond(conn, Response{Error: "missing required field: action"})
	default:
		r.respond(conn, Response{Error: fmt.Sprintf("unknown action %q", req.Action)})
	}
}

func (r *Relay) respond(conn net.Conn, resp Response) {
	_ = conn.SetWriteDeadline(time.Now().Add(relayWriteTimeout))
	if err := encode(conn, resp); err != nil {
		r.logger.Debugf(providers.TypeTrigger, "Failed to write relay response: %v", err)
	}
}

// Send delivers one request to a running daemon's relay socket.
func Send(ctx context.Context, socketPath string, req Request) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", socketPath, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err = encode(conn, req); err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		_ = unixConn.CloseWrite()
	}

	var resp Response
	if err = decode(conn, &resp); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if !resp.OK {
		return errors.New(resp.Error)
	}
	return nil
}

// SendButtonPress asks the daemon to rotate iface.
func SendButtonPress(ctx context.Context, socketPath, iface string) error {
	return Send(ctx, socketPath, Request{Action: ActionRotate, Interface: iface})
}
