// Package nettts delivers single lines to a NetTTS engine over TCP.
package nettts

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultTimeout bounds the connect and write of one delivery.
const DefaultTimeout = 2 * time.Second

// DeliveryError records which step of a delivery failed and why.
type DeliveryError struct {
	Addr string
	Op   string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("nettts %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Client opens a fresh connection for every line. Connections are never reused.
type Client struct {
	addr    string
	timeout time.Duration
	dialer  net.Dialer
}

// NewClient returns a client for addr ("host:port"). A non-positive timeout
// falls back to DefaultTimeout.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		dialer:  net.Dialer{Timeout: timeout},
	}
}

// Addr returns the engine address.
func (c *Client) Addr() string {
	return c.addr
}

// Deliver writes line plus a newline terminator and closes the connection.
// A blank line is a no-op.
func (c *Client) Deliver(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	payload := strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(line) + "\n"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return &DeliveryError{Addr: c.addr, Op: "dial", Err: err}
	}

	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		_ = conn.Close()
		return &DeliveryError{Addr: c.addr, Op: "write", Err: err}
	}
	if _, err := conn.Write([]byte(payload)); err != nil {
		_ = conn.Close()
		return &DeliveryError{Addr: c.addr, Op: "write", Err: err}
	}
	if err := conn.Close(); err != nil {
		return &DeliveryError{Addr: c.addr, Op: "close", Err: err}
	}
	return nil
}
