package http

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/ssn-relay/internal/config"
	"github.com/vovakirdan/ssn-relay/internal/core"
	"github.com/vovakirdan/ssn-relay/internal/nettts"
)

const testPrefix = "/rate 99 "

// fakeEngine stands in for NetTTS and reports each line it receives.
func fakeEngine(t *testing.T) (string, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	lines := make(chan string, 64)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				line, err := r.ReadString('\n')
				if err == nil {
					lines <- line
				}
			}(conn)
		}
	}()
	return ln.Addr().String(), lines
}

// deadAddr returns an address nothing listens on.
func deadAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func newTestRouter(t *testing.T, ttsAddr string, allowed ...string) http.Handler {
	t.Helper()

	disabledLogger := zerolog.New(nil)

	cfg := config.Default()
	cfg.Prefix = testPrefix
	cfg.AllowedUsers = allowed

	relay := core.NewRelay(core.Options{
		Prefix:    cfg.Prefix,
		MaxLen:    cfg.MaxLen,
		AllowList: core.NewAllowList(cfg.AllowedUsers),
	}, nettts.NewClient(ttsAddr, 500*time.Millisecond))

	return NewRouter(relay, cfg, &disabledLogger)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func expectResponse(t *testing.T, resp *httptest.ResponseRecorder, code int, body string) {
	t.Helper()

	if resp.Code != code {
		t.Errorf("expected status %d, got %d", code, resp.Code)
	}
	if resp.Body.String() != body {
		t.Errorf("expected body %q, got %q", body, resp.Body.String())
	}
}

func expectLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()

	select {
	case got := <-lines:
		if got != want {
			t.Fatalf("expected tts line %q, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected tts line %q, got nothing", want)
	}
}

func expectNoLine(t *testing.T, lines <-chan string) {
	t.Helper()

	select {
	case got := <-lines:
		t.Fatalf("expected no tts line, got %q", got)
	case <-time.After(150 * time.Millisecond):
	}
}
