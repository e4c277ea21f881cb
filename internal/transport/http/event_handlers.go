package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/ssn-relay/internal/core"
	"github.com/vovakirdan/ssn-relay/internal/observability"
	"github.com/vovakirdan/ssn-relay/internal/proto"
)

const (
	okBody       = "ok\n"
	badJSONBody  = "bad json\n"
	tooLargeBody = "too large\n"
	methodBody   = "method not allowed\n"

	// maxLoggedBody caps how much of an undecodable body is echoed to the log.
	maxLoggedBody = 512
)

var errBodyTooLarge = errors.New("request body too large")

// EventRelay runs a decoded chat event through the pipeline.
type EventRelay interface {
	Handle(ctx context.Context, event any) core.Result
}

// EventHandlers accepts chat events pushed by the aggregator.
type EventHandlers struct {
	relay   EventRelay
	maxBody int64
	log     *zerolog.Logger
}

// NewEventHandlers creates the ingest handlers.
func NewEventHandlers(relay EventRelay, maxBody int64, logger *zerolog.Logger) *EventHandlers {
	return &EventHandlers{relay: relay, maxBody: maxBody, log: logger}
}

// Ingest handles one chat event.
// POST /<any path>
func (h *EventHandlers) Ingest(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.String(http.StatusMethodNotAllowed, methodBody)
		return
	}

	reqLog := h.log.With().
		Str("request_id", c.GetString(ContextKeyRequestID)).
		Str("path", c.Request.URL.Path).
		Logger()

	body, err := readBody(c.Request, h.maxBody)
	if errors.Is(err, errBodyTooLarge) {
		reqLog.Warn().Int64("content_length", c.Request.ContentLength).Msg("request body too large")
		observability.RecordEvent("too_large")
		c.String(http.StatusRequestEntityTooLarge, tooLargeBody)
		return
	}
	if err != nil {
		reqLog.Debug().Err(err).Int("read", len(body)).Msg("short request body")
	}
	reqLog.Debug().Int("len", len(body)).Msg("event received")

	event, err := proto.Decode(body)
	if err != nil {
		reqLog.Warn().Err(err).Str("body", truncate(body, maxLoggedBody)).Msg("json parse error")
		observability.RecordEvent("bad_json")
		c.String(http.StatusBadRequest, badJSONBody)
		return
	}
	reqLog.Info().RawJSON("event", compact(body)).Msg("event")

	// Delivery outlives an aggregator that hangs up early; the TTS timeout still bounds it.
	res := h.relay.Handle(context.WithoutCancel(c.Request.Context()), event)
	observability.RecordEvent(string(res.Outcome))
	logResult(&reqLog, res)

	c.String(http.StatusOK, okBody)
}

func logResult(logger *zerolog.Logger, res core.Result) {
	switch res.Outcome {
	case core.OutcomeDelivered:
		logger.Info().Str("name", res.Name).Str("source", res.Source).Str("line", res.Line).Msg("sent to nettts")
	case core.OutcomeFiltered:
		logger.Info().Str("name", res.Name).Msg("ignoring user not in allow-list")
	case core.OutcomeDeliveryFailed:
		logger.Warn().Err(res.Err).Str("name", res.Name).Str("line", res.Line).Msg("nettts send error")
	case core.OutcomeInternal:
		logger.Error().Err(res.Err).Msg("event handling error")
	default:
		logger.Debug().Str("outcome", string(res.Outcome)).Str("name", res.Name).Msg("nothing to speak")
	}
}

// readBody reads exactly Content-Length bytes. A missing or invalid length
// yields an empty body. On a short read the bytes received so far are returned
// with the error.
func readBody(r *http.Request, limit int64) ([]byte, error) {
	n := r.ContentLength
	if n <= 0 {
		return nil, nil
	}
	if limit > 0 && n > limit {
		return nil, errBodyTooLarge
	}
	return io.ReadAll(io.LimitReader(r.Body, n))
}

// compact squeezes a valid JSON body onto one log line.
func compact(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return body
	}
	return buf.Bytes()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
