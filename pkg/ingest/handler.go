package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler is the entry point between a transport layer and a pipeline.
// It parses request envelopes, fills in missing identifiers, and logs
// each request's outcome.
type Handler struct {
	pipeline Pipeline
	logger   *zap.Logger
}

// NewHandler creates a handler for the pipeline. A nil logger defaults
// to a no-op logger.
func NewHandler(pipeline Pipeline, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Handle parses and ingests one request payload. Backpressure errors
// pass through unwrapped so the transport layer can map them to its own
// retry signal.
func (h *Handler) Handle(ctx context.Context, payload []byte) (*Response, error) {
	start := time.Now()

	req, err := ParseRequest(payload)
	if err != nil {
		h.logger.Warn("bad ingest request", zap.Error(err))
		return nil, err
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	for i := range req.Events {
		if req.Events[i].ID == "" {
			req.Events[i].ID = uuid.NewString()
		}
		if req.Events[i].Source == "" {
			req.Events[i].Source = req.Source
		}
	}

	if err := h.pipeline.Ingest(ctx, req.Events...); err != nil {
		h.logger.Warn("ingest rejected",
			zap.String("request_id", req.RequestID),
			zap.String("source", req.Source),
			zap.Int("events", len(req.Events)),
			zap.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	h.logger.Info("request ingested",
		zap.String("request_id", req.RequestID),
		zap.String("source", req.Source),
		zap.Int("events", len(req.Events)),
		zap.Duration("elapsed", elapsed))

	return &Response{
		RequestID: req.RequestID,
		Ingested:  len(req.Events),
		Elapsed:   elapsed,
	}, nil
}
