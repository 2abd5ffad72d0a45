package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ga-ut/gh-db/pkg/core"
)

// do performs one round trip and returns the response body of a 2xx reply.
// Anything else becomes a *core.RequestError tagged with phase.
func (r *Repository) do(ctx context.Context, phase core.Phase, method, url string, payload any) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "ghdb."+string(phase),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attrPhase.String(string(phase)),
			attribute.String("http.request.method", method),
		),
	)
	defer span.End()

	start := time.Now()
	status, body, err := r.roundTrip(ctx, method, url, payload)
	r.metrics.recordRequest(ctx, phase, status, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("request failed", "phase", phase, "method", method, "error", err)
		return nil, &core.RequestError{Phase: phase, Err: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status < 200 || status > 299 {
		reqErr := &core.RequestError{Status: status, Phase: phase}
		span.SetStatus(codes.Error, reqErr.Error())
		r.logger.Debug("request rejected", "phase", phase, "method", method, "status", status)
		return nil, reqErr
	}
	return body, nil
}

func (r *Repository) roundTrip(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.headers != nil {
		req.Header = r.headers.Clone()
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
