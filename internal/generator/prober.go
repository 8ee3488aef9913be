package generator

import (
	"context"
	"errors"
	"time"

	"shortsfactory/internal/provider"
)

// ConnectionStatus is the result of probing the active provider.
type ConnectionStatus struct {
	Success   bool   `json:"success"`
	LatencyMs int64  `json:"latencyMs"`
	Message   string `json:"message"`
}

// CheckConnection fires one minimal request at the active provider and
// reports reachability plus round-trip latency. A missing API key reports as
// a failure, not an error.
func (g *Generator) CheckConnection(ctx context.Context) (ConnectionStatus, error) {
	active := g.settings.Provider()

	client, err := g.factory(ctx, active, g.settings)
	if err != nil {
		var missing *provider.MissingKeyError
		if errors.As(err, &missing) {
			return ConnectionStatus{Success: false, Message: missing.Error()}, nil
		}
		return ConnectionStatus{}, err
	}

	start := time.Now()
	msg, err := client.Ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return ConnectionStatus{Success: false, LatencyMs: latency, Message: err.Error()}, nil
	}

	return ConnectionStatus{Success: true, LatencyMs: latency, Message: msg}, nil
}
