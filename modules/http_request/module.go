// Package http_request provides the 'http_request' runner: one HTTP request
// whose status and body become the task's result.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
	"github.com/vk/taskgridgo/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the http_request runner.
type Input struct {
	URL    string `cty:"url"`
	Method string `cty:"method,optional"`
}

func run(ctx context.Context, input any, deps task.ResultMap) (any, error) {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	method := in.Method
	if method == "" {
		method = http.MethodGet
	}
	logger.Info("Making HTTP request.", "method", method, "url", in.URL)

	req, err := http.NewRequestWithContext(ctx, method, in.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        string(body),
	}, nil
}

// Register registers the 'http_request' runner.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("http_request", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       run,
	})
}
