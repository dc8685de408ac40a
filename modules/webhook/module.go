// Package webhook provides a run_last callback that notifies an external
// endpoint after a resource's other callbacks have completed.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EndpointEnv names the environment variable holding the webhook URL. An
// unset variable turns the callback into a no-op.
const EndpointEnv = "RESTFLOW_WEBHOOK_URL"

// httpClient is shared across invocations to reuse TCP connections.
var httpClient = &http.Client{Timeout: 10 * time.Second}

// OnNotifyWebhook posts a small event document describing the completed run.
// It contributes no value to the merged output.
func OnNotifyWebhook(ctx context.Context, call *registry.Call) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("callback", "webhook")

	url := os.Getenv(EndpointEnv)
	if url == "" {
		logger.Debug("Webhook endpoint not configured, skipping.")
		return cty.NilVal, nil
	}

	event := map[string]string{
		"resource":   call.Resource.Name,
		"collection": call.Collection,
		"id":         call.ResourceID,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to encode webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return cty.NilVal, fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	logger.Info("✅ Webhook delivered", "url", url, "status", resp.StatusCode)
	return cty.NilVal, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCallback("OnNotifyWebhook", &registry.RegisteredCallback{Fn: OnNotifyWebhook})
}
