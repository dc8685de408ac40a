// Package events provides a run_last callback that broadcasts a resource
// event to a socket.io endpoint, so interested clients learn about changes
// in near real time.
package events

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/vk/restflow/internal/ctxlog"
	"github.com/vk/restflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EndpointEnv names the environment variable holding the socket.io URL. An
// unset variable turns the callback into a no-op.
const EndpointEnv = "RESTFLOW_EVENTS_URL"

// connectTimeout bounds the time spent establishing the connection and
// emitting the event.
const connectTimeout = 10 * time.Second

// OnEmitResourceEvent connects to the configured socket.io endpoint and
// emits a "resource" event naming the type and id of the processed
// resource. It contributes no value to the merged output.
func OnEmitResourceEvent(ctx context.Context, call *registry.Call) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("callback", "events", "resource", call.Resource.Name)

	rawURL := os.Getenv(EndpointEnv)
	if rawURL == "" {
		logger.Debug("Events endpoint not configured, skipping.")
		return cty.NilVal, nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to parse events URL: %w", err)
	}

	var isConnected atomic.Bool
	done := make(chan error, 1)
	opCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting events client")
		io.Disconnect()
	}()

	// The manager may fire connect_error repeatedly while retrying; only the
	// first outcome matters and later sends must not park the socket.io
	// callback goroutine.
	report := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected to events endpoint.", "sid", io.Id())
		io.Emit("resource", map[string]string{
			"type": call.Resource.Name,
			"id":   call.ResourceID,
		})
		report(nil)
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if connErr, ok := errs[0].(error); ok {
				report(connErr)
				return
			}
		}
		report(fmt.Errorf("events connection failed"))
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return cty.NilVal, fmt.Errorf("timed out after connecting while emitting resource event")
		}
		return cty.NilVal, fmt.Errorf("timed out while waiting for events connection")
	case err := <-done:
		if err != nil {
			return cty.NilVal, fmt.Errorf("failed to emit resource event: %w", err)
		}
		logger.Info("✅ Resource event emitted", "id", call.ResourceID)
		return cty.NilVal, nil
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCallback("OnEmitResourceEvent", &registry.RegisteredCallback{Fn: OnEmitResourceEvent})
}
