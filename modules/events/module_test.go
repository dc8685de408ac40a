package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/restflow/internal/config"
	"github.com/vk/restflow/internal/registry"
)

func eventsCall() *registry.Call {
	return &registry.Call{
		Resource:   &config.Resource{Name: "user"},
		Collection: config.CollectionAttributes,
		ResourceID: "user-1",
	}
}

func TestOnEmitResourceEvent_UnconfiguredIsNoOp(t *testing.T) {
	t.Setenv(EndpointEnv, "")

	val, err := OnEmitResourceEvent(context.Background(), eventsCall())

	require.NoError(t, err)
	assert.Equal(t, cty.NilVal, val)
}

func TestOnEmitResourceEvent_ConnectErrorSurfaces(t *testing.T) {
	// An endpoint that refuses the websocket handshake makes the client fire
	// connect_error, possibly more than once while retrying; the callback
	// must return the first failure promptly.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no socket.io here", http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)
	t.Setenv(EndpointEnv, ts.URL+"/socket.io/")

	val, err := OnEmitResourceEvent(context.Background(), eventsCall())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource event")
	assert.Equal(t, cty.NilVal, val)
}

func TestOnEmitResourceEvent_BadURL(t *testing.T) {
	t.Setenv(EndpointEnv, "://not-a-url")

	_, err := OnEmitResourceEvent(context.Background(), eventsCall())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "events URL")
}
