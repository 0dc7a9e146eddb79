package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/config"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *httptest.Server, models ...string) *Client {
	t.Helper()
	client, err := NewClient(&config.GeminiConfig{
		APIKey:          "test-key",
		Models:          models,
		RotationDelayMs: 1,
	})
	require.NoError(t, err)
	client.baseURL = server.URL
	client.httpClient = server.Client()
	return client
}

func textResponse(text string) string {
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestGenerateRotatesOnQuotaExhaustion(t *testing.T) {
	var calls int32
	var models []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Path looks like /models/<model>:generateContent
		segment := strings.TrimPrefix(r.URL.Path, "/models/")
		models = append(models, strings.TrimSuffix(segment, ":generateContent"))

		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`))
			return
		}
		w.Write([]byte(textResponse("Claro vecino, tengo todo listo.")))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a", "model-b", "model-c")

	reply, err := client.ComposeReply(context.Background(), "quiero arroz", "todo encontrado")
	require.NoError(t, err)
	assert.Equal(t, "Claro vecino, tengo todo listo.", reply)

	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, models)
	assert.Equal(t, 2, client.modelIndex(), "cursor should rest on the model that had quota")
}

func TestGenerateCursorIsStickyAcrossCalls(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		w.Write([]byte(textResponse("ya")))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a", "model-b")

	_, err := client.ComposeReply(context.Background(), "hola", "nada")
	require.NoError(t, err)
	require.Equal(t, 1, client.modelIndex())

	// A second call starts directly on model-b, no re-probe of model-a.
	_, err = client.ComposeReply(context.Background(), "hola", "nada")
	require.NoError(t, err)
	assert.Equal(t, 1, client.modelIndex())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerateAllModelsExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a", "model-b")

	_, err := client.ComposeReply(context.Background(), "hola", "nada")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestGenerateDoesNotRetryNonQuotaErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad request"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a", "model-b")

	start := time.Now()
	_, err := client.ComposeReply(context.Background(), "hola", "nada")
	require.Error(t, err)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, client.modelIndex())
	assert.Less(t, time.Since(start), time.Second)
}

func TestInterpretIntentParsesFencedJSON(t *testing.T) {
	fenced := "```json\n[{\"product_name\":\"arroz\",\"quantity\":2,\"must_contain\":[],\"must_not_contain\":[],\"preferred_attributes\":[\"costeno\"]}]\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(fenced)))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a")

	items, err := client.InterpretIntent(context.Background(), "quiero 2 de arroz", nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "arroz", items[0].ProductName)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, []string{"costeno"}, items[0].PreferredAttributes)
}

func TestInterpretIntentRejectsMalformedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("claro que si, apunto: arroz y atun")))
	}))
	defer server.Close()

	client := newTestClient(t, server, "model-a")

	_, err := client.InterpretIntent(context.Background(), "quiero arroz", nil, []entities.ChatMessage{
		{Role: entities.RoleTurnUser, Content: "hola"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
