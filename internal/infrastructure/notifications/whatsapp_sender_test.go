package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keaype/bodega-backend/pkg/config"
)

func TestSendTextPostsToCloudAPI(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-phone-id/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer server.Close()

	sender, err := NewWhatsAppCloudSender(&config.WhatsAppConfig{
		AccessToken:   "test-token",
		PhoneNumberID: "test-phone-id",
	})
	require.NoError(t, err)
	sender.baseURL = server.URL
	sender.httpClient = server.Client()

	err = sender.SendText(context.Background(), "+51987654321", "Ju** Pe*** ha reservado: 2x Arroz. Total: S/12.00")
	require.NoError(t, err)

	assert.Equal(t, "+51987654321", received["to"])
	text := received["text"].(map[string]interface{})
	assert.Contains(t, text["body"], "ha reservado")
}

func TestSendTextSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer server.Close()

	sender, err := NewWhatsAppCloudSender(&config.WhatsAppConfig{
		AccessToken:   "bad-token",
		PhoneNumberID: "test-phone-id",
	})
	require.NoError(t, err)
	sender.baseURL = server.URL
	sender.httpClient = server.Client()

	err = sender.SendText(context.Background(), "+51987654321", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewWhatsAppCloudSenderRequiresCredentials(t *testing.T) {
	_, err := NewWhatsAppCloudSender(&config.WhatsAppConfig{})
	assert.Error(t, err)
}
