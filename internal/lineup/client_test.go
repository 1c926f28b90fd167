package lineup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `[
  {"nOM_NAVIREField": "GRAIN TRADER", "tYP_NAVIREField": "VRAQUIER", "pROVField": "ROUEN", "nUMERO_ESCALEField": "2025/1042"},
  {"nOM_NAVIREField": "", "tYP_NAVIREField": "TANKER"},
  {"nOM_NAVIREField": "NO TYPE", "tYP_NAVIREField": ""}
]`

func TestClient_Vessels(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, FeedPath: "/mvmnv/all"})
	vessels, err := client.Vessels(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/mvmnv/all", gotPath)
	require.Len(t, vessels, 1)
	assert.Equal(t, "GRAIN TRADER", vessels[0].Name)
	assert.Equal(t, "2025/1042", vessels[0].CallNumber)
}

func TestClient_Vessels_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, FeedPath: "/mvmnv/all"})
	_, err := client.Vessels(context.Background())
	assert.Error(t, err)
}

func TestClient_Vessels_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, FeedPath: "/mvmnv/all"})
	_, err := client.Vessels(context.Background())
	assert.Error(t, err)
}

func TestClient_Vessels_ContextCancelledDuringDelay(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://127.0.0.1:1", FeedPath: "/x", Delay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Vessels(ctx)
	assert.Error(t, err)
}

func TestClient_Endpoint(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "https://www.anp.org.ma", FeedPath: "/_vti_bin/WS/Service.svc/mvmnv/all"})
	assert.Equal(t, "https://www.anp.org.ma/_vti_bin/WS/Service.svc/mvmnv/all", client.Endpoint())
}
