package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliver_SendsSignedEvent(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
		gotUA        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Distill-Signature")
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("test-secret", 5*time.Second)
	event := &Event{
		Type:      "batch.completed",
		JobID:     "job-123",
		Timestamp: time.Now().Unix(),
		Data:      map[string]int{"total": 3},
	}

	err := n.Deliver(context.Background(), srv.URL, event)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, "batch.completed", decoded.Type)
	assert.Equal(t, "job-123", decoded.JobID)

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, gotSignature)

	assert.Equal(t, "Distill-Webhook/1.0", gotUA)
}

func TestDeliver_NoSecretNoSignature(t *testing.T) {
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Distill-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("", 5*time.Second)
	err := n.Deliver(context.Background(), srv.URL, &Event{Type: "batch.completed"})
	require.NoError(t, err)
	assert.Empty(t, gotSignature)
}

func TestDeliver_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier("", 5*time.Second)
	err := n.Deliver(context.Background(), srv.URL, &Event{Type: "batch.completed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDeliver_UnreachableEndpoint(t *testing.T) {
	n := NewNotifier("", 500*time.Millisecond)
	err := n.Deliver(context.Background(), "http://127.0.0.1:1", &Event{Type: "batch.completed"})
	assert.Error(t, err)
}
