package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/webhook"
)

func newBatchRouter(notifier *webhook.Notifier, maxItems int) *gin.Engine {
	r := gin.New()
	r.POST("/batch/optimize", PostBatch(cleaner.NewCleaner(), notifier, testMetrics(), maxItems, 4))
	r.GET("/batch/:id", GetBatch())
	return r
}

// pollBatch polls the status endpoint until the job leaves "processing" or
// the deadline passes.
func pollBatch(t *testing.T, r http.Handler, id string) models.BatchStatusResponse {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := performJSON(t, r, http.MethodGet, "/batch/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		status := decodeJSON[models.BatchStatusResponse](t, rec)
		if status.Status != "processing" {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("batch %s still processing after deadline", id)
	return models.BatchStatusResponse{}
}

func TestBatch_AllSucceed(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts: []string{
			"Please utilize this approach.",
			"Kindly demonstrate the results.",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	created := decodeJSON[models.BatchResponse](t, rec)
	assert.True(t, strings.HasPrefix(created.ID, "batch-"))
	assert.Equal(t, "processing", created.Status)
	assert.Equal(t, 2, created.Total)

	status := pollBatch(t, r, created.ID)
	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, 2, status.Completed)
	require.Len(t, status.Results, 2)
	assert.Equal(t, "use this approach.", status.Results[0].OptimizedText)
	assert.Equal(t, "show the results.", status.Results[1].OptimizedText)
}

func TestBatch_PartialFailure(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts: []string{"Please utilize this approach.", "   "},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON[models.BatchResponse](t, rec)

	status := pollBatch(t, r, created.ID)
	assert.Equal(t, "partial", status.Status)
	require.Len(t, status.Results, 2)
	assert.True(t, status.Results[0].Success)
	require.NotNil(t, status.Results[1].Error)
	assert.Equal(t, models.ErrCodeEmptyText, status.Results[1].Error.Code)
}

func TestBatch_AllFail(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts: []string{" ", "\t"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON[models.BatchResponse](t, rec)

	status := pollBatch(t, r, created.ID)
	assert.Equal(t, "failed", status.Status)
}

func TestBatch_TooManyTexts(t *testing.T) {
	r := newBatchRouter(nil, 2)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts: []string{"one two three", "four five six", "seven eight nine"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[models.ErrorResponse](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "maximum 2 texts")
}

func TestBatch_EmptyTextsRejected(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", map[string]any{"texts": []string{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_UnknownJob(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodGet, "/batch/batch-does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatch_SharedHTMLOptions(t *testing.T) {
	r := newBatchRouter(nil, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts: []string{"<p>Please utilize this approach today.</p>"},
		Options: models.BatchOptions{
			InputFormat:  "html",
			ExtractMode:  "raw",
			OutputFormat: "text",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON[models.BatchResponse](t, rec)

	status := pollBatch(t, r, created.ID)
	assert.Equal(t, "completed", status.Status)
	require.Len(t, status.Results, 1)
	assert.Equal(t, "use this approach today.", status.Results[0].OptimizedText)
}

func TestBatch_WebhookFires(t *testing.T) {
	var delivered atomic.Bool
	var gotSignature atomic.Value
	var gotEvent atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev webhook.Event
		if err := json.Unmarshal(body, &ev); err == nil {
			gotEvent.Store(ev)
		}
		gotSignature.Store(r.Header.Get("X-Distill-Signature"))
		delivered.Store(true)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := webhook.NewNotifier("batch-secret", 5*time.Second)
	r := newBatchRouter(notifier, 100)

	rec := performJSON(t, r, http.MethodPost, "/batch/optimize", models.BatchOptimizeRequest{
		Texts:      []string{"Please utilize this approach."},
		WebhookURL: srv.URL,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeJSON[models.BatchResponse](t, rec)

	pollBatch(t, r, created.ID)

	deadline := time.Now().Add(5 * time.Second)
	for !delivered.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, delivered.Load(), "webhook was never delivered")

	ev := gotEvent.Load().(webhook.Event)
	assert.Equal(t, "batch.completed", ev.Type)
	assert.Equal(t, created.ID, ev.JobID)
	assert.True(t, strings.HasPrefix(gotSignature.Load().(string), "sha256="))
}
