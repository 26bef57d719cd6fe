package runs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedsim/core/history"
	"github.com/kilianp07/schedsim/core/metrics"
)

func seededStore(t *testing.T) history.Store {
	t.Helper()
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range []string{"FCFS", "SJF", "SRT", "FCFS"} {
		require.NoError(t, store.Append(context.Background(), metrics.RunSummary{
			RunID:  "run-" + string(rune('a'+i/3)),
			Policy: p,
			Time:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	return store
}

func get(t *testing.T, h http.Handler, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerAuthAndFilters(t *testing.T) {
	h := NewHandler(seededStore(t), "tok")

	rr := get(t, h, Path+"?policy=fcfs", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var out []metrics.RunSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 2)

	rr = get(t, h, Path+"?run_id=run-a&limit=2", "tok")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "SRT", out[1].Policy)

	rr = get(t, h, Path+"?start=2024-05-01T12:02:00Z", "tok")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out, 2)

	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, Path, "nope").Code)
}

func TestHandlerBadRequests(t *testing.T) {
	h := NewHandler(seededStore(t), "")
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?start=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, Path+"?limit=ten", "").Code)

	req := httptest.NewRequest(http.MethodPost, Path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
