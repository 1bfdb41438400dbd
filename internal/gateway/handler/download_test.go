package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapterforge/internal/delivery"
	"adapterforge/internal/gateway/repository/archive"
	"adapterforge/internal/gateway/run"
	"adapterforge/internal/generator"
	"adapterforge/internal/schema"
)

func TestDownloadServesStoredArchive(t *testing.T) {
	store := archive.NewMemoryStore(time.Hour)
	require.NoError(t, store.Put(context.Background(), "run-1", "adapter.zip", []byte("blob")))

	srv := httptest.NewServer(NewDownload(store))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/download/run-1/adapter.zip")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/download/run-2/adapter.zip")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/download/run-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDebugListsRuns(t *testing.T) {
	svc := run.NewService(run.Options{})
	out, err := svc.Execute(context.Background(), run.StartRequest{
		Answers: schema.Answers{"expert": "yes", "cli": false, "adapterName": "foo"},
		Target:  delivery.TargetZip,
	}, &generator.CollectEmitter{})
	require.NoError(t, err)

	srv := httptest.NewServer(NewDebug(svc))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/debug/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var views []run.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, out.RunID, views[0].ID)
	assert.Equal(t, run.StateSucceeded, views[0].State)
	assert.NotEmpty(t, views[0].Lines)

	resp, err = http.Get(srv.URL + "/debug/runs/" + out.RunID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view run.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, out.RunID, view.ID)

	resp, err = http.Get(srv.URL + "/debug/runs/run-missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuestionsServesSchema(t *testing.T) {
	srv := httptest.NewServer(NewQuestions(schema.Default()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/questions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s schema.Schema
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.NotEmpty(t, s.Groups)
}
