package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-matcher/internal/models"
)

func TestTriggerJobLoad(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"started":true}`))
	}))
	defer srv.Close()

	events := &recordingPublisher{}
	trigger := NewJobLoadTrigger(srv.URL, time.Second, events, nopLogger())

	require.NoError(t, trigger.TriggerJobLoad(context.Background(), "a@x.io"))
	assert.Equal(t, map[string]string{"user_email": "a@x.io"}, got)
	assert.Equal(t, []string{EventJobLoadTriggered}, events.types())
}

func TestTriggerJobLoadFailures(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, NewJobLoadTrigger("http://unused", time.Second, NewNoopPublisher(), nopLogger()).TriggerJobLoad(ctx, " "), ErrValidation)
	assert.ErrorIs(t, NewJobLoadTrigger("", time.Second, NewNoopPublisher(), nopLogger()).TriggerJobLoad(ctx, "a@x.io"), ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow inactive", http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewJobLoadTrigger(srv.URL, time.Second, NewNoopPublisher(), nopLogger()).TriggerJobLoad(ctx, "a@x.io")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

type stubTrigger struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *stubTrigger) TriggerJobLoad(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, email)
	if s.fail[email] {
		return errors.New("boom")
	}
	return nil
}

func TestSyncSchedulerRunOnce(t *testing.T) {
	repos := newTestRepos(t)
	catalog := NewCatalogService(repos.offers, repos.sources, NewNoopPublisher(), nopLogger())
	ctx := context.Background()

	for _, req := range []models.CreateJobSourceRequest{
		{Name: "a", Type: "RSS", URL: "https://a", Enabled: true, UserID: "a@x.io"},
		{Name: "b", Type: "RSS", URL: "https://b", Enabled: true, UserID: "b@x.io"},
		{Name: "c", Type: "RSS", URL: "https://c", Enabled: false, UserID: "c@x.io"},
	} {
		_, err := catalog.CreateJobSource(ctx, req)
		require.NoError(t, err)
	}

	trigger := &stubTrigger{fail: map[string]bool{"b@x.io": true}}
	sched := NewSyncScheduler("", 2, time.Minute, catalog, trigger, nopLogger()).(*syncScheduler)
	sched.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	result, err := sched.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Users: 2, Triggered: 1, Failed: 1}, result)
	assert.ElementsMatch(t, []string{"a@x.io", "b@x.io"}, trigger.calls)

	synced, err := catalog.ListJobSources(ctx, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, synced[0].LastSync)
	assert.Equal(t, "2024-06-01T00:00:00Z", *synced[0].LastSync)

	failed, err := catalog.ListJobSources(ctx, "b@x.io")
	require.NoError(t, err)
	assert.Nil(t, failed[0].LastSync)
}

func TestSyncSchedulerStartStop(t *testing.T) {
	repos := newTestRepos(t)
	catalog := NewCatalogService(repos.offers, repos.sources, NewNoopPublisher(), nopLogger())

	disabled := NewSyncScheduler("", 1, time.Minute, catalog, &stubTrigger{}, nopLogger())
	require.NoError(t, disabled.Start())
	disabled.Stop()

	invalid := NewSyncScheduler("not a schedule", 1, time.Minute, catalog, &stubTrigger{}, nopLogger())
	assert.Error(t, invalid.Start())

	valid := NewSyncScheduler("@every 1h", 1, time.Minute, catalog, &stubTrigger{}, nopLogger())
	require.NoError(t, valid.Start())
	valid.Stop()
}
