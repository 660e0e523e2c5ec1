package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/repositories"
)

type testRepos struct {
	users   repositories.UserRepository
	offers  repositories.JobOfferRepository
	sources repositories.JobSourceRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "jobs.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	collections := config.CollectionsConfig{Users: "users", JobOffers: "job_offers", JobSources: "job_sources"}
	require.NoError(t, config.Migrate(db, collections))
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	return testRepos{
		users:   repositories.NewUserRepository(db, collections.Users),
		offers:  repositories.NewJobOfferRepository(db, collections.JobOffers),
		sources: repositories.NewJobSourceRepository(db, collections.JobSources),
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

func strPtr(s string) *string { return &s }
