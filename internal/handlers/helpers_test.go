package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

type testEnv struct {
	app     *fiber.App
	users   repositories.UserRepository
	offers  repositories.JobOfferRepository
	sources repositories.JobSourceRepository
}

type envOptions struct {
	processorURL string
	triggerURL   string
	generator    services.CoverLetterGenerator
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "jobs.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	collections := config.CollectionsConfig{Users: "users", JobOffers: "job_offers", JobSources: "job_sources"}
	require.NoError(t, config.Migrate(db, collections))
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	log := zap.NewNop()
	events := services.NewNoopPublisher()

	userRepo := repositories.NewUserRepository(db, collections.Users)
	offerRepo := repositories.NewJobOfferRepository(db, collections.JobOffers)
	sourceRepo := repositories.NewJobSourceRepository(db, collections.JobSources)

	profiles := services.NewProfileService(userRepo, log)
	catalog := services.NewCatalogService(offerRepo, sourceRepo, events, log)
	enrichment := services.NewEnrichmentService(
		services.NewProcessorClient(opts.processorURL, 2*time.Second, log),
		services.NewPDFInspector(),
		userRepo,
		events,
		log,
	)
	trigger := services.NewJobLoadTrigger(opts.triggerURL, 2*time.Second, events, log)

	generator := opts.generator
	if generator == nil {
		generator = services.NewUnconfiguredGenerator("cover letter url")
	}
	coverLetters := services.NewCoverLetterService(generator, offerRepo, userRepo, events, log)

	validator := NewRequestValidator()
	app := NewApp(AppConfig{Name: "test", MaxFileSize: 1 << 20, AllowedOrigins: []string{"http://localhost:3000"}}, log)
	RegisterRoutes(app, Handlers{
		Auth:         NewAuthHandler(profiles, validator, log),
		Users:        NewUserHandler(profiles, validator, log),
		Upload:       NewUploadHandler(enrichment, 1<<20, log),
		Jobs:         NewJobHandler(catalog, trigger, validator, log),
		JobSources:   NewJobSourceHandler(catalog, validator, log),
		CoverLetters: NewCoverLetterHandler(coverLetters, validator, log),
	})

	return &testEnv{app: app, users: userRepo, offers: offerRepo, sources: sourceRepo}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return e.send(t, req)
}

func (e *testEnv) upload(t *testing.T, path, filename string, content []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/register", map[string]string{
		"email": email, "full_name": "Ann", "pwd": "p1",
	})
	require.Equal(t, http.StatusOK, status, string(body))
}
