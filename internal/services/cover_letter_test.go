package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/job-matcher/internal/models"
)

func TestExtractCoverLetter(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"camel case", `{"coverLetter":"Dear team,"}`, "Dear team,"},
		{"snake case", `{"cover_letter":" Hello "}`, "Hello"},
		{"output field", `{"output":"From n8n"}`, "From n8n"},
		{"array of objects", `[{"text":"First item"}]`, "First item"},
		{"json string", `"Quoted letter"`, "Quoted letter"},
		{"plain text", "Just a letter\n", "Just a letter"},
		{"unknown keys", `{"foo":"bar"}`, ""},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractCoverLetter([]byte(tc.body)))
		})
	}
}

func TestWebhookGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.CoverLetterRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "job-1", req.ID)
		assert.Equal(t, "Go backend role", req.JobDescription)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"coverLetter":"Dear hiring manager"}`))
	}))
	defer srv.Close()

	gen := NewWebhookGenerator(srv.URL, time.Second)
	letter, err := gen.Generate(context.Background(), models.CoverLetterRequest{
		ID:             "job-1",
		JobDescription: "Go backend role",
		Resume:         "cv",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", letter)
}

func TestWebhookGeneratorFailures(t *testing.T) {
	_, err := NewWebhookGenerator("", time.Second).Generate(context.Background(), models.CoverLetterRequest{ID: "1"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer empty.Close()
	_, err = NewWebhookGenerator(empty.URL, time.Second).Generate(context.Background(), models.CoverLetterRequest{ID: "1"})
	assert.ErrorIs(t, err, ErrGenerationEmpty)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer broken.Close()
	_, err = NewWebhookGenerator(broken.URL, time.Second).Generate(context.Background(), models.CoverLetterRequest{ID: "1"})
	assert.ErrorIs(t, err, ErrUpstream)
}

type stubGenerator struct {
	letter string
	err    error
	got    []models.CoverLetterRequest
}

func (g *stubGenerator) Generate(_ context.Context, req models.CoverLetterRequest) (string, error) {
	g.got = append(g.got, req)
	return g.letter, g.err
}

func TestGenerateCoverLetterPersistsOnKnownOffer(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	registerUser(t, repos, "a@x.io")
	require.NoError(t, repos.users.UpdateResume(ctx, "a@x.io", strPtr("Stored resume")))
	require.NoError(t, repos.offers.Upsert(ctx, []models.JobOffer{{ID: "job-1", UserID: "a@x.io"}}))

	gen := &stubGenerator{letter: "Dear team"}
	events := &recordingPublisher{}
	svc := NewCoverLetterService(gen, repos.offers, repos.users, events, nopLogger())

	letter, err := svc.GenerateCoverLetter(ctx, models.CoverLetterRequest{ID: "job-1", JobDescription: "Go role"})
	require.NoError(t, err)
	assert.Equal(t, "Dear team", letter)

	require.Len(t, gen.got, 1)
	assert.Equal(t, "Stored resume", gen.got[0].Resume)

	offer, err := repos.offers.FindOwned(ctx, "a@x.io", "job-1")
	require.NoError(t, err)
	require.NotNil(t, offer.CoverLetter)
	assert.Equal(t, "Dear team", *offer.CoverLetter)
	assert.Equal(t, []string{EventCoverLetterGenerated}, events.types())
}

func TestGenerateCoverLetterUnknownOffer(t *testing.T) {
	repos := newTestRepos(t)
	gen := &stubGenerator{letter: "Hello"}
	svc := NewCoverLetterService(gen, repos.offers, repos.users, NewNoopPublisher(), nopLogger())

	letter, err := svc.GenerateCoverLetter(context.Background(), models.CoverLetterRequest{
		ID: "missing", JobDescription: "desc", Resume: "given resume",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", letter)
	assert.Equal(t, "given resume", gen.got[0].Resume)
}

func TestGenerateCoverLetterSharedPosting(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	registerUser(t, repos, "b@x.io")
	require.NoError(t, repos.users.UpdateResume(ctx, "b@x.io", strPtr("B resume")))
	require.NoError(t, repos.offers.Upsert(ctx, []models.JobOffer{
		{ID: "job-1", UserID: "a@x.io"},
		{ID: "job-1", UserID: "b@x.io"},
	}))

	gen := &stubGenerator{letter: "Dear team"}
	svc := NewCoverLetterService(gen, repos.offers, repos.users, NewNoopPublisher(), nopLogger())

	// Without an owner the posting is ambiguous: nothing is stored.
	letter, err := svc.GenerateCoverLetter(ctx, models.CoverLetterRequest{ID: "job-1", JobDescription: "d"})
	require.NoError(t, err)
	assert.Equal(t, "Dear team", letter)
	assert.Empty(t, gen.got[0].Resume)
	for _, email := range []string{"a@x.io", "b@x.io"} {
		offer, err := repos.offers.FindOwned(ctx, email, "job-1")
		require.NoError(t, err)
		assert.Nil(t, offer.CoverLetter, email)
	}

	_, err = svc.GenerateCoverLetter(ctx, models.CoverLetterRequest{ID: "job-1", JobDescription: "d", UserID: "b@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "B resume", gen.got[1].Resume)

	mine, err := repos.offers.FindOwned(ctx, "b@x.io", "job-1")
	require.NoError(t, err)
	require.NotNil(t, mine.CoverLetter)
	assert.Equal(t, "Dear team", *mine.CoverLetter)

	theirs, err := repos.offers.FindOwned(ctx, "a@x.io", "job-1")
	require.NoError(t, err)
	assert.Nil(t, theirs.CoverLetter)
}

func TestGenerateCoverLetterPropagatesGeneratorErrors(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.offers.Upsert(ctx, []models.JobOffer{{ID: "job-1", UserID: "a@x.io"}}))

	gen := &stubGenerator{err: &UpstreamError{Service: "cover letter generator", StatusCode: 500}}
	svc := NewCoverLetterService(gen, repos.offers, repos.users, NewNoopPublisher(), nopLogger())

	_, err := svc.GenerateCoverLetter(ctx, models.CoverLetterRequest{ID: "job-1", JobDescription: "d"})
	assert.ErrorIs(t, err, ErrUpstream)

	offer, err := repos.offers.FindOwned(ctx, "a@x.io", "job-1")
	require.NoError(t, err)
	assert.Nil(t, offer.CoverLetter)

	unconfigured := NewCoverLetterService(NewUnconfiguredGenerator("gemini api key"), repos.offers, repos.users, NewNoopPublisher(), nopLogger())
	_, err = unconfigured.GenerateCoverLetter(ctx, models.CoverLetterRequest{ID: "job-1", JobDescription: "d"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type fakeContentGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
}

func (f *fakeContentGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiGenerator(t *testing.T) {
	fake := &fakeContentGenerator{resp: textResponse("  Dear recruiter  ")}
	gemini := &geminiService{models: fake, modelName: "gemini-test", log: nopLogger()}
	gen := NewGeminiGenerator(gemini, NewPromptBuilder())

	letter, err := gen.Generate(context.Background(), models.CoverLetterRequest{
		ID: "1", JobDescription: "Build Go services", Resume: "Go engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear recruiter", letter)
	assert.Equal(t, "gemini-test", fake.model)
	assert.Contains(t, fake.prompt, "Build Go services")
	assert.Contains(t, fake.prompt, "Go engineer")
}

func TestGeminiServiceErrors(t *testing.T) {
	empty := &geminiService{models: &fakeContentGenerator{resp: textResponse("")}, modelName: "m", log: nopLogger()}
	_, err := empty.GenerateText(context.Background(), "p", 0.5)
	assert.ErrorIs(t, err, ErrGenerationEmpty)

	failing := &geminiService{models: &fakeContentGenerator{err: errors.New("quota")}, modelName: "m", log: nopLogger()}
	_, err = failing.GenerateText(context.Background(), "p", 0.5)
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = NewGeminiService(context.Background(), "", "m", nopLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPromptWithoutResume(t *testing.T) {
	prompt := NewPromptBuilder().BuildCoverLetterPrompt("Role text", "  ")
	assert.Contains(t, prompt, "Role text")
	assert.Contains(t, prompt, "no resume provided")
}
