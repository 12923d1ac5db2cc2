package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/profile-generator/internal/models"
	"alfredoptarigan/profile-generator/internal/repositories"
	"alfredoptarigan/profile-generator/internal/services"
)

type memoryRepo struct {
	mu        sync.Mutex
	records   map[uuid.UUID]models.Generation
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[uuid.UUID]models.Generation{}}
}

func (r *memoryRepo) Create(gen *models.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if gen.CreatedAt.IsZero() {
		gen.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	r.records[gen.ID] = *gen
	return nil
}

func (r *memoryRepo) FindByID(id uuid.UUID) (*models.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrGenerationNotFound
	}
	return &gen, nil
}

func (r *memoryRepo) FindRecent(limit int) ([]models.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Generation, 0, len(r.records))
	for _, gen := range r.records {
		if len(out) == limit {
			break
		}
		out = append(out, gen)
	}
	return out, nil
}

type stubParser struct {
	text     string
	err      error
	lastPath string
}

func (p *stubParser) ExtractText(filePath string) (string, error) {
	p.lastPath = filePath
	return p.text, p.err
}

func (p *stubParser) ExtractTextFromBytes(data []byte) (string, error) {
	return p.text, p.err
}

type stubAssembler struct {
	profile *models.Profile
	err     error
	gotURL  string
}

func (a *stubAssembler) Build(ctx context.Context, resumeText, githubURL string) (*models.Profile, error) {
	a.gotURL = githubURL
	return a.profile, a.err
}

func (a *stubAssembler) Assemble(ctx context.Context, resumeText string, data *models.GitHubData) (*models.Profile, error) {
	return a.profile, a.err
}

type testEnv struct {
	app          *fiber.App
	repo         *memoryRepo
	parser       *stubParser
	assembler    *stubAssembler
	uploadDir    string
	generatedDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	templateDir := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templateDir, 0755))
	for _, name := range []string{"resume1.html", "portfolio1.html", "portfolio2.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(templateDir, name), []byte("<html><body></body></html>"), 0644))
	}

	env := &testEnv{
		repo:         newMemoryRepo(),
		parser:       &stubParser{text: "Experience\nAcme"},
		assembler:    &stubAssembler{profile: &models.Profile{Name: "Jane Doe"}},
		uploadDir:    filepath.Join(dir, "uploads"),
		generatedDir: filepath.Join(dir, "generated"),
	}

	storage := services.NewStorageService(env.uploadDir, env.generatedDir)
	require.NoError(t, storage.EnsureDirs())
	templates := services.NewTemplateService(templateDir, storage)

	generate := NewGenerateHandler(env.repo, storage, env.parser, env.assembler, templates, 1024)
	generations := NewGenerationHandler(env.repo)
	files := NewFileHandler(storage)

	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	api := env.app.Group("/api")
	api.Post("/generate", generate.HandleGenerate)
	api.Get("/generations", generations.HandleListGenerations)
	api.Get("/generations/:id", generations.HandleGetGeneration)
	api.Get("/download/:kind/:filename", files.HandleDownload)
	api.Get("/preview/:kind/:filename", files.HandlePreview)

	return env
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("linkedin_pdf", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

var validFields = map[string]string{
	"github_url":         "https://github.com/janedoe",
	"resume_template":    "1",
	"portfolio_template": "2",
}

func TestGenerateHandler_Success(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(multipartRequest(t, validFields, "linkedin.pdf", []byte("%PDF-1.4")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body models.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.True(t, strings.HasPrefix(body.ResumeURL, "/api/download/resume/resume_"))
	assert.True(t, strings.HasPrefix(body.PreviewPortfolioURL, "/api/preview/portfolio/portfolio_"))
	assert.Equal(t, "https://github.com/janedoe", env.assembler.gotURL)

	t.Run("upload removed after extraction", func(t *testing.T) {
		assert.NotEmpty(t, env.parser.lastPath)
		entries, err := os.ReadDir(env.uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("generation record stored", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/generations/"+body.GenerationID, nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var record models.GenerationResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
		assert.Equal(t, 2, record.PortfolioTemplate)
		assert.Contains(t, string(record.Profile), `"name":"Jane Doe"`)
	})

	t.Run("generation listed", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/generations?limit=5", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		list := decodeBody(t, resp)["generations"].([]interface{})
		require.Len(t, list, 1)
		assert.Equal(t, "Jane Doe", list[0].(map[string]interface{})["profile_name"])
	})

	t.Run("artifacts downloadable and previewable", func(t *testing.T) {
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, body.ResumeURL, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

		resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, body.PreviewPortfolioURL, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		content, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(content), "renderPortfolio(userData)")
	})
}

func TestGenerateHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  []byte
	}{
		{name: "missing file", fields: validFields},
		{name: "not a pdf", fields: validFields, filename: "resume.docx", content: []byte("x")},
		{name: "file too large", fields: validFields, filename: "big.pdf", content: bytes.Repeat([]byte("a"), 2048)},
		{
			name:     "invalid github url",
			fields:   map[string]string{"github_url": "not a url", "resume_template": "1", "portfolio_template": "1"},
			filename: "resume.pdf",
			content:  []byte("%PDF"),
		},
		{
			name:     "template out of range",
			fields:   map[string]string{"github_url": "https://github.com/janedoe", "resume_template": "0", "portfolio_template": "1"},
			filename: "resume.pdf",
			content:  []byte("%PDF"),
		},
		{
			name:     "template file missing",
			fields:   map[string]string{"github_url": "https://github.com/janedoe", "resume_template": "7", "portfolio_template": "1"},
			filename: "resume.pdf",
			content:  []byte("%PDF"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			resp, err := env.app.Test(multipartRequest(t, tt.fields, tt.filename, tt.content), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.NotEmpty(t, body["error"])
			assert.Empty(t, env.repo.records)
		})
	}
}

func TestGenerateHandler_ValidationDetails(t *testing.T) {
	env := newTestEnv(t)
	fields := map[string]string{"github_url": "", "resume_template": "100", "portfolio_template": "1"}

	resp, err := env.app.Test(multipartRequest(t, fields, "resume.pdf", []byte("%PDF")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.ElementsMatch(t, []interface{}{
		"github_url is required",
		"resume_template must be at most 99",
	}, body["details"])
}

func TestGenerateHandler_AssemblerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"upstream failure", fmt.Errorf("failed to fetch GitHub data: %w", &services.UpstreamFetchError{URL: "u", StatusCode: 503}), fiber.StatusBadGateway},
		{"bad github url", fmt.Errorf("failed to fetch GitHub data: %w", services.ErrInvalidGitHubURL), fiber.StatusBadRequest},
		{"unexpected", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.assembler.err = tt.err
			env.assembler.profile = nil

			resp, err := env.app.Test(multipartRequest(t, validFields, "resume.pdf", []byte("%PDF")), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, float64(tt.code), body["code"])
		})
	}
}

func TestGenerateHandler_UnreadablePDF(t *testing.T) {
	env := newTestEnv(t)
	env.parser.err = errors.New("failed to open PDF: malformed")

	resp, err := env.app.Test(multipartRequest(t, validFields, "resume.pdf", []byte("junk")), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateHandler_RemovesArtifactsOnFailure(t *testing.T) {
	t.Run("portfolio render fails", func(t *testing.T) {
		env := newTestEnv(t)
		fields := map[string]string{"github_url": "https://github.com/janedoe", "resume_template": "1", "portfolio_template": "5"}

		resp, err := env.app.Test(multipartRequest(t, fields, "resume.pdf", []byte("%PDF")), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		entries, err := os.ReadDir(env.generatedDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("record cannot be saved", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.createErr = errors.New("connection refused")

		resp, err := env.app.Test(multipartRequest(t, validFields, "resume.pdf", []byte("%PDF")), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		entries, err := os.ReadDir(env.generatedDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGenerationHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/generations/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/generations/"+uuid.NewString(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/generations?limit=0", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFileHandler_RejectsUnknownFiles(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/download/cover/resume_deadbeef.html",
		"/api/download/resume/resume_deadbeef.html",
		"/api/preview/resume/portfolio_deadbeef.html",
		"/api/preview/resume/..%2F..%2Fetc%2Fpasswd",
	} {
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err, path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}
}
