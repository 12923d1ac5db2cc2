package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/profile-generator/internal/logger"
)

var ErrAllCredentialsExhausted = errors.New("all gemini credentials exhausted")

// GenerationError wraps a failure that retrying on another key would not fix.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// GeminiBackend performs one generation call with an explicit API key.
type GeminiBackend interface {
	GenerateText(ctx context.Context, apiKey, prompt string) (string, error)
}

type geminiBackend struct {
	modelName   string
	temperature float32

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewGeminiBackend(modelName string, temperature float32) GeminiBackend {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiBackend{
		modelName:   modelName,
		temperature: temperature,
		clients:     make(map[string]*genai.Client),
	}
}

func (g *geminiBackend) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[apiKey]; ok {
		return c, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g.clients[apiKey] = c
	return c, nil
}

// GenerateText implements GeminiBackend.
func (g *geminiBackend) GenerateText(ctx context.Context, apiKey, prompt string) (string, error) {
	c, err := g.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	}

	resp, err := c.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GeminiService is the single "generate text from prompt" entry point.
type GeminiService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiService struct {
	pool    CredentialPool
	backend GeminiBackend
	timeout time.Duration
}

// NewGeminiService builds a dispatcher that rotates through pool on quota
// errors. timeout bounds every individual attempt.
func NewGeminiService(pool CredentialPool, backend GeminiBackend, timeout time.Duration) GeminiService {
	return &geminiService{
		pool:    pool,
		backend: backend,
		timeout: timeout,
	}
}

// Generate implements GeminiService. Attempts run one after another, at most
// once per configured credential.
func (g *geminiService) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := g.pool.Size()

	for attempt := 1; attempt <= attempts; attempt++ {
		cred, err := g.pool.AcquireNext()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrAllCredentialsExhausted, err)
		}

		text, err := g.invoke(ctx, cred, prompt)
		if err == nil {
			return strings.TrimSpace(text), nil
		}

		if g.pool.MarkFailed(cred, err) != ErrorRateLimited {
			logger.Log.Warnf("❌ Gemini call failed with key %s: %v", cred, err)
			return "", &GenerationError{Cause: err}
		}

		logger.Log.Warnf("⚠️ Key %s rate limited (attempt %d/%d), rotating", cred, attempt, attempts)
	}

	return "", fmt.Errorf("%w after %d attempts", ErrAllCredentialsExhausted, attempts)
}

func (g *geminiService) invoke(ctx context.Context, cred Credential, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	return g.backend.GenerateText(ctx, cred.Value, prompt)
}
