package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/pkg/models"
)

// MockTextGenerator implements TextGenerator for testing
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// MockAIInteractionRepository implements repository.AIInteractionRepository for testing
type MockAIInteractionRepository struct {
	mock.Mock
}

func (m *MockAIInteractionRepository) CreateAIInteraction(ctx context.Context, interaction *models.AIInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockAIInteractionRepository) GetAIInteraction(ctx context.Context, profileHash, model string) (*models.AIInteraction, error) {
	args := m.Called(ctx, profileHash, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIInteraction), args.Error(1)
}

var profile = models.HearingProfile{250: 20, 1000: 5, 8000: 15}

func TestGuide_Welcome(t *testing.T) {
	gen := &MockTextGenerator{}
	gen.On("Generate", mock.Anything, systemPersona, welcomePrompt).Return("Welcome aboard.", nil)

	g := NewGuide(gen, "llama3", nil)
	assert.Equal(t, "Welcome aboard.", g.Welcome(context.Background()))
	gen.AssertExpectations(t)
}

func TestGuide_WelcomeFallback(t *testing.T) {
	gen := &MockTextGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	msg := NewGuide(gen, "llama3", nil).Welcome(context.Background())
	assert.Contains(t, msg, "Error contacting guidance service: ")
	assert.Contains(t, msg, "connection refused")
}

func TestGuide_ExplainResults(t *testing.T) {
	doc, err := profile.MarshalJSON()
	require.NoError(t, err)
	hash := ProfileHash(doc)

	tests := []struct {
		name       string
		withCache  bool
		mockSetup  func(*MockTextGenerator, *MockAIInteractionRepository)
		wantAnswer string
		wantCached bool
	}{
		{
			name: "no cache configured",
			mockSetup: func(gen *MockTextGenerator, _ *MockAIInteractionRepository) {
				gen.On("Generate", mock.Anything, systemPersona, mock.MatchedBy(func(user string) bool {
					return strings.Contains(user, string(doc))
				})).Return("You need a boost in the bass.", nil)
			},
			wantAnswer: "You need a boost in the bass.",
		},
		{
			name:      "cache hit skips the generator",
			withCache: true,
			mockSetup: func(_ *MockTextGenerator, cache *MockAIInteractionRepository) {
				cache.On("GetAIInteraction", mock.Anything, hash, "llama3").
					Return(&models.AIInteraction{Answer: "cached answer"}, nil)
			},
			wantAnswer: "cached answer",
			wantCached: true,
		},
		{
			name:      "cache miss stores the answer",
			withCache: true,
			mockSetup: func(gen *MockTextGenerator, cache *MockAIInteractionRepository) {
				cache.On("GetAIInteraction", mock.Anything, hash, "llama3").Return(nil, repository.ErrNotFound)
				gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("fresh answer", nil)
				cache.On("CreateAIInteraction", mock.Anything, mock.MatchedBy(func(i *models.AIInteraction) bool {
					return i.ProfileHash == hash && i.Answer == "fresh answer" && i.ModelUsed == "llama3"
				})).Return(nil)
			},
			wantAnswer: "fresh answer",
		},
		{
			name:      "cache errors do not block the answer",
			withCache: true,
			mockSetup: func(gen *MockTextGenerator, cache *MockAIInteractionRepository) {
				cache.On("GetAIInteraction", mock.Anything, hash, "llama3").Return(nil, errors.New("db down"))
				gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("fresh answer", nil)
				cache.On("CreateAIInteraction", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			wantAnswer: "fresh answer",
		},
		{
			name:      "generator failure is not cached",
			withCache: true,
			mockSetup: func(gen *MockTextGenerator, cache *MockAIInteractionRepository) {
				cache.On("GetAIInteraction", mock.Anything, hash, "llama3").Return(nil, repository.ErrNotFound)
				gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))
			},
			wantAnswer: "Error contacting guidance service: timeout. Is the model server running?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockTextGenerator{}
			cache := &MockAIInteractionRepository{}
			tt.mockSetup(gen, cache)

			var g *Guide
			if tt.withCache {
				g = NewGuide(gen, "llama3", cache)
			} else {
				g = NewGuide(gen, "llama3", nil)
			}

			answer, cached := g.ExplainResults(context.Background(), profile)
			assert.Equal(t, tt.wantAnswer, answer)
			assert.Equal(t, tt.wantCached, cached)

			gen.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer ollama", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama3",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "  Hello listener.\n"}}]
		}`)
	}))
	defer server.Close()

	gen := NewOpenAIGenerator(OpenAIConfig{BaseURL: server.URL + "/v1/", Model: "llama3"})
	assert.Equal(t, "llama3", gen.Model())

	reply, err := gen.Generate(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, "Hello listener.", reply)

	assert.Equal(t, "llama3", received.Model)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "system text", received.Messages[0].Content)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "user text", received.Messages[1].Content)
}

func TestOpenAIGenerator_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error": {"message": "model not loaded"}}`)
	}))
	defer server.Close()

	gen := NewOpenAIGenerator(OpenAIConfig{BaseURL: server.URL + "/v1/", Model: "llama3"}, option.WithMaxRetries(0))
	_, err := gen.Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestOpenAIGenerator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id": "x", "object": "chat.completion", "created": 0, "model": "llama3", "choices": []}`)
	}))
	defer server.Close()

	gen := NewOpenAIGenerator(OpenAIConfig{BaseURL: server.URL + "/v1/", Model: "llama3"})
	_, err := gen.Generate(context.Background(), "s", "u")
	assert.Error(t, err)
}
