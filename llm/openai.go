package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	OpenAIID = "openai"

	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-3.5-turbo"
	DefaultPersona  = "You are ChatGPT, a large language model trained by OpenAI."
)

type OpenAIConfig struct {
	APIKey    string
	Endpoint  string
	Model     string
	Persona   string
	MaxTokens int

	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Logger receives response diagnostics, defaults to the global logger.
	Logger *zerolog.Logger
}

// OpenAIClient sends single-turn chat completion requests.
// It holds no per-request state and is safe to reuse across calls.
type OpenAIClient struct {
	endpoint  string
	model     string
	persona   string
	maxTokens int

	http *http.Client
	log  zerolog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// chatResponse uses pointers so absent and null fields can be told apart from empty ones.
type chatResponse struct {
	Choices *[]struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	persona := cfg.Persona
	if persona == "" {
		persona = DefaultPersona
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &OpenAIClient{
		endpoint:  endpoint,
		model:     model,
		persona:   persona,
		maxTokens: cfg.MaxTokens,
		http: &http.Client{
			Transport: &bearerTransport{token: cfg.APIKey, base: base},
		},
		log: logger,
	}
}

func (c *OpenAIClient) ID() string {
	return OpenAIID
}

func (c *OpenAIClient) Send(ctx context.Context, req Request) (Response, error) {
	text, err := c.Complete(ctx, req.Message)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: text}, nil
}

// Complete sends prompt as the user message and returns the trimmed content of the
// first choice. A response without choices yields an empty string and no error.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	data, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug().Str("model", c.model).Int("max_tokens", c.maxTokens).Int("prompt_len", len(prompt)).Msg("sending completion request")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	text, err := decodeCompletion(body)
	if err != nil {
		c.log.Error().Err(err).Int("status", resp.StatusCode).Msg("Error deserializing response")
		c.log.Error().Str("body", string(body)).Msg("Raw API response")
		return "", &ResponseFormatError{Status: resp.StatusCode, Body: string(body), Err: err}
	}

	c.log.Debug().Int("status", resp.StatusCode).Int("response_len", len(text)).Msg("completion received")

	return text, nil
}

func (c *OpenAIClient) buildRequest(prompt string) chatRequest {
	return chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.persona},
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.maxTokens,
	}
}

func decodeCompletion(body []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Choices == nil {
		return "", errors.New("missing field `choices`")
	}

	choices := *parsed.Choices
	for i, choice := range choices {
		if choice.Message == nil || choice.Message.Content == nil {
			return "", fmt.Errorf("choice %d: missing message content", i)
		}
	}
	if len(choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(*choices[0].Message.Content), nil
}

// bearerTransport attaches the credential to every outgoing request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(out)
}
