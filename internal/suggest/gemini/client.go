package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"google.golang.org/genai"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
)

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API host, e.g. for a proxy. Empty uses the SDK default.
	BaseURL     string
	Temperature float64
}

// Client asks the Gemini generateContent API for a move.
type Client struct {
	logger *slog.Logger
	models *genai.Models
	conf   Config
}

// New creates the client. Without an API key no SDK client is built and every
// Suggest call reports apperror.ErrSuggestionUnconfigured.
func New(ctx context.Context, logger *slog.Logger, httpClient *http.Client, conf Config) (*Client, error) {
	if conf.Model == "" {
		conf.Model = DefaultModel
	}

	client := &Client{
		logger: logger.With("component", "gemini"),
		conf:   conf,
	}

	if conf.APIKey == "" {
		return client, nil
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      conf.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: conf.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	client.models = genaiClient.Models

	return client, nil
}

var moveSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"move": {
			Type:        genai.TypeInteger,
			Description: "The index (0-8) of the AI's chosen square.",
		},
	},
	Required: []string{"move"},
}

func (that *Client) Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error) {
	log := that.logger.With("method", "Suggest", "model", that.conf.Model)

	if that.models == nil {
		return entity.Suggestion{}, apperror.ErrSuggestionUnconfigured
	}

	resp, err := that.models.GenerateContent(ctx, that.conf.Model, genai.Text(request.Prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   moveSchema,
		Temperature:      genai.Ptr(float32(that.conf.Temperature)),
	})
	if err != nil {
		return entity.Suggestion{}, fmt.Errorf("%w: %w", apperror.ErrSuggestionTransport, err)
	}

	text := resp.Text()
	log.Debug("received suggestion", "text", text)

	return parseSuggestion(text)
}

// parseSuggestion decodes the model text. Text that is not JSON at all is a
// transport failure; any JSON value without an integral move is an invalid answer.
func parseSuggestion(text string) (entity.Suggestion, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return entity.Suggestion{}, fmt.Errorf("%w: answer is not JSON: %w", apperror.ErrSuggestionTransport, err)
	}

	if decoder.More() {
		return entity.Suggestion{}, fmt.Errorf("%w: answer has trailing data", apperror.ErrSuggestionTransport)
	}

	fields, ok := value.(map[string]any)
	if !ok {
		return entity.Suggestion{}, fmt.Errorf("%w: answer is not an object: %s", apperror.ErrSuggestionInvalidAnswer, text)
	}

	number, ok := fields["move"].(json.Number)
	if !ok {
		return entity.Suggestion{}, fmt.Errorf("%w: move is %v", apperror.ErrSuggestionInvalidAnswer, fields["move"])
	}

	if move, err := number.Int64(); err == nil {
		return entity.Suggestion{Move: int(move)}, nil
	}

	move, err := number.Float64()
	if err != nil || move != math.Trunc(move) || math.Abs(move) > math.MaxInt32 {
		return entity.Suggestion{}, fmt.Errorf("%w: move %s is not an integer", apperror.ErrSuggestionInvalidAnswer, number)
	}

	return entity.Suggestion{Move: int(move)}, nil
}
