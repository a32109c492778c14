package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/luminagems/gemstore/internal/domain"
)

const (
	// DefaultVisionModel is the OpenAI model used for photo analysis
	DefaultVisionModel = openai.GPT4oMini
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrEmptyImageURL is returned when no image URL is given
	ErrEmptyImageURL = errors.New("image URL cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions, expected 1536")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

const analysisPrompt = `You are a gemologist cataloging loose gemstones from product photography.
Describe the stone in the photo. Respond with a JSON object containing exactly
these keys: detected_color (string), clarity_estimate (string, a GIA-style
grade such as VS1 or SI2), carat_estimate (number, 0 if not estimable from the
photo), description (one merchandising paragraph, plain text).`

// VisionAPI defines the interface for photo analysis calls
type VisionAPI interface {
	AnalyzeImage(ctx context.Context, imageURL string, prompt string) (string, error)
}

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// Client wraps the OpenAI API for gem photo analysis and text embeddings
type Client struct {
	vision      VisionAPI
	embeddings  EmbeddingAPI
	visionModel string
	dimensions  int
}

type OpenAIAdapter struct {
	client         *openai.Client
	visionModel    string
	embeddingModel openai.EmbeddingModel
}

func NewOpenAIAdapter(apiKey string, visionModel string, embeddingModel openai.EmbeddingModel) *OpenAIAdapter {
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		visionModel:    visionModel,
		embeddingModel: embeddingModel,
	}
}

// AnalyzeImage sends the image to the chat completions API and returns the
// raw JSON text of the model's reply.
func (a *OpenAIAdapter) AnalyzeImage(ctx context.Context, imageURL string, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type Config struct {
	APIKey              string
	VisionModel         string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, visionModel, cfg.EmbeddingModel)
	return &Client{
		vision:      adapter,
		embeddings:  adapter,
		visionModel: visionModel,
		dimensions:  dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// analysisReply mirrors the JSON shape the prompt demands of the model.
type analysisReply struct {
	DetectedColor   string  `json:"detected_color"`
	ClarityEstimate string  `json:"clarity_estimate"`
	CaratEstimate   float64 `json:"carat_estimate"`
	Description     string  `json:"description"`
}

// AnalyzeGemPhoto extracts structured gem attributes from a product photo
func (c *Client) AnalyzeGemPhoto(ctx context.Context, imageURL string) (*domain.GemAnalysis, error) {
	if imageURL == "" {
		return nil, ErrEmptyImageURL
	}

	raw, err := c.vision.AnalyzeImage(ctx, imageURL, analysisPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse analysis reply: %w", err)
	}

	return &domain.GemAnalysis{
		DetectedColor:   reply.DetectedColor,
		ClarityEstimate: reply.ClarityEstimate,
		CaratEstimate:   reply.CaratEstimate,
		Description:     reply.Description,
		Model:           c.visionModel,
	}, nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.embeddings.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	expected := c.dimensions
	if expected <= 0 {
		expected = DefaultEmbeddingDimensions
	}
	if len(embedding) != expected {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}
