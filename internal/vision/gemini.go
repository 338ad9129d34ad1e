package vision

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"nutrisnap/internal/models"
)

const DefaultGeminiModel = "gemini-2.0-flash"

var identificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"foodName": {
			Type:        genai.TypeString,
			Description: "The name of the identified food item.",
		},
		"triggerNutritionalAnalysis": {
			Type:        genai.TypeBoolean,
			Description: "Whether the identified food item should trigger nutritional analysis.",
		},
	},
	Required: []string{"foodName", "triggerNutritionalAnalysis"},
}

var tipsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tips": {
			Type:        genai.TypeArray,
			Description: "An array of tips for food scans.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"tips"},
}

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

func (c *GeminiClient) Identify(ctx context.Context, img *DataURI) (*models.Identification, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(identifyPrompt),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}

	text, err := c.generate(ctx, contents, identificationSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to identify food: %w", err)
	}
	return parseIdentification(text)
}

func (c *GeminiClient) SuggestTips(ctx context.Context) ([]string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(tipsPrompt, genai.RoleUser),
	}

	text, err := c.generate(ctx, contents, tipsSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tips: %w", err)
	}
	return parseTips(text)
}

func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content, schema *genai.Schema) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	c.logger.Debug("gemini response", zap.String("model", c.model), zap.Int("bytes", len(text)))
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	return text, nil
}
