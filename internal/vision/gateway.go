// internal/vision/gateway.go
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nutrisnap/internal/models"
)

const (
	DefaultGatewayURL   = "http://mcp-compose-http-proxy:9876"
	DefaultGatewayModel = "anthropic/claude-3.5-sonnet"
)

type GatewayOptions struct {
	URL        string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// GatewayClient reaches an OpenRouter gateway exposed as an MCP tool behind
// an mcp-compose proxy.
type GatewayClient struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	model      string
	logger     *zap.Logger
}

func NewGatewayClient(opts GatewayOptions, logger *zap.Logger) *GatewayClient {
	if opts.URL == "" {
		opts.URL = DefaultGatewayURL
	}
	if opts.Model == "" {
		opts.Model = DefaultGatewayModel
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &GatewayClient{
		httpClient: opts.HTTPClient,
		proxyURL:   strings.TrimRight(opts.URL, "/"),
		apiKey:     opts.APIKey,
		model:      opts.Model,
		logger:     logger,
	}
}

func (g *GatewayClient) Name() string {
	return "gateway:" + g.model
}

func (g *GatewayClient) Identify(ctx context.Context, img *DataURI) (*models.Identification, error) {
	completionRequest := map[string]interface{}{
		"model":         g.model,
		"system_prompt": identifyPrompt + identifyJSONInstructions,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": "Here is the image of the food item."},
					{"type": "image_url", "image_url": map[string]string{"url": img.Raw}},
				},
			},
		},
		"max_tokens":  300,
		"temperature": 0.1,
	}

	content, err := g.complete(ctx, completionRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to identify food: %w", err)
	}
	return parseIdentification(content)
}

func (g *GatewayClient) SuggestTips(ctx context.Context) ([]string, error) {
	completionRequest := map[string]interface{}{
		"model":         g.model,
		"system_prompt": tipsPrompt + tipsJSONInstructions,
		"messages": []map[string]interface{}{
			{"role": "user", "content": "Give me your best food scanning tips."},
		},
		"max_tokens":  800,
		"temperature": 0.7,
	}

	content, err := g.complete(ctx, completionRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tips: %w", err)
	}
	return parseTips(content)
}

// complete runs create_completion and returns the completion's content text.
func (g *GatewayClient) complete(ctx context.Context, req map[string]interface{}) (string, error) {
	out, err := g.callGateway(ctx, "create_completion", req)
	if err != nil {
		return "", err
	}

	// The tool result is itself a JSON completion document.
	var completion struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(out), &completion); err != nil || completion.Content == "" {
		return "", fmt.Errorf("%w: unexpected completion payload", ErrMalformedResponse)
	}
	return completion.Content, nil
}

func (g *GatewayClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", g.proxyURL)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var rpcResponse struct {
		Result *struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if rpcResponse.Error != nil {
		return "", fmt.Errorf("gateway error %d: %s", rpcResponse.Error.Code, rpcResponse.Error.Message)
	}
	if rpcResponse.Result == nil || len(rpcResponse.Result.Content) == 0 {
		return "", fmt.Errorf("%w: unexpected response format", ErrMalformedResponse)
	}

	g.logger.Debug("gateway call complete", zap.String("tool", toolName), zap.String("model", g.model))
	return rpcResponse.Result.Content[0].Text, nil
}
