// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrisnap/internal/models"
	"nutrisnap/internal/nutrition"
)

type toolHandler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type AnalyzeImageParams struct {
	PhotoDataURI string `json:"photoDataUri" description:"Photo of a food item as a data URI: data:<mimetype>;base64,<encoded_data>"`
}

type GetScansParams struct {
	Limit int `json:"limit,omitempty" description:"Maximum number of scans to return, newest first"`
}

type GetScanParams struct {
	ID      string  `json:"id" description:"Scan identifier"`
	Portion float64 `json:"portion,omitempty" description:"Portion multiplier: 0.5, 1, 1.5 or 2 (defaults to 1)"`
	Units   string  `json:"units,omitempty" description:"grams or ounces (defaults to the saved setting)"`
}

type UpdateSettingsParams struct {
	Theme *string `json:"theme,omitempty" description:"light, dark or system"`
	Units *string `json:"units,omitempty" description:"grams or ounces"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

// ToolInfo describes a tool and its arguments for GET /mcp/tools.
type ToolInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema ToolSchema `json:"inputSchema"`
}

type ToolSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

type ToolProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func (s *Server) registerTools() {
	tools := []struct {
		name        string
		description string
		params      interface{}
		handler     toolHandler
	}{
		{"analyze_image", "Identify the food in a photo, estimate its nutrition and record the scan", AnalyzeImageParams{}, s.handleAnalyzeImageTool},
		{"get_scans", "List recorded scans, newest first", GetScansParams{}, s.handleGetScansTool},
		{"get_scan", "Get one scan rendered for a portion and unit system", GetScanParams{}, s.handleGetScanTool},
		{"clear_history", "Delete every recorded scan", nil, s.handleClearHistoryTool},
		{"get_settings", "Get the theme and unit settings", nil, s.handleGetSettingsTool},
		{"update_settings", "Change the theme and/or units", UpdateSettingsParams{}, s.handleUpdateSettingsTool},
		{"suggest_tips", "Get tips for taking food photos that scan well", nil, s.handleSuggestTipsTool},
	}

	s.tools = make(map[string]toolHandler, len(tools))
	s.toolInfo = make([]ToolInfo, 0, len(tools))
	for _, t := range tools {
		s.tools[t.name] = t.handler
		s.toolInfo = append(s.toolInfo, ToolInfo{
			Name:        t.name,
			Description: t.description,
			InputSchema: schemaFor(t.params),
		})
	}
	sort.Slice(s.toolInfo, func(i, j int) bool { return s.toolInfo[i].Name < s.toolInfo[j].Name })
}

// schemaFor builds an input schema from the json and description tags of a
// params struct. nil means the tool takes no arguments.
func schemaFor(params interface{}) ToolSchema {
	schema := ToolSchema{Type: "object", Properties: map[string]ToolProperty{}}
	if params == nil {
		return schema
	}

	t := reflect.TypeOf(params)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		schema.Properties[name] = ToolProperty{
			Type:        jsonType(field.Type),
			Description: field.Tag.Get("description"),
		}
		if !strings.Contains(opts, "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

func jsonType(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// ToolNames lists the MCP tools served on /mcp.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.toolInfo))
	for _, t := range s.toolInfo {
		names = append(names, t.Name)
	}
	return names
}

func (s *Server) handleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.toolInfo})
}

// handleMCP dispatches a CallToolRequest to the named tool.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		s.writeToolError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode tool result", zap.String("tool", request.Name), zap.Error(err))
	}
}

func (s *Server) writeToolError(w http.ResponseWriter, err error) {
	w.WriteHeader(statusFor(err))
	if encErr := json.NewEncoder(w).Encode(errorBody(err)); encErr != nil {
		s.logger.Error("failed to encode tool error", zap.Error(encErr))
	}
}

func (s *Server) handleAnalyzeImageTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeImageParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	scan, err := s.analyze(ctx, params.PhotoDataURI)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(scan)
}

func (s *Server) handleGetScansTool(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetScansParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	// Set defaults
	if params.Limit <= 0 {
		params.Limit = 20
	}

	return createJSONResponse(s.app.History.Recent(params.Limit))
}

func (s *Server) handleGetScanTool(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetScanParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}
	if params.Portion == 0 {
		params.Portion = nutrition.DefaultPortion
	}

	detail, err := s.scanDetail(params.ID, params.Portion, params.Units)
	if err != nil {
		return nil, err
	}
	return createJSONResponse(detail)
}

func (s *Server) handleClearHistoryTool(ctx context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	removed := s.app.History.Len()
	if err := s.app.History.Clear(ctx); err != nil {
		return nil, err
	}
	return createJSONResponse(map[string]interface{}{"cleared": removed})
}

func (s *Server) handleGetSettingsTool(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return createJSONResponse(s.app.Settings.Get())
}

func (s *Server) handleUpdateSettingsTool(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UpdateSettingsParams
	if err := extractParams(req, &params); err != nil {
		return nil, invalidParams(err)
	}

	settings, err := s.app.Settings.Update(ctx, models.SettingsUpdate{Theme: params.Theme, Units: params.Units})
	if err != nil {
		return nil, err
	}
	return createJSONResponse(settings)
}

func (s *Server) handleSuggestTipsTool(ctx context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return createJSONResponse(s.app.Tips(ctx))
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
