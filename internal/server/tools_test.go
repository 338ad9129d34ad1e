package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrisnap/internal/models"
)

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func callTool[T any](t *testing.T, s *Server, name string, args map[string]interface{}) T {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/mcp", map[string]interface{}{"name": name, "arguments": args})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[toolResult](t, rec)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)

	var out T
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }

func TestToolNames(t *testing.T) {
	assert.Equal(t, []string{
		"analyze_image", "clear_history", "get_scan", "get_scans",
		"get_settings", "suggest_tips", "update_settings",
	}, newTestServer(t, nil).ToolNames())
}

func TestListTools(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/mcp/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Tools []ToolInfo `json:"tools"`
	}](t, rec)
	require.Len(t, body.Tools, 7)

	byName := map[string]ToolInfo{}
	for _, tool := range body.Tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type)
		byName[tool.Name] = tool
	}

	getScan := byName["get_scan"].InputSchema
	assert.Equal(t, []string{"id"}, getScan.Required)
	assert.Equal(t, "string", getScan.Properties["id"].Type)
	assert.Equal(t, "number", getScan.Properties["portion"].Type)
	assert.Contains(t, getScan.Properties["units"].Description, "ounces")

	assert.Equal(t, "integer", byName["get_scans"].InputSchema.Properties["limit"].Type)
	assert.Equal(t, []string{"photoDataUri"}, byName["analyze_image"].InputSchema.Required)
	assert.Equal(t, "string", byName["update_settings"].InputSchema.Properties["theme"].Type)
	assert.Empty(t, byName["clear_history"].InputSchema.Properties)
}

func TestToolAnalyzeAndFetch(t *testing.T) {
	s := newTestServer(t, pizza())

	scan := callTool[models.Scan](t, s, "analyze_image", map[string]interface{}{"photoDataUri": photo})
	assert.Equal(t, "Pizza", scan.FoodName)

	scans := callTool[[]models.Scan](t, s, "get_scans", nil)
	require.Len(t, scans, 1)

	detail := callTool[ScanDetail](t, s, "get_scan", map[string]interface{}{"id": scan.ID, "portion": 1.5})
	assert.Equal(t, scan.ID, detail.Scan.ID)
	assert.Equal(t, 1.5, detail.View.Portion)

	cleared := callTool[map[string]int](t, s, "clear_history", nil)
	assert.Equal(t, 1, cleared["cleared"])
	assert.Empty(t, callTool[[]models.Scan](t, s, "get_scans", nil))
}

func TestToolSettings(t *testing.T) {
	s := newTestServer(t, nil)

	got := callTool[models.Settings](t, s, "update_settings", map[string]interface{}{"units": "ounces"})
	assert.Equal(t, models.UnitsOunces, got.Units)
	assert.Equal(t, got, callTool[models.Settings](t, s, "get_settings", nil))
}

func TestToolSuggestTipsDegrades(t *testing.T) {
	got := callTool[models.TipsResponse](t, newTestServer(t, nil), "suggest_tips", nil)
	assert.NotEmpty(t, got.Warning)
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t, &fakeProvider{result: &models.Identification{FoodName: "Pizza"}})

	rec := do(t, s, http.MethodPost, "/mcp", map[string]interface{}{"name": "order_pizza"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/mcp", map[string]interface{}{
		"name": "analyze_image", "arguments": map[string]interface{}{"photoDataUri": photo},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pizza")

	rec = do(t, s, http.MethodPost, "/mcp", map[string]interface{}{
		"name": "get_scans", "arguments": map[string]interface{}{"limit": "many"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/mcp", map[string]interface{}{
		"name": "update_settings", "arguments": map[string]interface{}{"theme": "neon"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
