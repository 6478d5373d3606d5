package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
	stores  contract.StoreManager
}

func (h *toolHandler) handleGenerateForecast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := schema.ForecastRequest{
		Method:          schema.Method(request.GetString("method", string(schema.ARIMAMethod))),
		ForecastDays:    request.GetInt("forecast_days", 0),
		ConfidenceLevel: request.GetFloat("confidence_level", 0),
	}

	result, err := h.engine.GenerateForecast(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListForecasts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Clone the base config so per-request overrides never leak across calls.
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.Limit = l
	}

	results, err := h.engine.ListForecasts(ctx, cfg.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAccuracyAnalysis(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.engine.ComputeAccuracy(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("accuracy analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSeriesStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	series, err := h.stores.GetSeriesStore().GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series status failed: %v", err)), nil
	}
	forecasts, err := h.stores.GetForecastStore().GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast log status failed: %v", err)), nil
	}

	payload := map[string]any{
		"series":    series,
		"forecasts": forecasts,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
