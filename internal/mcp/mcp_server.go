// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Callsight MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, engine *core.Engine, stores contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Callsight Forecasting Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  engine,
		stores:  stores,
	}

	// --- 1. Tool: generate_forecast ---
	s.AddTool(mcp.NewTool("generate_forecast",
		mcp.WithDescription("Forecast daily call volume and staffing needs from the stored history."),
		mcp.WithString("method", mcp.Description("Forecasting method. Defaults to 'arima'."), mcp.Enum("arima", "exponential_smoothing", "random_forest", "linear_regression", "seasonal_decompose")),
		mcp.WithNumber("forecast_days", mcp.Description("Number of days to forecast (1-30)."), mcp.Required()),
		mcp.WithNumber("confidence_level", mcp.Description("Confidence level for prediction intervals, in (0,1). Defaults to 0.95.")),
	), h.handleGenerateForecast)

	// --- 2. Tool: list_forecasts ---
	s.AddTool(mcp.NewTool("list_forecasts",
		mcp.WithDescription("List previously generated forecasts, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListForecasts)

	// --- 3. Tool: accuracy_analysis ---
	s.AddTool(mcp.NewTool("accuracy_analysis",
		mcp.WithDescription("Backtest every forecasting method against the most recent week of held-out history and report MAE/RMSE per method."),
	), h.handleAccuracyAnalysis)

	// --- 4. Tool: series_status ---
	s.AddTool(mcp.NewTool("series_status",
		mcp.WithDescription("Report the stored observation series and forecast log status."),
	), h.handleSeriesStatus)

	return s
}

// StartMCPServer starts the Callsight MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, engine *core.Engine, stores contract.StoreManager) error {
	s := NewMCPServer(baseCfg, engine, stores)
	return server.ServeStdio(s)
}
