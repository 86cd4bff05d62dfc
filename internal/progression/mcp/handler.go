package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// Handler turns MCP tool calls into progression service calls, results are returned as indented JSON text.
type Handler struct {
	service toolService
}

func NewHandler(service toolService) *Handler {
	return &Handler{
		service: service,
	}
}

type UserInput struct {
	UserID string `json:"user_id" jsonschema:"User UUID"`
}

type LookbackInput struct {
	UserID       string `json:"user_id" jsonschema:"User UUID"`
	LookbackDays int    `json:"lookback_days,omitempty" jsonschema:"How many days of history to use, service default when omitted"`
}

type PlateausInput struct {
	UserID       string `json:"user_id" jsonschema:"User UUID"`
	PlateauWeeks int    `json:"plateau_weeks,omitempty" jsonschema:"Detection window in weeks, 3 when omitted"`
}

func errorResult(msg string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg + ": " + err.Error()}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func (h *Handler) GetProgressionSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema", err), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (h *Handler) AnalyzeProgressTool() func(context.Context, *mcp.CallToolRequest, LookbackInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LookbackInput) (*mcp.CallToolResult, any, error) {
		result, err := h.service.AnalyzeProgress(ctx, in.UserID, in.LookbackDays)
		if err != nil {
			log.Errorf("mcp analyze_progress: %s", err)
			return errorResult("Error analyzing progress", err), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

func (h *Handler) DetectPlateausTool() func(context.Context, *mcp.CallToolRequest, PlateausInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PlateausInput) (*mcp.CallToolResult, any, error) {
		result, err := h.service.DetectPlateaus(ctx, in.UserID, in.PlateauWeeks)
		if err != nil {
			log.Errorf("mcp detect_plateaus: %s", err)
			return errorResult("Error detecting plateaus", err), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

func (h *Handler) GenerateRecommendationsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		result, err := h.service.GenerateRecommendations(ctx, in.UserID)
		if err != nil {
			log.Errorf("mcp generate_recommendations: %s", err)
			return errorResult("Error generating recommendations", err), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

// SyncExerciseHistoryTool reports a partial sync as an error, the synced count is in the message.
func (h *Handler) SyncExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, LookbackInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LookbackInput) (*mcp.CallToolResult, any, error) {
		result, err := h.service.SyncExerciseHistory(ctx, in.UserID, in.LookbackDays)
		if err != nil {
			log.Errorf("mcp sync_exercise_history: %s", err)
			if result != nil {
				return errorResult(result.Message, err), nil, nil
			}
			return errorResult("Error syncing history", err), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

func (h *Handler) GetSettingsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		settings, err := h.service.GetOrCreateSettings(ctx, in.UserID)
		if err != nil {
			log.Errorf("mcp get_progression_settings: %s", err)
			return errorResult("Error fetching settings", err), nil, nil
		}
		return jsonResult(settings), nil, nil
	}
}
