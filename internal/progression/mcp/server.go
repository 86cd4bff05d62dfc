package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the progression tools.
// Served over stdio by cmd/progression_mcp and mounted at /mcp by internal/server.
func NewServer(pool *pgxpool.Pool, progressionSvc progressionService) *mcp.Server {
	h := NewHandler(NewContextService(NewPoolSchemaRepo(pool), progressionSvc))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymprogress",
		Version: "1.0.0",
	}, nil)
	addTools(s, h)
	return s
}

func addTools(s *mcp.Server, h *Handler) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_schema",
		Description: "Returns the DB schema of the progression tables (workout_history, exercise_history, progression_settings, plateau_detections, progression_recommendations).",
	}, h.GetProgressionSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "analyze_progress",
		Description: "Syncs the user's workout history, then classifies every exercise of the last lookback_days (default 30) as progressing, maintaining, plateaued or regressing, with 1RM and volume trends.",
	}, h.AnalyzeProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "detect_plateaus",
		Description: "Finds exercises whose estimated 1RM improved by less than 1% within the last plateau_weeks (default 3) and stores them with a suggested action.",
	}, h.DetectPlateausTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "generate_recommendations",
		Description: "Analyzes the last 30 days and stores one pending recommendation per exercise (increase intensity, change strategy, deload or maintain) with a confidence score.",
	}, h.GenerateRecommendationsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "sync_exercise_history",
		Description: "Normalizes completed workouts of the last lookback_days (default 90) into per-exercise performance records. Safe to repeat.",
	}, h.SyncExerciseHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progression_settings",
		Description: "Returns the user's progression settings (mode, targets, toggles), creating the defaults when the user has none.",
	}, h.GetSettingsTool())
}
