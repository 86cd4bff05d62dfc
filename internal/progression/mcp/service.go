package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/gymprogress/internal/progression"
)

// progressionService is the part of the progression engine exposed as MCP tools.
type progressionService interface {
	SyncExerciseHistory(ctx context.Context, userID string, lookbackDays int) (*progression.SyncResult, error)
	AnalyzeProgress(ctx context.Context, userID string, lookbackDays int) (*progression.AnalysisResult, error)
	DetectPlateaus(ctx context.Context, userID string, plateauWeeks int) (*progression.PlateauResult, error)
	GenerateRecommendations(ctx context.Context, userID string) (*progression.RecommendationsResult, error)
	GetOrCreateSettings(ctx context.Context, userID string) (*progression.Settings, error)
}

// toolService is what the Handler calls, kept small for tests.
type toolService interface {
	progressionService
	GetSchema(ctx context.Context) (string, error)
}

// ContextService adds the schema description on top of the progression engine.
type ContextService struct {
	progressionService
	schema SchemaRepo
}

func NewContextService(schemaRepo SchemaRepo, progressionSvc progressionService) *ContextService {
	return &ContextService{
		progressionService: progressionSvc,
		schema:             schemaRepo,
	}
}

// GetSchema returns the progression tables as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetProgressionColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Progression DB Schema\n\nNo progression tables found in the database.\n"
	}

	var tableOrder []string
	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		if _, ok := byTable[c.TableName]; !ok {
			tableOrder = append(tableOrder, c.TableName)
		}
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	var b strings.Builder
	b.WriteString("# Progression DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(tableOrder, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## " + tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}
