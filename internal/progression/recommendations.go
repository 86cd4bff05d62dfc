package progression

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const (
	progressingReasoning = "You've shown consistent progress. Time to increase the challenge."
	plateauedReasoning   = "Progress has stalled. Try increasing reps before adding weight."
	regressingReasoning  = "Performance declining. Consider reducing load and focusing on recovery."
	maintainingReasoning = "Performance is stable. Continue current approach or slightly increase volume."
)

// confidenceScore grows with the amount of history behind the insight.
func confidenceScore(recordCount int) float64 {
	switch {
	case recordCount >= 10:
		return 0.9
	case recordCount >= 7:
		return 0.8
	case recordCount >= 5:
		return 0.7
	case recordCount >= 3:
		return 0.6
	default:
		return 0.5
	}
}

func recommendationType(status PerformanceStatus) RecommendationType {
	switch status {
	case StatusProgressing:
		return TypeIncreaseIntensity
	case StatusPlateaued:
		return TypeChangeStrategy
	case StatusRegressing:
		return TypeDeload
	default:
		return TypeMaintain
	}
}

func buildRecommendation(userID string, insight Insight, settings *Settings, now time.Time) Recommendation {
	rec := Recommendation{
		UserID:             userID,
		ExerciseID:         insight.ExerciseID,
		ExerciseName:       insight.ExerciseName,
		RecommendationType: recommendationType(insight.PerformanceStatus),
		ConfidenceScore:    confidenceScore(insight.RecordCount),
		Status:             RecommendationPending,
		CreatedAt:          now,
	}
	if rec.ExerciseID == "" {
		rec.ExerciseID = insight.ExerciseName
	}

	switch insight.PerformanceStatus {
	case StatusProgressing:
		weight := settings.TargetWeightIncreaseKg
		rec.SuggestedWeightChange = &weight
		rec.Reasoning = progressingReasoning
	case StatusPlateaued:
		reps := settings.TargetRepIncrease
		rec.SuggestedRepChange = &reps
		rec.Reasoning = plateauedReasoning
	case StatusRegressing:
		weight := -settings.TargetWeightIncreaseKg
		rec.SuggestedWeightChange = &weight
		rec.Reasoning = regressingReasoning
	default:
		rec.Reasoning = maintainingReasoning
	}
	return rec
}

// GenerateRecommendations analyzes the default lookback window and stores a pending
// recommendation per exercise, overwriting the previous one.
func (s *Service) GenerateRecommendations(ctx context.Context, userID string) (_ *RecommendationsResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.recommendations.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer s.observeDuration("generate_recommendations", time.Now())
	span.SetAttributes(attribute.String("user.id", userID))

	analysis, err := s.AnalyzeProgress(ctx, userID, DefaultAnalysisLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("analyze progress: %w", err)
	}

	now := s.now()
	recommendations := make([]Recommendation, 0, len(analysis.Insights))
	for _, insight := range analysis.Insights {
		rec := buildRecommendation(userID, insight, analysis.Settings, now)
		if err := s.store.UpsertRecommendation(ctx, rec); err != nil {
			return nil, fmt.Errorf("upsert recommendation [%s]: %w", rec.ExerciseName, err)
		}
		s.metricsManager.CounterRecommendations.WithLabelValues(string(rec.RecommendationType)).Inc()
		recommendations = append(recommendations, rec)
	}
	span.SetAttributes(attribute.Int("recommendations.count", len(recommendations)))

	return &RecommendationsResult{Recommendations: recommendations}, nil
}

// ListRecommendations lists stored recommendations, filtered by status unless it is empty.
func (s *Service) ListRecommendations(ctx context.Context, userID string, status RecommendationStatus) (_ []Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.recommendations.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	recommendations, err := s.store.ListRecommendations(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recommendations, nil
}

// UpdateRecommendationStatus marks the recommendation as applied or dismissed (or pending again).
func (s *Service) UpdateRecommendationStatus(ctx context.Context, userID, exerciseID string, status RecommendationStatus) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.recommendations.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("exercise.id", exerciseID),
		attribute.String("status", string(status)),
	)

	if err := validateUserID(userID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.store.UpdateRecommendationStatus(ctx, userID, exerciseID, status); err != nil {
		return fmt.Errorf("update recommendation status: %w", err)
	}
	return nil
}
