package progression

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const (
	trendWindowSize = 5

	needMoreDataMessage = "Need more data to analyze progress."
	regressingMessage   = "Performance declining. Consider reducing volume, checking form, or taking a deload week."
	plateauedMessage    = "Progress has stalled. Try changing rep ranges, adding volume, or switching exercise variations."
	maintainingMessage  = "Performance is stable. Keep consistent or slightly increase intensity."
)

type thresholds struct {
	progress float64
	plateau  float64
}

var modeThresholds = map[Mode]thresholds{
	ModeAggressive:   {progress: 3, plateau: -2},
	ModeBalanced:     {progress: 2, plateau: -1},
	ModeConservative: {progress: 1, plateau: -0.5},
}

func thresholdsFor(mode Mode) thresholds {
	if t, ok := modeThresholds[mode]; ok {
		return t
	}
	return modeThresholds[ModeBalanced]
}

// classify applies the rules in order, first match wins.
func classify(oneRMChangePct, volumeChangePct float64, t thresholds) PerformanceStatus {
	switch {
	case oneRMChangePct > t.progress || volumeChangePct > 2*t.progress:
		return StatusProgressing
	case oneRMChangePct < t.plateau && volumeChangePct < 2*t.plateau:
		return StatusRegressing
	case math.Abs(oneRMChangePct) < 1 && math.Abs(volumeChangePct) < 2:
		return StatusPlateaued
	default:
		return StatusMaintaining
	}
}

// AnalyzeProgress classifies the trend of every exercise the user performed in the last lookbackDays.
// A history sync runs first, its failure is only logged.
func (s *Service) AnalyzeProgress(ctx context.Context, userID string, lookbackDays int) (_ *AnalysisResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.analyze")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer s.observeDuration("analyze_progress", time.Now())

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultAnalysisLookbackDays
	}
	if err := validateWindow("lookback_days", lookbackDays, MaxLookbackDays); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("lookback.days", lookbackDays),
	)

	if _, syncErr := s.SyncExerciseHistory(ctx, userID, lookbackDays); syncErr != nil {
		log.Warnf("analyze progress: history sync failed for user %s, using existing history: %s", userID, syncErr)
		s.metricsManager.CounterSyncFailures.Inc()
	}

	settings, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	records, err := s.store.ListPerformanceRecords(ctx, userID, s.cutoff(lookbackDays))
	if err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}

	insights := make([]Insight, 0)
	for _, group := range groupByExercise(records) {
		insight := analyzeExercise(group, settings)
		s.metricsManager.CounterInsights.WithLabelValues(string(insight.PerformanceStatus)).Inc()
		insights = append(insights, insight)
	}
	span.SetAttributes(
		attribute.Int("records.count", len(records)),
		attribute.Int("insights.count", len(insights)),
	)

	return &AnalysisResult{
		Insights: insights,
		Settings: settings,
	}, nil
}

func analyzeExercise(group exerciseGroup, settings *Settings) Insight {
	records := group.records
	insight := Insight{
		ExerciseName: group.name,
		RecordCount:  len(records),
	}
	if len(records) > 0 {
		insight.ExerciseID = records[0].ExerciseID
	}

	if len(records) < 2 {
		insight.PerformanceStatus = StatusMaintaining
		insight.Recommendation = needMoreDataMessage
		if len(records) == 1 {
			insight.Metrics.EstimatedOneRM = records[0].EstimatedOneRepMax
			if records[0].RPE != nil {
				insight.Metrics.AvgRPE = *records[0].RPE
			}
		}
		return insight
	}

	recent := records[max(0, len(records)-trendWindowSize):]
	old := records[:max(0, min(trendWindowSize, len(records)-trendWindowSize))]

	recentAvg1RM := Average(oneRepMaxes(recent))
	recentAvgVolume := Average(volumes(recent))
	oldAvg1RM, oldAvgVolume := recentAvg1RM, recentAvgVolume
	if len(old) > 0 {
		oldAvg1RM = Average(oneRepMaxes(old))
		oldAvgVolume = Average(volumes(old))
	}

	var rpes []float64
	for _, r := range recent {
		if r.RPE != nil && *r.RPE > 0 {
			rpes = append(rpes, *r.RPE)
		}
	}

	oneRMChange := changePct(recentAvg1RM, oldAvg1RM)
	volumeChange := changePct(recentAvgVolume, oldAvgVolume)

	insight.PerformanceStatus = classify(oneRMChange, volumeChange, thresholdsFor(settings.Mode))
	insight.Recommendation = statusMessage(insight.PerformanceStatus, settings)
	insight.Metrics = InsightMetrics{
		EstimatedOneRM:  recentAvg1RM,
		VolumeChangePct: roundOne(volumeChange),
		AvgRPE:          roundOne(Average(rpes)),
	}
	insight.Trend = &Trend{
		OneRMChangePct: roundOne(oneRMChange),
		RecentAvg1RM:   recentAvg1RM,
		OldAvg1RM:      oldAvg1RM,
	}
	return insight
}

func statusMessage(status PerformanceStatus, settings *Settings) string {
	switch status {
	case StatusProgressing:
		return fmt.Sprintf(
			"Excellent progress! Consider increasing weight by %gkg or reps by %d.",
			settings.TargetWeightIncreaseKg, settings.TargetRepIncrease,
		)
	case StatusRegressing:
		return regressingMessage
	case StatusPlateaued:
		return plateauedMessage
	default:
		return maintainingMessage
	}
}

func oneRepMaxes(records []PerformanceRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.EstimatedOneRepMax)
	}
	return values
}

func volumes(records []PerformanceRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.TotalVolume)
	}
	return values
}
