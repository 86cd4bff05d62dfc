package progression

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const (
	minPlateauRecords   = 3
	plateauImprovingPct = 1.0
	week                = 7 * 24 * time.Hour

	defaultPlateauAction = "Try different rep ranges (5-8 or 12-15), add volume, or switch to a variation of this exercise."
)

// plateauActions is matched in order against the lowercased exercise name.
var plateauActions = []struct {
	keyword string
	action  string
}{
	{"squat", "Try front squats, pause squats, or increase frequency to 2-3x per week."},
	{"bench", "Try incline bench, close-grip bench, or add more tricep accessory work."},
	{"deadlift", "Try deficit deadlifts, Romanian deadlifts, or focus on improving grip strength."},
	{"press", "Try different pressing angles, increase frequency, or add rear delt work for balance."},
	{"shoulder", "Try different pressing angles, increase frequency, or add rear delt work for balance."},
	{"row", "Try different grip widths, cable variations, or increase training frequency."},
	{"pull", "Try different grip widths, cable variations, or increase training frequency."},
}

func plateauAction(exerciseName string) string {
	name := strings.ToLower(exerciseName)
	for _, pa := range plateauActions {
		if strings.Contains(name, pa.keyword) {
			return pa.action
		}
	}
	return defaultPlateauAction
}

// DetectPlateaus flags exercises whose estimated 1RM did not improve by at least 1%
// between the first and the last third of the last plateauWeeks weeks, and stores them.
func (s *Service) DetectPlateaus(ctx context.Context, userID string, plateauWeeks int) (_ *PlateauResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.plateaus.detect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer s.observeDuration("detect_plateaus", time.Now())

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if plateauWeeks <= 0 {
		plateauWeeks = DefaultPlateauWeeks
	}
	if err := validateWindow("plateau_weeks", plateauWeeks, MaxPlateauWeeks); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("plateau.weeks", plateauWeeks),
	)

	records, err := s.store.ListPerformanceRecords(ctx, userID, s.cutoff(plateauWeeks*7))
	if err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}

	now := s.now()
	plateaus := make([]PlateauDetection, 0)
	for _, group := range groupByExercise(records) {
		plateau, ok := detectPlateau(userID, group, now)
		if !ok {
			continue
		}
		if err := s.store.UpsertPlateau(ctx, plateau); err != nil {
			return nil, fmt.Errorf("upsert plateau [%s]: %w", plateau.ExerciseName, err)
		}
		log.Debugf("plateau detected for user %s: [%s], %d weeks stalled", userID, plateau.ExerciseName, plateau.WeeksStalled)
		plateaus = append(plateaus, plateau)
	}

	s.metricsManager.CounterPlateausDetected.Add(float64(len(plateaus)))
	span.SetAttributes(attribute.Int("plateaus.count", len(plateaus)))

	return &PlateauResult{Plateaus: plateaus}, nil
}

// detectPlateau compares the first and the last third (ceiling sized) of the group records,
// ordered by performance time.
func detectPlateau(userID string, group exerciseGroup, now time.Time) (PlateauDetection, bool) {
	if len(group.records) < minPlateauRecords {
		return PlateauDetection{}, false
	}

	sorted := slices.Clone(group.records)
	slices.SortStableFunc(sorted, func(a, b PerformanceRecord) int {
		return a.PerformedAt.Compare(b.PerformedAt)
	})

	third := (len(sorted) + 2) / 3
	firstThird := sorted[:third]
	lastThird := sorted[len(sorted)-third:]

	firstAvg1RM := Average(oneRepMaxes(firstThird))
	lastAvg1RM := Average(oneRepMaxes(lastThird))
	improvementPct := changePct(lastAvg1RM, firstAvg1RM)
	if improvementPct >= plateauImprovingPct {
		return PlateauDetection{}, false
	}

	firstThirdEnd := firstThird[len(firstThird)-1].PerformedAt
	lastThirdEnd := lastThird[len(lastThird)-1].PerformedAt
	lastProgress := firstThirdEnd

	return PlateauDetection{
		UserID:            userID,
		ExerciseID:        group.records[0].ExerciseID,
		ExerciseName:      group.name,
		WeeksStalled:      int(lastThirdEnd.Sub(firstThirdEnd) / week),
		CurrentAvgOneRM:   lastAvg1RM,
		ImprovementPct:    roundOne(improvementPct),
		RecommendedAction: plateauAction(group.name),
		LastProgressDate:  &lastProgress,
		DetectedAt:        now,
		IsResolved:        false,
	}, true
}

// ListPlateaus lists the stored plateaus of the user, the resolved ones only if asked for.
func (s *Service) ListPlateaus(ctx context.Context, userID string, includeResolved bool) (_ []PlateauDetection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.plateaus.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	plateaus, err := s.store.ListPlateaus(ctx, userID, includeResolved)
	if err != nil {
		return nil, fmt.Errorf("list plateaus: %w", err)
	}
	return plateaus, nil
}

func (s *Service) ResolvePlateau(ctx context.Context, userID, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.plateaus.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if err := validateUserID(userID); err != nil {
		return err
	}

	if err := s.store.ResolvePlateau(ctx, userID, exerciseID); err != nil {
		return fmt.Errorf("resolve plateau: %w", err)
	}
	return nil
}
