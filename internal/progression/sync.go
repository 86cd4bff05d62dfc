package progression

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// SyncExerciseHistory normalizes the user's completed sessions from the last lookbackDays
// into performance records. Failed upserts do not stop the pass, they are returned together
// with the partial result.
func (s *Service) SyncExerciseHistory(ctx context.Context, userID string, lookbackDays int) (_ *SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	defer s.observeDuration("sync_exercise_history", time.Now())

	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultSyncLookbackDays
	}
	if err := validateWindow("lookback_days", lookbackDays, MaxLookbackDays); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("lookback.days", lookbackDays),
	)

	sessions, err := s.store.ListCompletedSessions(ctx, userID, s.cutoff(lookbackDays))
	if err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}
	if len(sessions) == 0 {
		log.Debugf("sync history: no completed workouts for user %s", userID)
		return &SyncResult{Synced: 0, Message: "No completed workouts found"}, nil
	}

	synced := 0
	var upsertErrs error
	for _, session := range sessions {
		exercises, err := decodeSessionExercises(session.ExercisesData)
		if err != nil {
			log.Warnf("sync history: skipping session %d of user %s: %s", session.ID, userID, err)
			continue
		}

		for _, ex := range exercises {
			record, ok := buildPerformanceRecord(userID, session, ex)
			if !ok {
				log.Tracef("sync history: no completed sets for [%s] in session %d", ex.ExerciseName, session.ID)
				continue
			}
			if err := s.store.UpsertPerformanceRecord(ctx, record); err != nil {
				upsertErrs = multierr.Append(upsertErrs, fmt.Errorf("upsert [%s] at %s: %w", record.ExerciseName, record.PerformedAt.Format(time.RFC3339), err))
				continue
			}
			synced++
		}
	}

	s.metricsManager.CounterSyncedRecords.Add(float64(synced))
	span.SetAttributes(attribute.Int("records.synced", synced))
	log.Debugf("sync history: user %s, %d records synced from %d workouts", userID, synced, len(sessions))

	result := &SyncResult{
		Synced:  synced,
		Message: fmt.Sprintf("Synced %d exercise records from %d workouts", synced, len(sessions)),
	}
	if upsertErrs != nil {
		return result, fmt.Errorf("sync history, %d records failed: %w", len(multierr.Errors(upsertErrs)), upsertErrs)
	}
	return result, nil
}

// buildPerformanceRecord aggregates the completed sets of an exercise.
// Returns false when there are no completed sets.
func buildPerformanceRecord(userID string, session WorkoutSession, ex sessionExercise) (PerformanceRecord, bool) {
	var completed []setResult
	for _, set := range ex.Sets {
		if set.Completed {
			completed = append(completed, set)
		}
	}
	if len(completed) == 0 {
		return PerformanceRecord{}, false
	}

	var totalVolume float64
	weights := make([]float64, 0, len(completed))
	reps := make([]float64, 0, len(completed))
	var rpes []float64
	for _, set := range completed {
		totalVolume += set.Weight * set.Reps
		weights = append(weights, set.Weight)
		reps = append(reps, set.Reps)
		if set.RPE > 0 {
			rpes = append(rpes, set.RPE)
		}
	}

	avgWeight := Average(weights)
	avgReps := Average(reps)

	var rpe *float64
	if len(rpes) > 0 {
		avgRPE := roundOne(Average(rpes))
		rpe = &avgRPE
	}

	sessionID := session.SessionID
	if sessionID == "" && session.ID != 0 {
		sessionID = strconv.FormatInt(session.ID, 10)
	}

	return PerformanceRecord{
		UserID:             userID,
		ExerciseID:         ex.ExerciseID,
		ExerciseName:       ex.ExerciseName,
		WeightKg:           avgWeight,
		Reps:               int(math.Round(avgReps)),
		SetsCompleted:      len(completed),
		TotalVolume:        totalVolume,
		RPE:                rpe,
		FormQuality:        ex.FormQuality,
		EstimatedOneRepMax: EstimatedOneRepMax(avgWeight, avgReps),
		SessionID:          sessionID,
		PerformedAt:        session.CompletedAt,
	}, true
}
