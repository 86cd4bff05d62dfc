package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/retry"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const (
	performanceRecordColumns = `id, user_id::text, exercise_id, exercise_name, weight_kg, reps, sets_completed,
		total_volume, rpe, form_quality, estimated_one_rep_max, COALESCE(session_id, ''), performed_at`
	settingsColumns = `user_id::text, mode, primary_goal, target_weight_increase_kg, target_rep_increase,
		intensity_preference, recovery_sensitivity, auto_progression_enabled, plateau_detection_enabled,
		recovery_tracking_enabled, form_quality_threshold, created_at, updated_at`
	plateauColumns = `id, user_id::text, exercise_id, exercise_name, weeks_stalled, current_avg_one_rm,
		improvement_pct, recommended_action, last_progress_date, detected_at, is_resolved`
	recommendationColumns = `id, user_id::text, exercise_id, exercise_name, recommendation_type,
		suggested_weight_change, suggested_rep_change, suggested_set_change, reasoning, confidence_score,
		status, created_at`
)

// Repo is the postgres store. Every call goes through the transient-failure retry policy.
type Repo struct {
	db          *pgxpool.Pool
	retryPolicy retry.Policy
}

func NewRepo(db *pgxpool.Pool, metricsManager *metrics.Manager) *Repo {
	policy := retry.DefaultPolicy()
	if metricsManager != nil {
		policy.OnRetry = func(_ error, _ time.Duration) {
			metricsManager.CounterStoreRetries.Inc()
		}
	}
	return &Repo{
		db:          db,
		retryPolicy: policy,
	}
}

func (r *Repo) ListCompletedSessions(ctx context.Context, userID string, since time.Time) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) ([]WorkoutSession, error) {
		rows, err := r.db.Query(
			ctx,
			`SELECT id, user_id::text, COALESCE(session_id, ''), exercises_data, completed_at
			FROM workout_history
			WHERE user_id = $1 AND completed_at IS NOT NULL AND completed_at >= $2
			ORDER BY completed_at DESC;`,
			userID, since,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var sessions []WorkoutSession
		for rows.Next() {
			var s WorkoutSession
			var data []byte
			if err := rows.Scan(&s.ID, &s.UserID, &s.SessionID, &data, &s.CompletedAt); err != nil {
				return nil, fmt.Errorf("rows scan: %w", err)
			}
			s.ExercisesData = data
			sessions = append(sessions, s)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("sessions.count", len(sessions)))
		return sessions, nil
	})
}

func (r *Repo) UpsertPerformanceRecord(ctx context.Context, record PerformanceRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var sessionID *string
	if record.SessionID != "" {
		sessionID = &record.SessionID
	}

	return retry.Do(ctx, r.retryPolicy, func(ctx context.Context) error {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO exercise_history
				(user_id, exercise_id, exercise_name, weight_kg, reps, sets_completed, total_volume,
				 rpe, form_quality, estimated_one_rep_max, session_id, performed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (user_id, exercise_id, performed_at) DO UPDATE SET
				exercise_name = EXCLUDED.exercise_name,
				weight_kg = EXCLUDED.weight_kg,
				reps = EXCLUDED.reps,
				sets_completed = EXCLUDED.sets_completed,
				total_volume = EXCLUDED.total_volume,
				rpe = EXCLUDED.rpe,
				form_quality = EXCLUDED.form_quality,
				estimated_one_rep_max = EXCLUDED.estimated_one_rep_max,
				session_id = EXCLUDED.session_id;`,
			record.UserID, record.ExerciseID, record.ExerciseName, record.WeightKg, record.Reps,
			record.SetsCompleted, record.TotalVolume, record.RPE, record.FormQuality,
			record.EstimatedOneRepMax, sessionID, record.PerformedAt,
		)
		return err
	})
}

func (r *Repo) ListPerformanceRecords(ctx context.Context, userID string, since time.Time) (_ []PerformanceRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) ([]PerformanceRecord, error) {
		rows, err := r.db.Query(
			ctx,
			`SELECT `+performanceRecordColumns+`
			FROM exercise_history
			WHERE user_id = $1 AND performed_at >= $2
			ORDER BY performed_at ASC, id ASC;`,
			userID, since,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var records []PerformanceRecord
		for rows.Next() {
			var rec PerformanceRecord
			if err := rows.Scan(
				&rec.ID, &rec.UserID, &rec.ExerciseID, &rec.ExerciseName, &rec.WeightKg, &rec.Reps,
				&rec.SetsCompleted, &rec.TotalVolume, &rec.RPE, &rec.FormQuality,
				&rec.EstimatedOneRepMax, &rec.SessionID, &rec.PerformedAt,
			); err != nil {
				return nil, fmt.Errorf("rows scan: %w", err)
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("records.count", len(records)))
		return records, nil
	})
}

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings
	var mode string
	if err := row.Scan(
		&s.UserID, &mode, &s.PrimaryGoal, &s.TargetWeightIncreaseKg, &s.TargetRepIncrease,
		&s.IntensityPreference, &s.RecoverySensitivity, &s.AutoProgressionEnabled,
		&s.PlateauDetectionEnabled, &s.RecoveryTrackingEnabled, &s.FormQualityThreshold,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	s.Mode = Mode(mode)
	return &s, nil
}

func (r *Repo) GetSettings(ctx context.Context, userID string) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.settings.get")
	defer func() {
		// not found is an expected outcome here
		if errors.Is(err, ErrSettingsNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) (*Settings, error) {
		return scanSettings(r.db.QueryRow(
			ctx,
			`SELECT `+settingsColumns+` FROM progression_settings WHERE user_id = $1;`,
			userID,
		))
	})
}

func (r *Repo) CreateSettings(ctx context.Context, settings Settings) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.settings.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) (*Settings, error) {
		// the no-op update makes RETURNING yield the existing row on conflict
		return scanSettings(r.db.QueryRow(
			ctx,
			`INSERT INTO progression_settings
				(user_id, mode, primary_goal, target_weight_increase_kg, target_rep_increase,
				 intensity_preference, recovery_sensitivity, auto_progression_enabled,
				 plateau_detection_enabled, recovery_tracking_enabled, form_quality_threshold,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			RETURNING `+settingsColumns+`;`,
			settings.UserID, string(settings.Mode), settings.PrimaryGoal, settings.TargetWeightIncreaseKg,
			settings.TargetRepIncrease, settings.IntensityPreference, settings.RecoverySensitivity,
			settings.AutoProgressionEnabled, settings.PlateauDetectionEnabled,
			settings.RecoveryTrackingEnabled, settings.FormQualityThreshold,
			settings.CreatedAt, settings.UpdatedAt,
		))
	})
}

func (r *Repo) UpdateSettings(ctx context.Context, settings Settings) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.settings.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) (*Settings, error) {
		return scanSettings(r.db.QueryRow(
			ctx,
			`UPDATE progression_settings SET
				mode = $2, primary_goal = $3, target_weight_increase_kg = $4, target_rep_increase = $5,
				intensity_preference = $6, recovery_sensitivity = $7, auto_progression_enabled = $8,
				plateau_detection_enabled = $9, recovery_tracking_enabled = $10,
				form_quality_threshold = $11, updated_at = $12
			WHERE user_id = $1
			RETURNING `+settingsColumns+`;`,
			settings.UserID, string(settings.Mode), settings.PrimaryGoal, settings.TargetWeightIncreaseKg,
			settings.TargetRepIncrease, settings.IntensityPreference, settings.RecoverySensitivity,
			settings.AutoProgressionEnabled, settings.PlateauDetectionEnabled,
			settings.RecoveryTrackingEnabled, settings.FormQualityThreshold, settings.UpdatedAt,
		))
	})
}

func (r *Repo) UpsertPlateau(ctx context.Context, plateau PlateauDetection) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.plateaus.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.Do(ctx, r.retryPolicy, func(ctx context.Context) error {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO plateau_detections
				(user_id, exercise_id, exercise_name, weeks_stalled, current_avg_one_rm, improvement_pct,
				 recommended_action, last_progress_date, detected_at, is_resolved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
			ON CONFLICT (user_id, exercise_id) DO UPDATE SET
				exercise_name = EXCLUDED.exercise_name,
				weeks_stalled = EXCLUDED.weeks_stalled,
				current_avg_one_rm = EXCLUDED.current_avg_one_rm,
				improvement_pct = EXCLUDED.improvement_pct,
				recommended_action = EXCLUDED.recommended_action,
				last_progress_date = EXCLUDED.last_progress_date,
				detected_at = EXCLUDED.detected_at,
				is_resolved = FALSE;`,
			plateau.UserID, plateau.ExerciseID, plateau.ExerciseName, plateau.WeeksStalled,
			plateau.CurrentAvgOneRM, plateau.ImprovementPct, plateau.RecommendedAction,
			plateau.LastProgressDate, plateau.DetectedAt,
		)
		return err
	})
}

func (r *Repo) ListPlateaus(ctx context.Context, userID string, includeResolved bool) (_ []PlateauDetection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.plateaus.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) ([]PlateauDetection, error) {
		rows, err := r.db.Query(
			ctx,
			`SELECT `+plateauColumns+`
			FROM plateau_detections
			WHERE user_id = $1 AND ($2 OR NOT is_resolved)
			ORDER BY detected_at DESC, id DESC;`,
			userID, includeResolved,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		plateaus := make([]PlateauDetection, 0)
		for rows.Next() {
			var p PlateauDetection
			if err := rows.Scan(
				&p.ID, &p.UserID, &p.ExerciseID, &p.ExerciseName, &p.WeeksStalled, &p.CurrentAvgOneRM,
				&p.ImprovementPct, &p.RecommendedAction, &p.LastProgressDate, &p.DetectedAt, &p.IsResolved,
			); err != nil {
				return nil, fmt.Errorf("rows scan: %w", err)
			}
			plateaus = append(plateaus, p)
		}
		return plateaus, rows.Err()
	})
}

func (r *Repo) ResolvePlateau(ctx context.Context, userID, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.plateaus.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.Do(ctx, r.retryPolicy, func(ctx context.Context) error {
		tag, err := r.db.Exec(
			ctx,
			`UPDATE plateau_detections SET is_resolved = TRUE WHERE user_id = $1 AND exercise_id = $2;`,
			userID, exerciseID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPlateauNotFound
		}
		return nil
	})
}

func (r *Repo) UpsertRecommendation(ctx context.Context, rec Recommendation) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.recommendations.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.Do(ctx, r.retryPolicy, func(ctx context.Context) error {
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO progression_recommendations
				(user_id, exercise_id, exercise_name, recommendation_type, suggested_weight_change,
				 suggested_rep_change, suggested_set_change, reasoning, confidence_score, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (user_id, exercise_id) DO UPDATE SET
				exercise_name = EXCLUDED.exercise_name,
				recommendation_type = EXCLUDED.recommendation_type,
				suggested_weight_change = EXCLUDED.suggested_weight_change,
				suggested_rep_change = EXCLUDED.suggested_rep_change,
				suggested_set_change = EXCLUDED.suggested_set_change,
				reasoning = EXCLUDED.reasoning,
				confidence_score = EXCLUDED.confidence_score,
				status = EXCLUDED.status,
				created_at = EXCLUDED.created_at;`,
			rec.UserID, rec.ExerciseID, rec.ExerciseName, string(rec.RecommendationType),
			rec.SuggestedWeightChange, rec.SuggestedRepChange, rec.SuggestedSetChange,
			rec.Reasoning, rec.ConfidenceScore, string(rec.Status), rec.CreatedAt,
		)
		return err
	})
}

func (r *Repo) ListRecommendations(ctx context.Context, userID string, status RecommendationStatus) (_ []Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.recommendations.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) ([]Recommendation, error) {
		rows, err := r.db.Query(
			ctx,
			`SELECT `+recommendationColumns+`
			FROM progression_recommendations
			WHERE user_id = $1 AND ($2 = '' OR status = $2)
			ORDER BY created_at DESC, id DESC;`,
			userID, string(status),
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		recommendations := make([]Recommendation, 0)
		for rows.Next() {
			var rec Recommendation
			var recType, recStatus string
			if err := rows.Scan(
				&rec.ID, &rec.UserID, &rec.ExerciseID, &rec.ExerciseName, &recType,
				&rec.SuggestedWeightChange, &rec.SuggestedRepChange, &rec.SuggestedSetChange,
				&rec.Reasoning, &rec.ConfidenceScore, &recStatus, &rec.CreatedAt,
			); err != nil {
				return nil, fmt.Errorf("rows scan: %w", err)
			}
			rec.RecommendationType = RecommendationType(recType)
			rec.Status = RecommendationStatus(recStatus)
			recommendations = append(recommendations, rec)
		}
		return recommendations, rows.Err()
	})
}

func (r *Repo) UpdateRecommendationStatus(ctx context.Context, userID, exerciseID string, status RecommendationStatus) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.recommendations.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return retry.Do(ctx, r.retryPolicy, func(ctx context.Context) error {
		tag, err := r.db.Exec(
			ctx,
			`UPDATE progression_recommendations SET status = $3 WHERE user_id = $1 AND exercise_id = $2;`,
			userID, exerciseID, string(status),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRecommendationNotFound
		}
		return nil
	})
}

// AddWorkoutSession stores a raw workout session, as the workout tracking app does.
func (r *Repo) AddWorkoutSession(ctx context.Context, session WorkoutSession) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var sessionID *string
	if session.SessionID != "" {
		sessionID = &session.SessionID
	}

	return retry.DoValue(ctx, r.retryPolicy, func(ctx context.Context) (int64, error) {
		var id int64
		err := r.db.QueryRow(
			ctx,
			`INSERT INTO workout_history (user_id, session_id, exercises_data, completed_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
			session.UserID, sessionID, string(session.ExercisesData), session.CompletedAt,
		).Scan(&id)
		return id, err
	})
}
