package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workout_history (
		id             BIGSERIAL PRIMARY KEY,
		user_id        UUID        NOT NULL,
		session_id     TEXT,
		exercises_data JSONB       NOT NULL DEFAULT '[]'::jsonb,
		completed_at   TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS workout_history_user_completed_idx
		ON workout_history (user_id, completed_at)`,
	`CREATE TABLE IF NOT EXISTS exercise_history (
		id                    BIGSERIAL PRIMARY KEY,
		user_id               UUID             NOT NULL,
		exercise_id           TEXT             NOT NULL,
		exercise_name         TEXT             NOT NULL,
		weight_kg             DOUBLE PRECISION NOT NULL,
		reps                  INTEGER          NOT NULL,
		sets_completed        INTEGER          NOT NULL,
		total_volume          DOUBLE PRECISION NOT NULL,
		rpe                   DOUBLE PRECISION,
		form_quality          DOUBLE PRECISION,
		estimated_one_rep_max DOUBLE PRECISION NOT NULL,
		session_id            TEXT,
		performed_at          TIMESTAMPTZ      NOT NULL,
		UNIQUE (user_id, exercise_id, performed_at)
	)`,
	`CREATE TABLE IF NOT EXISTS progression_settings (
		user_id                   UUID PRIMARY KEY,
		mode                      TEXT             NOT NULL DEFAULT 'balanced',
		primary_goal              TEXT             NOT NULL DEFAULT 'strength_gain',
		target_weight_increase_kg DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		target_rep_increase       INTEGER          NOT NULL DEFAULT 2,
		intensity_preference      TEXT             NOT NULL DEFAULT 'moderate',
		recovery_sensitivity      TEXT             NOT NULL DEFAULT 'normal',
		auto_progression_enabled  BOOLEAN          NOT NULL DEFAULT TRUE,
		plateau_detection_enabled BOOLEAN          NOT NULL DEFAULT TRUE,
		recovery_tracking_enabled BOOLEAN          NOT NULL DEFAULT TRUE,
		form_quality_threshold    DOUBLE PRECISION NOT NULL DEFAULT 7,
		created_at                TIMESTAMPTZ      NOT NULL DEFAULT now(),
		updated_at                TIMESTAMPTZ      NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS plateau_detections (
		id                 BIGSERIAL PRIMARY KEY,
		user_id            UUID             NOT NULL,
		exercise_id        TEXT             NOT NULL,
		exercise_name      TEXT             NOT NULL,
		weeks_stalled      INTEGER          NOT NULL,
		current_avg_one_rm DOUBLE PRECISION NOT NULL,
		improvement_pct    DOUBLE PRECISION NOT NULL,
		recommended_action TEXT             NOT NULL,
		last_progress_date TIMESTAMPTZ,
		detected_at        TIMESTAMPTZ      NOT NULL,
		is_resolved        BOOLEAN          NOT NULL DEFAULT FALSE,
		UNIQUE (user_id, exercise_id)
	)`,
	`CREATE TABLE IF NOT EXISTS progression_recommendations (
		id                      BIGSERIAL PRIMARY KEY,
		user_id                 UUID             NOT NULL,
		exercise_id             TEXT             NOT NULL,
		exercise_name           TEXT             NOT NULL,
		recommendation_type     TEXT             NOT NULL,
		suggested_weight_change DOUBLE PRECISION,
		suggested_rep_change    INTEGER,
		suggested_set_change    INTEGER,
		reasoning               TEXT             NOT NULL,
		confidence_score        DOUBLE PRECISION NOT NULL,
		status                  TEXT             NOT NULL DEFAULT 'pending',
		created_at              TIMESTAMPTZ      NOT NULL,
		UNIQUE (user_id, exercise_id)
	)`,
}

// Migrate creates the progression tables, if not already there.
func Migrate(ctx context.Context, dbPool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := dbPool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate, statement %d: %w", i, err)
		}
	}
	log.Debugf("db migrated, %d statements applied", len(schema))
	return nil
}
