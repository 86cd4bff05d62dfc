package progression

import (
	"context"
	"time"
)

// store is the persistence boundary of the engine. Writes are upserts keyed by natural identity.
type store interface {
	ListCompletedSessions(ctx context.Context, userID string, since time.Time) ([]WorkoutSession, error)

	UpsertPerformanceRecord(ctx context.Context, record PerformanceRecord) error
	// ListPerformanceRecords returns the user records performed since the given time, oldest first.
	ListPerformanceRecords(ctx context.Context, userID string, since time.Time) ([]PerformanceRecord, error)

	// GetSettings returns ErrSettingsNotFound when the user has none.
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	// CreateSettings inserts the settings, or returns the existing ones if already there.
	CreateSettings(ctx context.Context, settings Settings) (*Settings, error)
	UpdateSettings(ctx context.Context, settings Settings) (*Settings, error)

	UpsertPlateau(ctx context.Context, plateau PlateauDetection) error
	ListPlateaus(ctx context.Context, userID string, includeResolved bool) ([]PlateauDetection, error)
	ResolvePlateau(ctx context.Context, userID, exerciseID string) error

	UpsertRecommendation(ctx context.Context, recommendation Recommendation) error
	// ListRecommendations lists all user recommendations when status is empty.
	ListRecommendations(ctx context.Context, userID string, status RecommendationStatus) ([]Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, userID, exerciseID string, status RecommendationStatus) error
}
