package progression

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
)

type Service struct {
	store          store
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(store store, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *Service) cutoff(days int) time.Time {
	return s.now().AddDate(0, 0, -days)
}

func (s *Service) observeDuration(operation string, begin time.Time) {
	s.metricsManager.HistogramOperationDuration.
		WithLabelValues(operation).
		Observe(time.Since(begin).Seconds())
}

func validateUserID(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}

func validateWindow(name string, value, limit int) error {
	if value > limit {
		return fmt.Errorf("%w: %s %d exceeds %d", ErrInvalidWindow, name, value, limit)
	}
	return nil
}

// exerciseGroup holds the records of one exercise, in store order.
type exerciseGroup struct {
	name    string
	records []PerformanceRecord
}

// groupByExercise groups records by exact exercise name, groups ordered by first appearance.
func groupByExercise(records []PerformanceRecord) []exerciseGroup {
	var groups []exerciseGroup
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.ExerciseName]
		if !ok {
			i = len(groups)
			index[r.ExerciseName] = i
			groups = append(groups, exerciseGroup{name: r.ExerciseName})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}
