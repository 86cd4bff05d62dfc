package progression

import (
	"context"
	"slices"
	"sync"
	"time"
)

// fakeStore keeps everything in memory, keyed the same way the postgres unique constraints are.
type fakeStore struct {
	mu sync.Mutex

	sessions        []WorkoutSession
	records         map[string]PerformanceRecord
	recordOrder     []string
	settings        map[string]Settings
	plateaus        map[string]PlateauDetection
	recommendations map[string]Recommendation

	listSessionsErr error
	upsertRecordErr func(record PerformanceRecord) error
	listRecordsErr  error
	getSettingsErr  error
	upsertRecErr    error

	createSettingsCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:         map[string]PerformanceRecord{},
		settings:        map[string]Settings{},
		plateaus:        map[string]PlateauDetection{},
		recommendations: map[string]Recommendation{},
	}
}

func (f *fakeStore) ListCompletedSessions(_ context.Context, userID string, since time.Time) ([]WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listSessionsErr != nil {
		return nil, f.listSessionsErr
	}
	var sessions []WorkoutSession
	for _, s := range f.sessions {
		if s.UserID == userID && !s.CompletedAt.Before(since) {
			sessions = append(sessions, s)
		}
	}
	slices.SortStableFunc(sessions, func(a, b WorkoutSession) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	return sessions, nil
}

func recordKey(userID, exerciseID string, performedAt time.Time) string {
	return userID + "|" + exerciseID + "|" + performedAt.UTC().Format(time.RFC3339Nano)
}

func (f *fakeStore) UpsertPerformanceRecord(_ context.Context, record PerformanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertRecordErr != nil {
		if err := f.upsertRecordErr(record); err != nil {
			return err
		}
	}
	key := recordKey(record.UserID, record.ExerciseID, record.PerformedAt)
	if _, ok := f.records[key]; !ok {
		f.recordOrder = append(f.recordOrder, key)
	}
	f.records[key] = record
	return nil
}

func (f *fakeStore) ListPerformanceRecords(_ context.Context, userID string, since time.Time) ([]PerformanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listRecordsErr != nil {
		return nil, f.listRecordsErr
	}
	var records []PerformanceRecord
	for _, key := range f.recordOrder {
		r := f.records[key]
		if r.UserID == userID && !r.PerformedAt.Before(since) {
			records = append(records, r)
		}
	}
	slices.SortStableFunc(records, func(a, b PerformanceRecord) int {
		return a.PerformedAt.Compare(b.PerformedAt)
	})
	return records, nil
}

func (f *fakeStore) addRecords(records ...PerformanceRecord) {
	for _, r := range records {
		_ = f.UpsertPerformanceRecord(context.Background(), r)
	}
}

func (f *fakeStore) GetSettings(_ context.Context, userID string) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getSettingsErr != nil {
		return nil, f.getSettingsErr
	}
	s, ok := f.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &s, nil
}

func (f *fakeStore) CreateSettings(_ context.Context, settings Settings) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createSettingsCalls++
	if existing, ok := f.settings[settings.UserID]; ok {
		return &existing, nil
	}
	f.settings[settings.UserID] = settings
	return &settings, nil
}

func (f *fakeStore) UpdateSettings(_ context.Context, settings Settings) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[settings.UserID] = settings
	return &settings, nil
}

func (f *fakeStore) UpsertPlateau(_ context.Context, plateau PlateauDetection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plateaus[plateau.UserID+"|"+plateau.ExerciseID] = plateau
	return nil
}

func (f *fakeStore) ListPlateaus(_ context.Context, userID string, includeResolved bool) ([]PlateauDetection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var plateaus []PlateauDetection
	for _, p := range f.plateaus {
		if p.UserID == userID && (includeResolved || !p.IsResolved) {
			plateaus = append(plateaus, p)
		}
	}
	slices.SortFunc(plateaus, func(a, b PlateauDetection) int {
		return b.WeeksStalled - a.WeeksStalled
	})
	return plateaus, nil
}

func (f *fakeStore) ResolvePlateau(_ context.Context, userID, exerciseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "|" + exerciseID
	p, ok := f.plateaus[key]
	if !ok {
		return ErrPlateauNotFound
	}
	p.IsResolved = true
	f.plateaus[key] = p
	return nil
}

func (f *fakeStore) UpsertRecommendation(_ context.Context, rec Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertRecErr != nil {
		return f.upsertRecErr
	}
	f.recommendations[rec.UserID+"|"+rec.ExerciseID] = rec
	return nil
}

func (f *fakeStore) ListRecommendations(_ context.Context, userID string, status RecommendationStatus) ([]Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var recs []Recommendation
	for _, r := range f.recommendations {
		if r.UserID == userID && (status == "" || r.Status == status) {
			recs = append(recs, r)
		}
	}
	slices.SortFunc(recs, func(a, b Recommendation) int {
		if a.ExerciseID < b.ExerciseID {
			return -1
		}
		if a.ExerciseID > b.ExerciseID {
			return 1
		}
		return 0
	})
	return recs, nil
}

func (f *fakeStore) UpdateRecommendationStatus(_ context.Context, userID, exerciseID string, status RecommendationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "|" + exerciseID
	r, ok := f.recommendations[key]
	if !ok {
		return ErrRecommendationNotFound
	}
	r.Status = status
	f.recommendations[key] = r
	return nil
}
