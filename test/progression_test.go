//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/progression"
)

// addWorkouts stores one completed bench session per 1RM step, oldest first, two days apart.
func (s *IntegrationTestSuite) addWorkouts(ctx context.Context, userID string, weights []float64) {
	for i, weight := range weights {
		exercises, err := json.Marshal([]map[string]any{
			{
				"exercise_id":   "bench",
				"exercise_name": "Bench Press",
				"sets": []map[string]any{
					{"weight": weight, "reps": 5, "rpe": 8, "completed": true},
					{"weight": weight, "reps": 5, "rpe": 8.5, "completed": true},
				},
			},
		})
		require.NoError(s.T(), err)

		completedAt := time.Now().UTC().AddDate(0, 0, -2*(len(weights)-i))
		_, err = s.DB.ExecContext(
			ctx,
			`INSERT INTO workout_history (user_id, session_id, exercises_data, completed_at) VALUES ($1, $2, $3, $4)`,
			userID, fmt.Sprintf("session-%d", i), string(exercises), completedAt,
		)
		require.NoError(s.T(), err)
	}
}

func (s *IntegrationTestSuite) doJSON(ctx context.Context, method, path string, body any, dst any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	if dst != nil {
		require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) TestProgression_FullCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userID := gofakeit.UUID()
	s.addWorkouts(ctx, userID, []float64{60, 62.5, 65, 67.5, 70, 72.5})

	var syncResp progression.SyncResponse
	status := s.doJSON(ctx, "POST", "/progression/sync-history", progression.AnalyzeRequest{UserID: userID}, &syncResp)
	require.Equal(s.T(), http.StatusOK, status)
	assert.True(s.T(), syncResp.Success)
	assert.Equal(s.T(), 6, syncResp.Synced)
	assert.Equal(s.T(), "Synced 6 exercise records from 6 workouts", syncResp.Message)

	var analysisResp progression.AnalysisResponse
	status = s.doJSON(ctx, "POST", "/progression/analyze", progression.AnalyzeRequest{UserID: userID}, &analysisResp)
	require.Equal(s.T(), http.StatusOK, status)
	require.Len(s.T(), analysisResp.Insights, 1)
	assert.Equal(s.T(), progression.StatusProgressing, analysisResp.Insights[0].PerformanceStatus)
	require.NotNil(s.T(), analysisResp.Settings)
	assert.Equal(s.T(), progression.ModeBalanced, analysisResp.Settings.Mode)

	var recsResp progression.RecommendationsResponse
	status = s.doJSON(ctx, "POST", "/progression/recommendations", progression.UserRequest{UserID: userID}, &recsResp)
	require.Equal(s.T(), http.StatusOK, status)
	require.Len(s.T(), recsResp.Recommendations, 1)
	assert.Equal(s.T(), progression.TypeIncreaseIntensity, recsResp.Recommendations[0].RecommendationType)

	status = s.doJSON(ctx, "PUT",
		"/progression/recommendations/"+userID+"/exercise/bench/status",
		progression.UpdateStatusRequest{Status: progression.RecommendationApplied},
		nil,
	)
	require.Equal(s.T(), http.StatusOK, status)

	var listed progression.RecommendationsResponse
	status = s.doJSON(ctx, "GET", "/progression/recommendations/"+userID+"?status=applied", nil, &listed)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Len(s.T(), listed.Recommendations, 1)
}

func (s *IntegrationTestSuite) TestProgression_Plateau() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userID := gofakeit.UUID()
	s.addWorkouts(ctx, userID, []float64{100, 100, 100, 100})

	var plateausResp progression.PlateausResponse
	status := s.doJSON(ctx, "POST", "/progression/sync-history", progression.AnalyzeRequest{UserID: userID}, nil)
	require.Equal(s.T(), http.StatusOK, status)
	status = s.doJSON(ctx, "POST", "/progression/detect-plateaus", progression.DetectPlateausRequest{UserID: userID, PlateauWeeks: 2}, &plateausResp)
	require.Equal(s.T(), http.StatusOK, status)
	require.Len(s.T(), plateausResp.Plateaus, 1)
	assert.Equal(s.T(), "bench", plateausResp.Plateaus[0].ExerciseID)
	assert.Contains(s.T(), plateausResp.Plateaus[0].RecommendedAction, "close-grip bench")

	status = s.doJSON(ctx, "POST", "/progression/plateaus/"+userID+"/exercise/bench/resolve", nil, nil)
	require.Equal(s.T(), http.StatusOK, status)

	var active progression.PlateausResponse
	status = s.doJSON(ctx, "GET", "/progression/plateaus/"+userID, nil, &active)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Empty(s.T(), active.Plateaus)
}

func (s *IntegrationTestSuite) TestProgression_Settings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userID := gofakeit.UUID()

	var settingsResp progression.SettingsResponse
	status := s.doJSON(ctx, "GET", "/progression/settings/"+userID, nil, &settingsResp)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), progression.ModeBalanced, settingsResp.Settings.Mode)

	mode := progression.ModeAggressive
	status = s.doJSON(ctx, "PUT", "/progression/settings", progression.UpdateSettingsRequest{
		UserID:   userID,
		Settings: progression.SettingsUpdate{Mode: &mode},
	}, &settingsResp)
	require.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), progression.ModeAggressive, settingsResp.Settings.Mode)

	var errResp progression.ErrorResponse
	status = s.doJSON(ctx, "GET", "/progression/settings/not-a-uuid", nil, &errResp)
	assert.Equal(s.T(), http.StatusBadRequest, status)
	assert.False(s.T(), errResp.Success)
}
