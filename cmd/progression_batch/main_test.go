package main

import (
	"context"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/2beens/gymprogress/internal/progression"
)

type fakePipelineService struct {
	failSyncFor map[string]bool
	calls       []string
}

func (f *fakePipelineService) SyncExerciseHistory(_ context.Context, userID string, _ int) (*progression.SyncResult, error) {
	f.calls = append(f.calls, "sync:"+userID)
	if f.failSyncFor[userID] {
		return nil, errors.New("db down")
	}
	return &progression.SyncResult{Synced: 3}, nil
}

func (f *fakePipelineService) DetectPlateaus(_ context.Context, userID string, _ int) (*progression.PlateauResult, error) {
	f.calls = append(f.calls, "plateaus:"+userID)
	return &progression.PlateauResult{}, nil
}

func (f *fakePipelineService) GenerateRecommendations(_ context.Context, userID string) (*progression.RecommendationsResult, error) {
	f.calls = append(f.calls, "recommendations:"+userID)
	return &progression.RecommendationsResult{}, nil
}

func TestUserList(t *testing.T) {
	var users userList
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&users, "user", "")

	require.NoError(t, fs.Parse([]string{"-user", "a", "-user", "b, c,", "-user", ""}))
	assert.Equal(t, userList{"a", "b", "c"}, users)
	assert.Equal(t, "a,b,c", users.String())
}

func TestRunPipeline(t *testing.T) {
	service := &fakePipelineService{failSyncFor: map[string]bool{"u2": true}}

	err := runPipeline(context.Background(), service, []string{"u1", "u2", "u3"}, pipelineParams{})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.ErrorContains(t, err, "user u2: sync history: db down")

	assert.Equal(t, []string{
		"sync:u1", "plateaus:u1", "recommendations:u1",
		"sync:u2",
		"sync:u3", "plateaus:u3", "recommendations:u3",
	}, service.calls)
}

func TestRunPipeline_Canceled(t *testing.T) {
	service := &fakePipelineService{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runPipeline(ctx, service, []string{"u1"}, pipelineParams{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, service.calls)
}

func TestNewScheduler(t *testing.T) {
	scheduler, err := newScheduler("@daily", func() {})
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)

	scheduler, err = newScheduler("0 0 3 * * *", func() {})
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)

	_, err = newScheduler("every night", func() {})
	assert.ErrorContains(t, err, `invalid schedule "every night"`)
}
