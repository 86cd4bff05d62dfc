package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSessionExercises_RegularSets(t *testing.T) {
	data := []byte(`[
		{
			"exercise_id": "bench-1",
			"exercise_name": "Bench Press",
			"formQuality": 8,
			"sets": [
				{"weight": 60, "reps": 10, "rpe": 7, "completed": true},
				{"weight": "62.5", "reps": "8", "completed": false},
				{"weight": 60, "reps": 9}
			]
		}
	]`)

	exercises, err := decodeSessionExercises(data)
	require.NoError(t, err)
	require.Len(t, exercises, 1)

	ex := exercises[0]
	assert.Equal(t, "bench-1", ex.ExerciseID)
	assert.Equal(t, "Bench Press", ex.ExerciseName)
	require.NotNil(t, ex.FormQuality)
	assert.Equal(t, 8.0, *ex.FormQuality)
	require.Len(t, ex.Sets, 3)
	assert.Equal(t, setResult{Weight: 60, Reps: 10, RPE: 7, Completed: true}, ex.Sets[0])
	assert.Equal(t, setResult{Weight: 62.5, Reps: 8, Completed: false}, ex.Sets[1])
	// missing completed flag counts as completed
	assert.True(t, ex.Sets[2].Completed)
}

func TestDecodeSessionExercises_CustomLogs(t *testing.T) {
	data := []byte(`[
		{
			"id": 42,
			"name": "Deadlift",
			"form_quality": "7.5",
			"logs": [
				{"actual_weight": 140, "weight": 130, "actual_reps": 5, "reps": 6, "actual_rpe": 8.5},
				{"weight": 130, "reps": 6, "rpe": 7}
			]
		}
	]`)

	exercises, err := decodeSessionExercises(data)
	require.NoError(t, err)
	require.Len(t, exercises, 1)

	ex := exercises[0]
	assert.Equal(t, "42", ex.ExerciseID)
	assert.Equal(t, "Deadlift", ex.ExerciseName)
	require.NotNil(t, ex.FormQuality)
	assert.Equal(t, 7.5, *ex.FormQuality)
	assert.Equal(t, []setResult{
		{Weight: 140, Reps: 5, RPE: 8.5, Completed: true},
		{Weight: 130, Reps: 6, RPE: 7, Completed: true},
	}, ex.Sets)
}

func TestDecodeSessionExercises_LegacyArrays(t *testing.T) {
	data := []byte(`[{"name": "Curl", "reps": [12, 10, 8], "weights": [15, 17.5]}]`)

	exercises, err := decodeSessionExercises(data)
	require.NoError(t, err)
	require.Len(t, exercises, 1)

	ex := exercises[0]
	// no id at all, falls back to the name
	assert.Equal(t, "Curl", ex.ExerciseID)
	assert.Nil(t, ex.FormQuality)
	assert.Equal(t, []setResult{
		{Weight: 15, Reps: 12, Completed: true},
		{Weight: 17.5, Reps: 10, Completed: true},
		{Weight: 0, Reps: 8, Completed: true},
	}, ex.Sets)
}

func TestDecodeSessionExercises_Fallbacks(t *testing.T) {
	exercises, err := decodeSessionExercises([]byte(`[{"sets": [{"weight": null, "reps": 5}]}, {"exercise_name": "Row"}]`))
	require.NoError(t, err)
	require.Len(t, exercises, 2)

	assert.Equal(t, unknownExerciseName, exercises[0].ExerciseName)
	assert.Equal(t, unknownExerciseName, exercises[0].ExerciseID)
	assert.Equal(t, []setResult{{Weight: 0, Reps: 5, Completed: true}}, exercises[0].Sets)

	assert.Equal(t, "Row", exercises[1].ExerciseID)
	assert.Empty(t, exercises[1].Sets)
}

func TestDecodeSessionExercises_Empty(t *testing.T) {
	for _, data := range []string{"", "null", "  ", "[]"} {
		exercises, err := decodeSessionExercises([]byte(data))
		require.NoError(t, err, data)
		assert.Empty(t, exercises, data)
	}
}

func TestDecodeSessionExercises_Invalid(t *testing.T) {
	for _, data := range []string{
		`{"not": "an array"}`,
		`"bench"`,
		`[{`,
	} {
		_, err := decodeSessionExercises([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestDecodeSessionExercises_MalformedValuesDefault(t *testing.T) {
	data := []byte(`[
		{"exercise_name": "Row", "sets": [{"weight": "heavy", "reps": "8-10", "completed": "yes"}, "warmup"]},
		{"exercise_id": true, "name": "Squat", "reps": 8, "weights": [100]},
		{"name": "Dip", "sets": {"weight": 20}, "logs": [{"reps": 10}]}
	]`)

	exercises, err := decodeSessionExercises(data)
	require.NoError(t, err)
	require.Len(t, exercises, 3)

	// unparseable numbers fall back to 0, only an explicit false marks a set incomplete
	assert.Equal(t, []setResult{
		{Weight: 0, Reps: 0, Completed: true},
		{Weight: 0, Reps: 0, Completed: true},
	}, exercises[0].Sets)

	// legacy arrays are only used when both are arrays
	assert.Equal(t, "Squat", exercises[1].ExerciseID)
	assert.Empty(t, exercises[1].Sets)

	// a non array sets value falls through to the logs
	assert.Equal(t, []setResult{{Reps: 10, Completed: true}}, exercises[2].Sets)
}

func TestDecodeSessionExercises_SkipsUnusableEntry(t *testing.T) {
	data := []byte(`[
		"not an exercise",
		{"exercise_name": "Bench Press", "sets": [{"weight": 80, "reps": 5}]},
		42
	]`)

	exercises, err := decodeSessionExercises(data)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	assert.Equal(t, "Bench Press", exercises[0].ExerciseName)
	assert.Equal(t, []setResult{{Weight: 80, Reps: 5, Completed: true}}, exercises[0].Sets)
}
