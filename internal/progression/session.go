package progression

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const unknownExerciseName = "Unknown Exercise"

// number accepts a JSON number or a numeric string. Anything else decodes to 0.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = number(f)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = number(f)
	}
	return nil
}

// identifier accepts a JSON string or number and keeps it as a string.
// Anything else decodes to "".
type identifier string

func (id *identifier) UnmarshalJSON(data []byte) error {
	*id = ""
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*id = identifier(s)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = identifier(n.String())
	}
	return nil
}

// rawSet is the regular workout format: {weight, reps, rpe?, completed?}
type rawSet struct {
	Weight    number          `json:"weight"`
	Reps      number          `json:"reps"`
	RPE       number          `json:"rpe"`
	Completed json.RawMessage `json:"completed"`
}

// completed is false only for an explicit false flag.
func (s rawSet) completed() bool {
	return !bytes.Equal(bytes.TrimSpace(s.Completed), []byte("false"))
}

// rawLog is the custom workout format, actual_* values win over the plain ones.
type rawLog struct {
	ActualWeight number `json:"actual_weight"`
	Weight       number `json:"weight"`
	ActualReps   number `json:"actual_reps"`
	Reps         number `json:"reps"`
	ActualRPE    number `json:"actual_rpe"`
	RPE          number `json:"rpe"`
}

// rawExercise keeps the set containers raw, they are only used when they hold arrays.
type rawExercise struct {
	ExerciseID       identifier `json:"exercise_id"`
	ID               identifier `json:"id"`
	ExerciseName     identifier `json:"exercise_name"`
	Name             identifier `json:"name"`
	FormQuality      number     `json:"formQuality"`
	FormQualitySnake number     `json:"form_quality"`

	Sets json.RawMessage `json:"sets"`
	Logs json.RawMessage `json:"logs"`
	// legacy parallel arrays
	Reps    json.RawMessage `json:"reps"`
	Weights json.RawMessage `json:"weights"`
}

// arrayElements splits a JSON array into its elements. ok is false when raw is not an array.
func arrayElements(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	return elements, true
}

// decodeElement decodes an array element, a malformed one leaves v zeroed.
func decodeElement(raw json.RawMessage, v any) {
	_ = json.Unmarshal(raw, v)
}

type setResult struct {
	Weight    float64
	Reps      float64
	RPE       float64 // 0 when not reported
	Completed bool
}

// sessionExercise is a validated exercise entry of a raw session payload.
type sessionExercise struct {
	ExerciseID   string
	ExerciseName string
	FormQuality  *float64
	Sets         []setResult
}

// decodeSessionExercises validates the loosely shaped exercises payload of a session
// and normalizes every supported set format into setResults.
// Only a payload that is not an array is an error, an unusable exercise entry is skipped.
func decodeSessionExercises(data []byte) ([]sessionExercise, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode exercises data: %w", err)
	}

	exercises := make([]sessionExercise, 0, len(entries))
	for i, entry := range entries {
		var re rawExercise
		if err := json.Unmarshal(entry, &re); err != nil {
			log.Warnf("exercises data: skipping entry %d: %s", i, err)
			continue
		}
		exercises = append(exercises, re.normalize())
	}
	return exercises, nil
}

func (re rawExercise) normalize() sessionExercise {
	ex := sessionExercise{
		ExerciseName: string(re.ExerciseName),
		ExerciseID:   string(re.ExerciseID),
	}
	if ex.ExerciseName == "" {
		ex.ExerciseName = string(re.Name)
	}
	if ex.ExerciseName == "" {
		ex.ExerciseName = unknownExerciseName
	}
	if ex.ExerciseID == "" {
		ex.ExerciseID = string(re.ID)
	}
	if ex.ExerciseID == "" {
		ex.ExerciseID = ex.ExerciseName
	}

	if fq := firstNonZero(re.FormQuality, re.FormQualitySnake); fq != 0 {
		ex.FormQuality = &fq
	}

	if sets, ok := arrayElements(re.Sets); ok {
		for _, raw := range sets {
			var s rawSet
			decodeElement(raw, &s)
			ex.Sets = append(ex.Sets, setResult{
				Weight:    float64(s.Weight),
				Reps:      float64(s.Reps),
				RPE:       float64(s.RPE),
				Completed: s.completed(),
			})
		}
		return ex
	}

	if logs, ok := arrayElements(re.Logs); ok {
		for _, raw := range logs {
			var l rawLog
			decodeElement(raw, &l)
			ex.Sets = append(ex.Sets, setResult{
				Weight:    firstNonZero(l.ActualWeight, l.Weight),
				Reps:      firstNonZero(l.ActualReps, l.Reps),
				RPE:       firstNonZero(l.ActualRPE, l.RPE),
				Completed: true,
			})
		}
		return ex
	}

	reps, repsOK := arrayElements(re.Reps)
	weights, weightsOK := arrayElements(re.Weights)
	if repsOK && weightsOK {
		for i, rawReps := range reps {
			var r, w number
			decodeElement(rawReps, &r)
			if i < len(weights) {
				decodeElement(weights[i], &w)
			}
			ex.Sets = append(ex.Sets, setResult{
				Weight:    float64(w),
				Reps:      float64(r),
				Completed: true,
			})
		}
	}

	return ex
}

func firstNonZero(values ...number) float64 {
	for _, v := range values {
		if v != 0 {
			return float64(v)
		}
	}
	return 0
}
