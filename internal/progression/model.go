package progression

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrSettingsNotFound       = errors.New("progression settings not found")
	ErrInvalidSettings        = errors.New("invalid progression settings")
	ErrPlateauNotFound        = errors.New("plateau not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrInvalidStatus          = errors.New("invalid recommendation status")
	ErrInvalidUserID          = errors.New("invalid user id")
	ErrInvalidWindow          = errors.New("invalid time window")
)

const (
	DefaultSyncLookbackDays     = 90
	DefaultAnalysisLookbackDays = 30
	DefaultPlateauWeeks         = 3

	MaxLookbackDays = 3650
	MaxPlateauWeeks = MaxLookbackDays / 7
)

type Mode string

const (
	ModeAggressive   Mode = "aggressive"
	ModeBalanced     Mode = "balanced"
	ModeConservative Mode = "conservative"
)

type PerformanceStatus string

const (
	StatusProgressing PerformanceStatus = "progressing"
	StatusMaintaining PerformanceStatus = "maintaining"
	StatusPlateaued   PerformanceStatus = "plateaued"
	StatusRegressing  PerformanceStatus = "regressing"
)

type RecommendationType string

const (
	TypeIncreaseIntensity RecommendationType = "increase_intensity"
	TypeChangeStrategy    RecommendationType = "change_strategy"
	TypeDeload            RecommendationType = "deload"
	TypeMaintain          RecommendationType = "maintain"
)

type RecommendationStatus string

const (
	RecommendationPending   RecommendationStatus = "pending"
	RecommendationApplied   RecommendationStatus = "applied"
	RecommendationDismissed RecommendationStatus = "dismissed"
)

func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationPending, RecommendationApplied, RecommendationDismissed:
		return true
	default:
		return false
	}
}

// WorkoutSession is a raw completed session, as stored by the workout tracking app.
type WorkoutSession struct {
	ID            int64
	UserID        string
	SessionID     string
	ExercisesData json.RawMessage
	CompletedAt   time.Time
}

// PerformanceRecord is one exercise performed in one session.
type PerformanceRecord struct {
	ID                 int64     `json:"id,omitempty"`
	UserID             string    `json:"user_id"`
	ExerciseID         string    `json:"exercise_id"`
	ExerciseName       string    `json:"exercise_name"`
	WeightKg           float64   `json:"weight_kg"`
	Reps               int       `json:"reps"`
	SetsCompleted      int       `json:"sets_completed"`
	TotalVolume        float64   `json:"total_volume"`
	RPE                *float64  `json:"rpe"`
	FormQuality        *float64  `json:"form_quality"`
	EstimatedOneRepMax float64   `json:"estimated_one_rep_max"`
	SessionID          string    `json:"session_id"`
	PerformedAt        time.Time `json:"performed_at"`
}

type Settings struct {
	UserID                  string    `json:"user_id"`
	Mode                    Mode      `json:"mode"`
	PrimaryGoal             string    `json:"primary_goal"`
	TargetWeightIncreaseKg  float64   `json:"target_weight_increase_kg"`
	TargetRepIncrease       int       `json:"target_rep_increase"`
	IntensityPreference     string    `json:"intensity_preference"`
	RecoverySensitivity     string    `json:"recovery_sensitivity"`
	AutoProgressionEnabled  bool      `json:"auto_progression_enabled"`
	PlateauDetectionEnabled bool      `json:"plateau_detection_enabled"`
	RecoveryTrackingEnabled bool      `json:"recovery_tracking_enabled"`
	FormQualityThreshold    float64   `json:"form_quality_threshold"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func DefaultSettings(userID string, now time.Time) Settings {
	return Settings{
		UserID:                  userID,
		Mode:                    ModeBalanced,
		PrimaryGoal:             "strength_gain",
		TargetWeightIncreaseKg:  2.5,
		TargetRepIncrease:       2,
		IntensityPreference:     "moderate",
		RecoverySensitivity:     "normal",
		AutoProgressionEnabled:  true,
		PlateauDetectionEnabled: true,
		RecoveryTrackingEnabled: true,
		FormQualityThreshold:    7,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// SettingsUpdate is a partial settings update, nil fields are left as they are.
type SettingsUpdate struct {
	Mode                    *Mode    `json:"mode,omitempty"`
	PrimaryGoal             *string  `json:"primary_goal,omitempty"`
	TargetWeightIncreaseKg  *float64 `json:"target_weight_increase_kg,omitempty"`
	TargetRepIncrease       *int     `json:"target_rep_increase,omitempty"`
	IntensityPreference     *string  `json:"intensity_preference,omitempty"`
	RecoverySensitivity     *string  `json:"recovery_sensitivity,omitempty"`
	AutoProgressionEnabled  *bool    `json:"auto_progression_enabled,omitempty"`
	PlateauDetectionEnabled *bool    `json:"plateau_detection_enabled,omitempty"`
	RecoveryTrackingEnabled *bool    `json:"recovery_tracking_enabled,omitempty"`
	FormQualityThreshold    *float64 `json:"form_quality_threshold,omitempty"`
}

type InsightMetrics struct {
	EstimatedOneRM  float64 `json:"estimated_one_rm"`
	VolumeChangePct float64 `json:"volume_change_pct"`
	AvgRPE          float64 `json:"avg_rpe"`
}

type Trend struct {
	OneRMChangePct float64 `json:"one_rm_change_pct"`
	RecentAvg1RM   float64 `json:"recent_avg_1rm"`
	OldAvg1RM      float64 `json:"old_avg_1rm"`
}

// Insight is the computed, not persisted, verdict for one exercise.
type Insight struct {
	ExerciseName      string            `json:"exercise_name"`
	ExerciseID        string            `json:"exercise_id"`
	PerformanceStatus PerformanceStatus `json:"performance_status"`
	Recommendation    string            `json:"recommendation"`
	Metrics           InsightMetrics    `json:"metrics"`
	RecordCount       int               `json:"record_count"`
	Trend             *Trend            `json:"trend,omitempty"`
}

type PlateauDetection struct {
	ID                int64      `json:"id,omitempty"`
	UserID            string     `json:"user_id"`
	ExerciseID        string     `json:"exercise_id"`
	ExerciseName      string     `json:"exercise_name"`
	WeeksStalled      int        `json:"weeks_stalled"`
	CurrentAvgOneRM   float64    `json:"current_avg_one_rm"`
	ImprovementPct    float64    `json:"improvement_pct"`
	RecommendedAction string     `json:"recommended_action"`
	LastProgressDate  *time.Time `json:"last_progress_date,omitempty"`
	DetectedAt        time.Time  `json:"detected_at"`
	IsResolved        bool       `json:"is_resolved"`
}

type Recommendation struct {
	ID                    int64                `json:"id,omitempty"`
	UserID                string               `json:"user_id"`
	ExerciseID            string               `json:"exercise_id"`
	ExerciseName          string               `json:"exercise_name"`
	RecommendationType    RecommendationType   `json:"recommendation_type"`
	SuggestedWeightChange *float64             `json:"suggested_weight_change"`
	SuggestedRepChange    *int                 `json:"suggested_rep_change"`
	SuggestedSetChange    *int                 `json:"suggested_set_change"`
	Reasoning             string               `json:"reasoning"`
	ConfidenceScore       float64              `json:"confidence_score"`
	Status                RecommendationStatus `json:"status"`
	CreatedAt             time.Time            `json:"created_at"`
}

type SyncResult struct {
	Synced  int    `json:"synced"`
	Message string `json:"message"`
}

type AnalysisResult struct {
	Insights []Insight `json:"insights"`
	Settings *Settings `json:"settings"`
}

type PlateauResult struct {
	Plateaus []PlateauDetection `json:"plateaus"`
}

type RecommendationsResult struct {
	Recommendations []Recommendation `json:"recommendations"`
}
