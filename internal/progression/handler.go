package progression

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progression_test

type service interface {
	SyncExerciseHistory(ctx context.Context, userID string, lookbackDays int) (*SyncResult, error)
	AnalyzeProgress(ctx context.Context, userID string, lookbackDays int) (*AnalysisResult, error)
	DetectPlateaus(ctx context.Context, userID string, plateauWeeks int) (*PlateauResult, error)
	GenerateRecommendations(ctx context.Context, userID string) (*RecommendationsResult, error)
	GetOrCreateSettings(ctx context.Context, userID string) (*Settings, error)
	UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (*Settings, error)
	ListPlateaus(ctx context.Context, userID string, includeResolved bool) ([]PlateauDetection, error)
	ResolvePlateau(ctx context.Context, userID, exerciseID string) error
	ListRecommendations(ctx context.Context, userID string, status RecommendationStatus) ([]Recommendation, error)
	UpdateRecommendationStatus(ctx context.Context, userID, exerciseID string, status RecommendationStatus) error
}

type AnalyzeRequest struct {
	UserID       string `json:"user_id"`
	LookbackDays int    `json:"lookback_days,omitempty"`
}

type DetectPlateausRequest struct {
	UserID       string `json:"user_id"`
	PlateauWeeks int    `json:"plateau_weeks,omitempty"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}

type UpdateSettingsRequest struct {
	UserID   string         `json:"user_id"`
	Settings SettingsUpdate `json:"settings"`
}

type UpdateStatusRequest struct {
	Status RecommendationStatus `json:"status"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SyncResponse struct {
	Success bool `json:"success"`
	SyncResult
}

type AnalysisResponse struct {
	Success bool `json:"success"`
	AnalysisResult
}

type PlateausResponse struct {
	Success bool `json:"success"`
	PlateauResult
}

type RecommendationsResponse struct {
	Success bool `json:"success"`
	RecommendationsResult
}

type SettingsResponse struct {
	Success  bool      `json:"success"`
	Settings *Settings `json:"settings"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the progression routes on a rate limited subrouter.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	r := mainRouter.PathPrefix("/progression").Subrouter()
	r.HandleFunc("/analyze", handler.HandleAnalyze).Methods("POST", "OPTIONS").Name("progression-analyze")
	r.HandleFunc("/detect-plateaus", handler.HandleDetectPlateaus).Methods("POST", "OPTIONS").Name("progression-detect-plateaus")
	r.HandleFunc("/recommendations", handler.HandleGenerateRecommendations).Methods("POST", "OPTIONS").Name("progression-recommendations")
	r.HandleFunc("/sync-history", handler.HandleSyncHistory).Methods("POST", "OPTIONS").Name("progression-sync-history")
	r.HandleFunc("/settings/{userId}", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("progression-get-settings")
	r.HandleFunc("/settings", handler.HandleUpdateSettings).Methods("PUT", "OPTIONS").Name("progression-update-settings")
	r.HandleFunc("/plateaus/{userId}", handler.HandleListPlateaus).Methods("GET", "OPTIONS").Name("progression-list-plateaus")
	r.HandleFunc("/plateaus/{userId}/exercise/{exerciseId}/resolve", handler.HandleResolvePlateau).Methods("POST", "OPTIONS").Name("progression-resolve-plateau")
	r.HandleFunc("/recommendations/{userId}", handler.HandleListRecommendations).Methods("GET", "OPTIONS").Name("progression-list-recommendations")
	r.HandleFunc("/recommendations/{userId}/exercise/{exerciseId}/status", handler.HandleUpdateRecommendationStatus).Methods("PUT", "OPTIONS").Name("progression-recommendation-status")

	if rateLimiter != nil && allowedPerMin > 0 {
		r.Use(middleware.RateLimit(rateLimiter, "progression", allowedPerMin, metricsManager))
	}
}

func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.analyze")
	defer span.End()

	var req AnalyzeRequest
	if !decodeJSONBody(w, r, &req) || !validUserID(w, req.UserID) {
		return
	}
	span.SetAttributes(attribute.String("user.id", req.UserID))

	result, err := handler.service.AnalyzeProgress(ctx, req.UserID, req.LookbackDays)
	if err != nil {
		log.Errorf("analyze progress for user %s: %s", req.UserID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, AnalysisResponse{Success: true, AnalysisResult: *result}, http.StatusOK)
}

func (handler *Handler) HandleDetectPlateaus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.detectplateaus")
	defer span.End()

	var req DetectPlateausRequest
	if !decodeJSONBody(w, r, &req) || !validUserID(w, req.UserID) {
		return
	}
	span.SetAttributes(attribute.String("user.id", req.UserID))

	result, err := handler.service.DetectPlateaus(ctx, req.UserID, req.PlateauWeeks)
	if err != nil {
		log.Errorf("detect plateaus for user %s: %s", req.UserID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, PlateausResponse{Success: true, PlateauResult: *result}, http.StatusOK)
}

func (handler *Handler) HandleGenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.recommendations")
	defer span.End()

	var req UserRequest
	if !decodeJSONBody(w, r, &req) || !validUserID(w, req.UserID) {
		return
	}
	span.SetAttributes(attribute.String("user.id", req.UserID))

	result, err := handler.service.GenerateRecommendations(ctx, req.UserID)
	if err != nil {
		log.Errorf("generate recommendations for user %s: %s", req.UserID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, RecommendationsResponse{Success: true, RecommendationsResult: *result}, http.StatusOK)
}

func (handler *Handler) HandleSyncHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.synchistory")
	defer span.End()

	var req AnalyzeRequest
	if !decodeJSONBody(w, r, &req) || !validUserID(w, req.UserID) {
		return
	}
	span.SetAttributes(attribute.String("user.id", req.UserID))

	result, err := handler.service.SyncExerciseHistory(ctx, req.UserID, req.LookbackDays)
	if err != nil {
		log.Errorf("sync history for user %s: %s", req.UserID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, SyncResponse{Success: true, SyncResult: *result}, http.StatusOK)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.settings.get")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if !validUserID(w, userID) {
		return
	}

	settings, err := handler.service.GetOrCreateSettings(ctx, userID)
	if err != nil {
		log.Errorf("get settings for user %s: %s", userID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, SettingsResponse{Success: true, Settings: settings}, http.StatusOK)
}

func (handler *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.settings.update")
	defer span.End()

	var req UpdateSettingsRequest
	if !decodeJSONBody(w, r, &req) || !validUserID(w, req.UserID) {
		return
	}

	settings, err := handler.service.UpdateSettings(ctx, req.UserID, req.Settings)
	if err != nil {
		log.Errorf("update settings for user %s: %s", req.UserID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, SettingsResponse{Success: true, Settings: settings}, http.StatusOK)
}

func (handler *Handler) HandleListPlateaus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.plateaus.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if !validUserID(w, userID) {
		return
	}

	includeResolved := false
	if raw := r.URL.Query().Get("include_resolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, "invalid include_resolved value", http.StatusBadRequest)
			return
		}
		includeResolved = parsed
	}

	plateaus, err := handler.service.ListPlateaus(ctx, userID, includeResolved)
	if err != nil {
		log.Errorf("list plateaus for user %s: %s", userID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, PlateausResponse{Success: true, PlateauResult: PlateauResult{Plateaus: plateaus}}, http.StatusOK)
}

func (handler *Handler) HandleResolvePlateau(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.plateaus.resolve")
	defer span.End()

	vars := mux.Vars(r)
	userID, exerciseID := vars["userId"], vars["exerciseId"]
	if !validUserID(w, userID) {
		return
	}

	if err := handler.service.ResolvePlateau(ctx, userID, exerciseID); err != nil {
		log.Errorf("resolve plateau [%s] for user %s: %s", exerciseID, userID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}

func (handler *Handler) HandleListRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.recommendations.list")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if !validUserID(w, userID) {
		return
	}
	status := RecommendationStatus(r.URL.Query().Get("status"))

	recommendations, err := handler.service.ListRecommendations(ctx, userID, status)
	if err != nil {
		log.Errorf("list recommendations for user %s: %s", userID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, RecommendationsResponse{
		Success:               true,
		RecommendationsResult: RecommendationsResult{Recommendations: recommendations},
	}, http.StatusOK)
}

func (handler *Handler) HandleUpdateRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.recommendations.status")
	defer span.End()

	vars := mux.Vars(r)
	userID, exerciseID := vars["userId"], vars["exerciseId"]
	if !validUserID(w, userID) {
		return
	}

	var req UpdateStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := handler.service.UpdateRecommendationStatus(ctx, userID, exerciseID, req.Status); err != nil {
		log.Errorf("update recommendation [%s] status for user %s: %s", exerciseID, userID, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		writeError(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Tracef("progression request, unmarshal json body: %s", err)
		writeError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func validUserID(w http.ResponseWriter, userID string) bool {
	if userID == "" {
		writeError(w, "user_id is required", http.StatusBadRequest)
		return false
	}
	if err := validateUserID(userID); err != nil {
		writeError(w, "user_id must be a valid UUID", http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, msg string, statusCode int) {
	pkg.WriteJSON(w, ErrorResponse{Success: false, Error: msg}, statusCode)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidSettings),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidWindow):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPlateauNotFound),
		errors.Is(err, ErrRecommendationNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
