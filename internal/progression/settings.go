package progression

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

// GetOrCreateSettings returns the user settings, creating the defaults when there are none yet.
func (s *Service) GetOrCreateSettings(ctx context.Context, userID string) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	settings, err := s.store.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	log.Debugf("no progression settings for user %s, creating defaults", userID)
	settings, err = s.store.CreateSettings(ctx, DefaultSettings(userID, s.now()))
	if err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies a partial update on top of the current (or default) settings.
func (s *Service) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.settings.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	current, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := update.applyTo(*current)
	if err := updated.validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.now()

	settings, err := s.store.UpdateSettings(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}

func (u SettingsUpdate) applyTo(settings Settings) Settings {
	if u.Mode != nil {
		settings.Mode = *u.Mode
	}
	if u.PrimaryGoal != nil {
		settings.PrimaryGoal = *u.PrimaryGoal
	}
	if u.TargetWeightIncreaseKg != nil {
		settings.TargetWeightIncreaseKg = *u.TargetWeightIncreaseKg
	}
	if u.TargetRepIncrease != nil {
		settings.TargetRepIncrease = *u.TargetRepIncrease
	}
	if u.IntensityPreference != nil {
		settings.IntensityPreference = *u.IntensityPreference
	}
	if u.RecoverySensitivity != nil {
		settings.RecoverySensitivity = *u.RecoverySensitivity
	}
	if u.AutoProgressionEnabled != nil {
		settings.AutoProgressionEnabled = *u.AutoProgressionEnabled
	}
	if u.PlateauDetectionEnabled != nil {
		settings.PlateauDetectionEnabled = *u.PlateauDetectionEnabled
	}
	if u.RecoveryTrackingEnabled != nil {
		settings.RecoveryTrackingEnabled = *u.RecoveryTrackingEnabled
	}
	if u.FormQualityThreshold != nil {
		settings.FormQualityThreshold = *u.FormQualityThreshold
	}
	return settings
}

func (s Settings) validate() error {
	if _, ok := modeThresholds[s.Mode]; !ok {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	if s.TargetWeightIncreaseKg <= 0 {
		return fmt.Errorf("%w: target_weight_increase_kg must be positive", ErrInvalidSettings)
	}
	if s.TargetRepIncrease < 0 {
		return fmt.Errorf("%w: target_rep_increase cannot be negative", ErrInvalidSettings)
	}
	if s.FormQualityThreshold < 0 || s.FormQualityThreshold > 10 {
		return fmt.Errorf("%w: form_quality_threshold must be within 0..10", ErrInvalidSettings)
	}
	return nil
}
