// Package main runs the progression pipeline (sync, plateau detection, recommendations)
// for a list of users, once or on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
)

// userList is a repeatable -user flag, also accepting comma separated ids.
type userList []string

func (u *userList) String() string {
	return strings.Join(*u, ",")
}

func (u *userList) Set(value string) error {
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			*u = append(*u, id)
		}
	}
	return nil
}

type pipelineService interface {
	SyncExerciseHistory(ctx context.Context, userID string, lookbackDays int) (*progression.SyncResult, error)
	DetectPlateaus(ctx context.Context, userID string, plateauWeeks int) (*progression.PlateauResult, error)
	GenerateRecommendations(ctx context.Context, userID string) (*progression.RecommendationsResult, error)
}

type pipelineParams struct {
	lookbackDays int
	plateauWeeks int
}

// runPipeline processes every user, a failing user does not stop the others.
func runPipeline(ctx context.Context, service pipelineService, users []string, params pipelineParams) error {
	var errs error
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := runForUser(ctx, service, userID, params); err != nil {
			log.Errorf("user %s: %s", userID, err)
			errs = multierr.Append(errs, fmt.Errorf("user %s: %w", userID, err))
		}
	}
	return errs
}

func runForUser(ctx context.Context, service pipelineService, userID string, params pipelineParams) error {
	syncResult, err := service.SyncExerciseHistory(ctx, userID, params.lookbackDays)
	if err != nil {
		return fmt.Errorf("sync history: %w", err)
	}

	plateaus, err := service.DetectPlateaus(ctx, userID, params.plateauWeeks)
	if err != nil {
		return fmt.Errorf("detect plateaus: %w", err)
	}

	recommendations, err := service.GenerateRecommendations(ctx, userID)
	if err != nil {
		return fmt.Errorf("generate recommendations: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":         userID,
		"synced":          syncResult.Synced,
		"plateaus":        len(plateaus.Plateaus),
		"recommendations": len(recommendations.Recommendations),
	}).Info("progression pipeline done")
	return nil
}

// newScheduler registers job under the given cron spec. The scheduler is not started.
func newScheduler(spec string, job func()) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return c, nil
}

func main() {
	var users userList
	flag.Var(&users, "user", "user id to process, repeatable or comma separated")
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	lookbackDays := flag.Int("lookback-days", progression.DefaultSyncLookbackDays, "history sync lookback in days")
	plateauWeeks := flag.Int("plateau-weeks", progression.DefaultPlateauWeeks, "plateau detection window in weeks")
	timeout := flag.Duration("timeout", 10*time.Minute, "timeout of a single pipeline run")
	schedule := flag.String("schedule", "", `cron spec, e.g. "@daily" or "0 0 3 * * *"; runs once when empty`)
	flag.Parse()

	if len(users) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        secrets.SentryDSN,
		SentryServerName: "progression-batch",
	})

	dbPool, err := db.Connect(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("store unreachable: %s", err)
	}
	defer dbPool.Close()

	metricsManager := metrics.NewManager("progression", "batch", nil)
	service := progression.NewService(progression.NewRepo(dbPool, metricsManager), metricsManager)
	params := pipelineParams{
		lookbackDays: *lookbackDays,
		plateauWeeks: *plateauWeeks,
	}

	run := func() error {
		runCtx, runCancel := context.WithTimeout(context.Background(), *timeout)
		defer runCancel()
		err := runPipeline(runCtx, service, users, params)
		if err != nil {
			log.Errorf("%d of %d users failed", len(multierr.Errors(err)), len(users))
			return err
		}
		log.Infof("processed %d users", len(users))
		return nil
	}

	if *schedule == "" {
		if err := run(); err != nil {
			dbPool.Close()
			os.Exit(1)
		}
		return
	}

	scheduler, err := newScheduler(*schedule, func() {
		_ = run()
	})
	if err != nil {
		log.Fatal(err)
	}
	scheduler.Start()
	log.Infof("pipeline scheduled: %s", *schedule)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-signalChan
	log.Debugf("signal [%s] received, stopping scheduler", receivedSig)
	scheduler.Stop()
}
