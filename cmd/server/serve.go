package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/prepdash/internal/api"
	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/db"
	"github.com/vytor/prepdash/internal/event"
	"github.com/vytor/prepdash/internal/jobs"
	"github.com/vytor/prepdash/internal/repository/sqlite"
	"github.com/vytor/prepdash/internal/services"
	"github.com/vytor/prepdash/internal/worker"
)

func newServeCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			log.Info("===========================================")
			log.Info("PrepDash Server Starting")
			log.Info("===========================================")
			log.Debug("addr=%s", cfg.Addr)
			log.Debug("db_path=%s", cfg.DBPath)
			log.Debug("log_level=%s", cfg.LogLevel)
			log.Debug("question_count=%d", cfg.QuestionCount)
			log.Debug("assessment_duration_seconds=%d", cfg.AssessmentDurationSeconds)
			log.Debug("publish_worker_count=%d", cfg.PublishWorkerCount)
			log.Debug("publish_queue_size=%d", cfg.PublishQueueSize)
			log.Debug("publish_max_attempts=%d", cfg.PublishMaxAttempts)
			log.Debug("amqp_enabled=%t", cfg.AMQPURL != "")

			// Open database
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				log.Error("failed to open database: %v", err)
				return err
			}
			defer func() {
				log.Debug("closing database connection")
				database.Close()
			}()

			questionRepo := sqlite.NewQuestionRepository(database.DB)
			resultRepo := sqlite.NewResultRepository(database.DB)

			// Results always land in sqlite; the broker is optional.
			var sink assessment.ResultSink = resultRepo
			var events services.EventEmitter
			if cfg.AMQPURL != "" {
				publisher, err := event.Dial(cfg.AMQPURL, cfg.AMQPExchange)
				if err != nil {
					log.Error("failed to connect to message broker: %v", err)
					return err
				}
				defer func() {
					log.Debug("closing message broker connection")
					publisher.Close()
				}()
				sink = services.NewFanoutSink(resultRepo, publisher)
				events = publisher
				log.Info("publishing events to exchange %s", cfg.AMQPExchange)
			}

			// Initialize worker pool
			publishPool := worker.NewPool(cfg.PublishWorkerCount, cfg.PublishQueueSize)
			policy := assessment.DefaultRetryPolicy()
			policy.MaxAttempts = cfg.PublishMaxAttempts
			queue := jobs.NewWorkerQueue(publishPool, sink, policy)

			// Initialize services
			assessmentService := services.NewAssessmentService(
				assessment.NewSelector(questionRepo),
				queue,
				resultRepo,
				assessment.Config{
					QuestionCount:   cfg.QuestionCount,
					DurationSeconds: cfg.AssessmentDurationSeconds,
					TickInterval:    time.Second,
				},
			)
			questionService := services.NewQuestionService(questionRepo, events)

			srv := &api.Server{
				AssessmentService: assessmentService,
				QuestionService:   questionService,
				DB:                database,
				PublishPool:       publishPool,
				CORSOrigins:       cfg.CORSOrigins,
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			publishPool.Start(ctx)

			// Configure HTTP server. WriteTimeout stays zero so assessment
			// streams can outlive it; plain routes carry their own timeout.
			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info("HTTP server listening on %s", cfg.Addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverErr <- err
				}
			}()

			// Wait for shutdown signal
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-stop:
				log.Info("received signal %v, initiating graceful shutdown", sig)
			case err := <-serverErr:
				log.Error("HTTP server error: %v", err)
				return err
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			log.Debug("shutting down HTTP server")
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error: %v", err)
			}

			log.Debug("stopping assessment countdowns")
			assessmentService.Close()

			// Let queued results reach the sink before the database closes.
			log.Debug("draining publish pool: pending=%d", queue.Pending())
			if err := publishPool.Stop(shutdownCtx); err != nil {
				log.Error("publish pool did not drain: %v", err)
			}

			log.Info("===========================================")
			log.Info("PrepDash Server Stopped")
			log.Info("===========================================")
			return nil
		},
	}
}
