// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued through asynq.Client
//   - an asynq.Server runs workers that process them
package job

import (
	"errors"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// ErrQueueUnavailable is returned when work is submitted without a queue.
var ErrQueueUnavailable = errors.New("job queue unavailable")

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	reports *ReportHandler
}

// NewJobService builds the client and worker server on the configured
// Redis. Queue weights give "critical" tasks the larger share of the ten
// workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	if j.reports != nil {
		mux.HandleFunc(TaskInvoiceReport, j.reports.ProcessTask)
	}
	return mux
}

// Start starts the worker server in the background.
func (j *JobService) Start() error {
	if j.reports == nil {
		return errors.New("job handlers not initialized")
	}

	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(j.Mux())
}

// Stop stops the workers, waiting for in-flight tasks, and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}
