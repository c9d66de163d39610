package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/prospect-discovery/internal/domain"
	"github.com/prospect-discovery/internal/domain/repository"
	"github.com/prospect-discovery/internal/worker"
)

const emptyQueueSleep = 100 * time.Millisecond

// JobExecutor runs one queued discovery job to completion.
type JobExecutor interface {
	ExecuteDiscoveryJob(ctx context.Context, event *domain.DiscoveryJobEvent) (*domain.DiscoveryResult, error)
}

// DiscoveryWorker consumes queued discovery jobs from the job stream,
// executes them, and publishes completion events.
type DiscoveryWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	executor     JobExecutor
	consumerName string
	maxBatchSize int
	maxRetries   int
}

// NewDiscoveryWorker creates a new DiscoveryWorker. maxRetries bounds the
// attempts per job before its failure is published.
func NewDiscoveryWorker(
	streamRepo repository.StreamRepository,
	executor JobExecutor,
	consumerGroup string,
	maxBatchSize int,
	maxRetries int,
	logger *zap.Logger,
) *DiscoveryWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if maxBatchSize < 1 {
		maxBatchSize = 1
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &DiscoveryWorker{
		BaseWorker:   worker.NewBaseWorker("prospect-discovery", consumerGroup, logger),
		streamRepo:   streamRepo,
		executor:     executor,
		consumerName: consumerName,
		maxBatchSize: maxBatchSize,
		maxRetries:   maxRetries,
	}
}

// Start runs the consume loop until stopped.
func (w *DiscoveryWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting DiscoveryWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", w.maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamDiscoveryJobs, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch reads up to maxBatchSize jobs and executes them in order.
// Returns the number of messages consumed.
func (w *DiscoveryWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamDiscoveryJobs,
		w.ConsumerGroup(),
		w.consumerName,
		w.maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	for _, msg := range messages {
		event, err := w.parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK malformed payloads so they do not clog the stream
			_ = w.streamRepo.AckMessage(ctx, domain.StreamDiscoveryJobs, w.ConsumerGroup(), msg.ID)
			continue
		}

		w.processJob(ctx, event)

		if err := w.streamRepo.AckMessage(ctx, domain.StreamDiscoveryJobs, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
		}
	}

	return len(messages), nil
}

// processJob executes one job, retrying up to maxRetries attempts, and
// publishes the completion event. Job failures are recorded in the event,
// they never abort the worker loop.
func (w *DiscoveryWorker) processJob(ctx context.Context, event *domain.DiscoveryJobEvent) {
	logger := w.Logger()

	done := domain.DiscoveryDoneEvent{JobID: event.JobID}

	var result *domain.DiscoveryResult
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		result, err = w.executor.ExecuteDiscoveryJob(ctx, event)
		if err == nil || ctx.Err() != nil {
			break
		}
		logger.Warn("Discovery job attempt failed",
			zap.String("job_id", event.JobID.String()),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", w.maxRetries),
			zap.Error(err))
	}

	if err != nil {
		logger.Warn("Discovery job failed",
			zap.String("job_id", event.JobID.String()),
			zap.Error(err))
		done.Error = err.Error()
	} else {
		done.ResultsCount = len(result.Businesses)
		logger.Info("Discovery job finished",
			zap.String("job_id", event.JobID.String()),
			zap.Int("results_count", done.ResultsCount))
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamDiscoveryDone, done); err != nil {
		logger.Error("Failed to publish completion event",
			zap.String("job_id", event.JobID.String()),
			zap.Error(err))
	}
}

func (w *DiscoveryWorker) parseMessage(msg domain.StreamMessage) (*domain.DiscoveryJobEvent, error) {
	var event domain.DiscoveryJobEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("invalid job payload: %w", err)
	}
	if !event.HasSearchTerms() {
		return nil, fmt.Errorf("job %s has no usable search terms", event.JobID)
	}
	return &event, nil
}
