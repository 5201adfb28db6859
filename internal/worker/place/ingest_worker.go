package place

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/usecase/dto"
	"github.com/places-service/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 50                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
	retryBaseDelay  = 200 * time.Millisecond
	retryMaxDelay   = 5 * time.Second
)

// PlaceIngester - индексация пачки событий
type PlaceIngester interface {
	IngestBatch(ctx context.Context, events []domain.PlaceEvent) (*dto.IngestBatchResult, error)
}

// PlaceIngestWorker читает события мест из stream:place:events,
// пишет их в индекс и сообщает об изменениях в stream:place:indexed
type PlaceIngestWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	ingester      PlaceIngester
	consumerGroup string
	consumerName  string
	maxRetries    int

	// перечитать свой PEL перед новыми сообщениями
	recoverPending bool
}

// NewPlaceIngestWorker создает новый PlaceIngestWorker
func NewPlaceIngestWorker(
	streamRepo repository.StreamRepository,
	ingester PlaceIngester,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *PlaceIngestWorker {
	hostname, _ := os.Hostname()

	return &PlaceIngestWorker{
		BaseWorker:    worker.NewBaseWorker("place-ingest", logger),
		streamRepo:    streamRepo,
		ingester:      ingester,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxRetries:    maxRetries,

		recoverPending: true,
	}
}

// Start запускает воркер
func (w *PlaceIngestWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting PlaceIngestWorker",
		zap.String("consumer_group", w.consumerGroup),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamPlaceEvents, w.consumerGroup); err != nil {
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
		}

		processed, err := w.processBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Sleep(ctx, errorSleep)
			continue
		}
		if processed == 0 {
			w.Sleep(ctx, emptyQueueSleep)
		}
	}
}

// processBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *PlaceIngestWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.consume(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	events := make([]domain.PlaceEvent, 0, len(messages))
	messageIDs := make([]string, 0, len(messages))

	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			_ = w.streamRepo.AckMessage(ctx, domain.StreamPlaceEvents, w.consumerGroup, msg.ID)
			continue
		}
		events = append(events, event)
		messageIDs = append(messageIDs, msg.ID)
	}

	if len(events) == 0 {
		return len(messages), nil
	}

	indexed, dropped, err := w.ingest(ctx, events)
	if err != nil {
		// без ACK сообщения остаются в PEL
		w.recoverPending = true
		return 0, fmt.Errorf("ingest failed: %w", err)
	}

	for i := range indexed {
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamPlaceIndexed, &indexed[i]); err != nil {
			logger.Error("Failed to publish indexed event",
				zap.String("coordinate", indexed[i].Coordinate),
				zap.Error(err))
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamPlaceEvents, w.consumerGroup, messageIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("indexed", len(indexed)),
		zap.Int("dropped", len(dropped)))

	return len(messages), nil
}

// consume читает сначала неподтверждённые сообщения, затем новые
func (w *PlaceIngestWorker) consume(ctx context.Context) ([]domain.StreamMessage, error) {
	if w.recoverPending {
		messages, err := w.streamRepo.ConsumePending(ctx, domain.StreamPlaceEvents, w.consumerGroup, w.consumerName, maxBatchSize)
		if err != nil {
			return nil, err
		}
		if len(messages) > 0 {
			w.Logger().Info("Recovering pending messages", zap.Int("count", len(messages)))
			return messages, nil
		}
		w.recoverPending = false
	}
	return w.streamRepo.ConsumeBatch(ctx, domain.StreamPlaceEvents, w.consumerGroup, w.consumerName, maxBatchSize)
}

// ingest индексирует события, повторяя неудачные до maxRetries раз.
// dropped - события, которые так и не удалось записать.
func (w *PlaceIngestWorker) ingest(ctx context.Context, events []domain.PlaceEvent) ([]domain.PlaceIndexedEvent, []domain.PlaceEvent, error) {
	var indexed []domain.PlaceIndexedEvent
	pending := events

	for attempt := 0; ; attempt++ {
		result, err := w.ingester.IngestBatch(ctx, pending)
		if err != nil {
			return nil, nil, err
		}
		indexed = append(indexed, result.Indexed...)

		if len(result.Failed) == 0 {
			return indexed, nil, nil
		}

		failed := make([]domain.PlaceEvent, 0, len(result.Failed))
		for _, i := range result.Failed {
			failed = append(failed, pending[i])
		}
		pending = failed

		if attempt >= w.maxRetries {
			for _, event := range pending {
				w.Logger().Error("Dropping place event after retries",
					zap.String("event_id", event.ID),
					zap.Int("attempts", attempt+1))
			}
			return indexed, pending, nil
		}

		if !w.Sleep(ctx, worker.Backoff(retryBaseDelay, retryMaxDelay, attempt)) {
			return nil, nil, fmt.Errorf("stopped while retrying %d events", len(pending))
		}
	}
}

// parseMessage парсит сообщение из стрима в PlaceEvent
func parseMessage(msg domain.StreamMessage) (domain.PlaceEvent, error) {
	var event domain.PlaceEvent

	data, ok := msg.Data["data"].(string)
	if !ok {
		return event, fmt.Errorf("missing or invalid 'data' field")
	}
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.ID == "" {
		return event, fmt.Errorf("event without id")
	}
	return event, nil
}
