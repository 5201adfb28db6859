package relaysync

import (
	"context"
	"time"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/worker"
	"go.uber.org/zap"
)

const (
	resubscribeBaseDelay = time.Second
	resubscribeMaxDelay  = time.Minute
)

// sinceOverlap - запас на расхождение часов релеев
const sinceOverlap = 5 * time.Minute

// RelaySyncWorker подписывается на места на релеях и складывает
// события в stream:place:events для индексации
type RelaySyncWorker struct {
	*worker.BaseWorker
	source     repository.PlaceSource
	streamRepo repository.StreamRepository
	lookback   time.Duration
	now        func() time.Time
}

// NewRelaySyncWorker создает новый RelaySyncWorker. lookback - насколько
// старые события запрашивать при первой подписке.
func NewRelaySyncWorker(
	source repository.PlaceSource,
	streamRepo repository.StreamRepository,
	lookback time.Duration,
	logger *zap.Logger,
) *RelaySyncWorker {
	return &RelaySyncWorker{
		BaseWorker: worker.NewBaseWorker("relay-sync", logger),
		source:     source,
		streamRepo: streamRepo,
		lookback:   lookback,
		now:        time.Now,
	}
}

// Start подписывается и переподписывается при обрыве, пока воркер не остановлен
func (w *RelaySyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	since := w.now().Add(-w.lookback)
	logger.Info("Starting RelaySyncWorker", zap.Time("since", since))

	for attempt := 0; ; {
		if w.IsStopped() {
			logger.Info("Worker stopped")
			return nil
		}

		events, err := w.source.SubscribePlaces(ctx, since)
		if err != nil {
			if ctx.Err() != nil {
				return w.exitErr(ctx)
			}
			delay := worker.Backoff(resubscribeBaseDelay, resubscribeMaxDelay, attempt)
			logger.Warn("Failed to subscribe to relays, retrying",
				zap.Duration("delay", delay),
				zap.Error(err))
			attempt++
			if !w.Sleep(ctx, delay) {
				return w.exitErr(ctx)
			}
			continue
		}

		latest, forwarded := w.forward(ctx, events)
		if forwarded > 0 {
			attempt = 0
		}
		if latest > 0 {
			// следующая подписка продолжает с последнего события
			since = time.Unix(latest, 0).Add(-sinceOverlap)
		}

		if ctx.Err() != nil {
			return w.exitErr(ctx)
		}

		delay := worker.Backoff(resubscribeBaseDelay, resubscribeMaxDelay, attempt)
		logger.Info("Relay subscriptions closed, resubscribing",
			zap.Int("forwarded", forwarded),
			zap.Time("since", since),
			zap.Duration("delay", delay))
		attempt++
		if !w.Sleep(ctx, delay) {
			return w.exitErr(ctx)
		}
	}
}

// forward перекладывает события в стрим, пока канал открыт.
// Возвращает created_at самого нового события и число переданных.
func (w *RelaySyncWorker) forward(ctx context.Context, events <-chan domain.PlaceEvent) (int64, int) {
	var latest int64
	forwarded := 0

	for event := range events {
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamPlaceEvents, &event); err != nil {
			w.Logger().Error("Failed to enqueue place event",
				zap.String("event_id", event.ID),
				zap.Error(err))
			continue
		}
		forwarded++
		if event.CreatedAt > latest {
			latest = event.CreatedAt
		}
	}
	return latest, forwarded
}

// exitErr - nil при остановке через Stop, иначе ошибка родительского ctx
func (w *RelaySyncWorker) exitErr(ctx context.Context) error {
	if w.IsStopped() {
		w.Logger().Info("Worker stopped")
		return nil
	}
	return ctx.Err()
}
