package usecase

import (
	"context"
	stderrors "errors"

	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// IngestUseCase - индексация событий мест, пришедших с релеев
type IngestUseCase struct {
	placeRepo repository.PlaceRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
}

func NewIngestUseCase(
	placeRepo repository.PlaceRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		placeRepo: placeRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// Ingest разбирает событие и записывает место в индекс.
// Ошибки: INVALID_INPUT для событий, которые не являются местом,
// DATABASE_ERROR при сбое индекса.
func (uc *IngestUseCase) Ingest(ctx context.Context, event domain.PlaceEvent) (*dto.IngestResult, error) {
	place, err := event.ToPlace()
	if err != nil {
		return nil, errors.ErrInvalidInput.
			WithMessage("event %s is not a valid place", event.ID).
			WithCause(err)
	}

	stored, err := uc.placeRepo.Upsert(ctx, place)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	result := &dto.IngestResult{
		Coordinate: place.Coordinate(),
		EventID:    place.ID,
		Stored:     stored,
	}
	if !stored {
		return result, nil
	}

	if err := uc.cacheRepo.DeletePlace(ctx, result.Coordinate); err != nil {
		uc.logger.Warn("Failed to invalidate place cache",
			zap.String("coordinate", result.Coordinate),
			zap.Error(err),
		)
	}

	result.Indexed = &domain.PlaceIndexedEvent{
		Coordinate: result.Coordinate,
		EventID:    place.ID,
		PubKey:     place.PubKey,
		Name:       place.Name(),
		Geohash:    place.Geohash(),
		CreatedAt:  place.CreatedAt,
	}
	return result, nil
}

// IngestBatch индексирует пачку событий. Невалидные события
// пропускаются, ошибки хранилища попадают в Failed.
func (uc *IngestUseCase) IngestBatch(ctx context.Context, events []domain.PlaceEvent) (*dto.IngestBatchResult, error) {
	batch := &dto.IngestBatchResult{}

	for i := range events {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		result, err := uc.Ingest(ctx, events[i])
		switch {
		case err == nil:
		case stderrors.Is(err, errors.ErrInvalidInput):
			uc.logger.Debug("Skipping invalid place event", zap.String("event_id", events[i].ID), zap.Error(err))
			batch.Skipped++
			continue
		default:
			uc.logger.Error("Failed to index place event", zap.String("event_id", events[i].ID), zap.Error(err))
			batch.Failed = append(batch.Failed, i)
			continue
		}

		if !result.Stored {
			batch.Unchanged++
			continue
		}
		batch.Stored++
		batch.Indexed = append(batch.Indexed, *result.Indexed)
	}

	uc.logger.Info("Place batch indexed",
		zap.Int("received", len(events)),
		zap.Int("stored", batch.Stored),
		zap.Int("unchanged", batch.Unchanged),
		zap.Int("skipped", batch.Skipped),
		zap.Int("failed", len(batch.Failed)),
	)
	return batch, nil
}
