package usecase

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/places-service/internal/domain"
	"github.com/places-service/internal/domain/repository"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/pkg/naddr"
	"github.com/places-service/internal/pkg/utils"
	"github.com/places-service/internal/pkg/validator"
	"github.com/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	defaultPlaceLimit   = 100
	maxRadiusCandidates = 2000

	malformedAddressWarning = "The address link of this place is malformed. A new address was derived from its owner and name, publishing may create a separate record."
)

// PlaceUseCaseConfig - параметры юзкейса мест
type PlaceUseCaseConfig struct {
	PlaceCacheTTL    time.Duration
	ProfileCacheTTL  time.Duration
	GeohashPrecision uint
	RelayHints       []string
}

type PlaceUseCase struct {
	source     repository.PlaceSource
	publisher  repository.PlacePublisher
	placeRepo  repository.PlaceRepository
	cacheRepo  repository.CacheRepository
	streamRepo repository.StreamRepository
	builder    *DraftBuilder
	cfg        PlaceUseCaseConfig
	logger     *zap.Logger
	now        func() time.Time
}

func NewPlaceUseCase(
	source repository.PlaceSource,
	publisher repository.PlacePublisher,
	placeRepo repository.PlaceRepository,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	cfg PlaceUseCaseConfig,
	logger *zap.Logger,
) *PlaceUseCase {
	return &PlaceUseCase{
		source:     source,
		publisher:  publisher,
		placeRepo:  placeRepo,
		cacheRepo:  cacheRepo,
		streamRepo: streamRepo,
		builder:    NewDraftBuilder(cfg.RelayHints),
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock подменяет часы (open_now, published_at)
func (uc *PlaceUseCase) WithClock(now func() time.Time) *PlaceUseCase {
	uc.now = now
	return uc
}

func (uc *PlaceUseCase) ListPlaces(
	ctx context.Context,
	req dto.ListPlacesRequest,
) (*dto.PlaceListResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultPlaceLimit
	}

	places, err := uc.placeRepo.Search(ctx, repository.PlaceQuery{
		GeohashPrefix: req.Geohash,
		Authors:       req.Authors,
		Types:         req.Types,
		Limit:         req.Limit,
	})
	if err != nil {
		uc.logger.Error("Failed to search places", zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	now := uc.now()
	result := make([]dto.PlaceView, 0, len(places))
	for _, place := range places {
		view := uc.toView(place, now)
		if req.OpenNow && !isOpen(view) {
			continue
		}
		result = append(result, view)
	}

	return &dto.PlaceListResponse{
		Places: result,
		Total:  len(result),
	}, nil
}

func (uc *PlaceUseCase) SearchByRadius(
	ctx context.Context,
	req dto.RadiusPlacesRequest,
) (*dto.PlaceListResponse, error) {
	// Validate coordinates
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	// Validate radius
	if !utils.ValidateRadius(req.RadiusKm) {
		return nil, errors.ErrInvalidRadius
	}

	if req.Limit == 0 {
		req.Limit = defaultPlaceLimit
	}

	bbox := utils.BoundingBoxForRadius(req.Lat, req.Lon, req.RadiusKm)
	places, err := uc.placeRepo.Search(ctx, repository.PlaceQuery{
		Types: req.Types,
		BBox:  &bbox,
		Limit: maxRadiusCandidates,
	})
	if err != nil {
		uc.logger.Error("Failed to search places by radius", zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	now := uc.now()
	result := make([]dto.PlaceView, 0, len(places))
	for _, place := range places {
		lat, lon, ok := utils.PlaceLatLon(place)
		if !ok {
			continue
		}
		distanceKm := utils.HaversineDistance(req.Lat, req.Lon, lat, lon)
		if distanceKm > req.RadiusKm {
			continue
		}

		view := uc.toView(place, now)
		if req.OpenNow && !isOpen(view) {
			continue
		}
		distance := distanceKm * 1000 // to meters
		view.Distance = &distance
		result = append(result, view)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].Distance < *result[j].Distance
	})

	// Apply limit
	if len(result) > req.Limit {
		result = result[:req.Limit]
	}

	return &dto.PlaceListResponse{
		Places: result,
		Total:  len(result),
	}, nil
}

// GetPlace находит место по naddr: кеш -> индекс -> релеи
func (uc *PlaceUseCase) GetPlace(ctx context.Context, token string) (*dto.PlaceView, error) {
	pointer, err := naddr.Decode(token)
	if err != nil {
		return nil, err
	}

	place, err := uc.loadPlace(ctx, pointer)
	if err != nil {
		return nil, err
	}

	view := uc.toView(place, uc.now())
	return &view, nil
}

// EditDraft готовит черновик для редактирования места.
// Битый alt не блокирует правку: адрес выводится заново и в ответ
// добавляется предупреждение.
func (uc *PlaceUseCase) EditDraft(
	ctx context.Context,
	token string,
	requester string,
) (*dto.DraftResponse, error) {
	pointer, err := naddr.Decode(token)
	if err != nil {
		return nil, err
	}

	place, err := uc.loadPlace(ctx, pointer)
	if err != nil {
		return nil, err
	}

	var warnings []string
	draft, err := uc.builder.ToDraft(place)
	if stderrors.Is(err, errors.ErrMalformedAddress) {
		uc.logger.Warn("Place has malformed address link",
			zap.String("coordinate", place.Coordinate()),
			zap.Error(err),
		)
		warnings = append(warnings, malformedAddressWarning)
		draft, err = uc.builder.NewDraft(place.PubKey, FieldsFromPlace(place))
	}
	if err != nil {
		return nil, err
	}

	address, err := naddr.Extract(draft.Tags.Value(domain.TagAlt))
	if err != nil {
		return nil, err
	}

	return &dto.DraftResponse{
		Draft:    draft,
		Fields:   draft.Fields(),
		Address:  address,
		Editable: requester != "" && requester == place.PubKey,
		Warnings: warnings,
	}, nil
}

// PreparePayload собирает неподписанный payload для владельца owner
func (uc *PlaceUseCase) PreparePayload(
	ctx context.Context,
	req dto.PreparePlaceRequest,
) (*dto.PreparePayloadResponse, error) {
	payload, err := uc.buildPayload(req.Owner, req.Place)
	if err != nil {
		return nil, err
	}

	content, err := payload.ContentJSON()
	if err != nil {
		return nil, errors.ErrInternalServer.WithCause(err)
	}

	address, err := naddr.Extract(payload.Tags.Value(domain.TagAlt))
	if err != nil {
		return nil, err
	}

	return &dto.PreparePayloadResponse{
		Payload: payload,
		Content: content,
		Address: address,
	}, nil
}

// Publish подписывает место ключом сервиса и рассылает на релеи.
// Индекс обновляется сразу, не дожидаясь синхронизации с релеями.
func (uc *PlaceUseCase) Publish(
	ctx context.Context,
	req dto.PublishPlaceRequest,
) (*dto.PublishPlaceResponse, error) {
	owner := uc.publisher.PublicKey()

	payload, err := uc.buildPayload(owner, req.Place)
	if err != nil {
		return nil, err
	}

	address, err := naddr.Extract(payload.Tags.Value(domain.TagAlt))
	if err != nil {
		return nil, err
	}

	result, err := uc.publisher.Publish(ctx, payload)
	if err != nil {
		uc.logger.Error("Failed to publish place",
			zap.String("name", payload.Name()),
			zap.Error(err),
		)
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.ErrRelayError.WithCause(err)
	}

	response := &dto.PublishPlaceResponse{
		RequestID:   uuid.New(),
		EventID:     result.Event.ID,
		Address:     address,
		RenamedFrom: uc.renamedFrom(req.PreviousAddress, owner, payload.Name()),
		Accepted:    result.Accepted,
		Failed:      result.Failed,
	}

	place, err := result.Event.ToPlace()
	if err != nil {
		uc.logger.Error("Published event is not a valid place", zap.String("event_id", result.Event.ID), zap.Error(err))
	} else {
		view := uc.toView(place, uc.now())
		response.Place = &view
		response.Indexed = uc.indexPublished(ctx, place)
	}

	uc.emitPublished(ctx, response, owner, payload.Name())
	return response, nil
}

// GetProfile получает профиль владельца: кеш -> релеи
func (uc *PlaceUseCase) GetProfile(ctx context.Context, pubkey string) (*dto.ProfileResponse, error) {
	if !validator.IsHexKey(pubkey) {
		return nil, errors.ErrInvalidInput.WithMessage("pubkey must be 64 hex characters")
	}

	profile, err := uc.cacheRepo.GetProfile(ctx, pubkey)
	if err != nil {
		uc.logger.Warn("Failed to get profile from cache", zap.String("pubkey", pubkey), zap.Error(err))
	}

	if profile == nil {
		profile, err = uc.source.QueryProfile(ctx, pubkey)
		if err != nil {
			uc.logger.Error("Failed to query profile", zap.String("pubkey", pubkey), zap.Error(err))
			return nil, errors.ErrRelayError.WithCause(err)
		}
		if profile == nil {
			return nil, errors.ErrProfileNotFound
		}

		if err := uc.cacheRepo.SetProfile(ctx, profile, uc.cfg.ProfileCacheTTL); err != nil {
			uc.logger.Warn("Failed to cache profile", zap.String("pubkey", pubkey), zap.Error(err))
		}
	}

	return &dto.ProfileResponse{
		Profile:  profile,
		BestName: profile.BestName(),
		Color:    ownerColor(profile.PubKey),
	}, nil
}

// PlaceTypes - каталог типов мест и статусов
func (uc *PlaceUseCase) PlaceTypes() *dto.PlaceTypesResponse {
	return &dto.PlaceTypesResponse{
		Groups:   domain.PlaceTypeGroups,
		Statuses: domain.ValidPlaceStatuses(),
	}
}

func (uc *PlaceUseCase) buildPayload(owner string, form dto.PlaceForm) (*domain.PlacePayload, error) {
	fields := form.ToFields()

	if len(fields.Coordinates) >= 2 {
		lon, lat := fields.Coordinates[0], fields.Coordinates[1]
		if !utils.ValidateCoordinates(lat, lon) {
			return nil, errors.ErrInvalidCoordinates
		}
		// g приходит с клиента, если его нет - считаем по координатам
		if fields.Geohash == "" {
			fields.Geohash = utils.Geohash(lat, lon, uc.cfg.GeohashPrecision)
		}
	}

	return uc.builder.ToPublishPayload(owner, fields)
}

// loadPlace ищет место в кеше, затем в индексе, затем на релеях
func (uc *PlaceUseCase) loadPlace(ctx context.Context, pointer domain.AddressPointer) (*domain.Place, error) {
	coordinate := pointer.Coordinate()

	place, err := uc.cacheRepo.GetPlace(ctx, coordinate)
	if err != nil {
		uc.logger.Warn("Failed to get place from cache", zap.String("coordinate", coordinate), zap.Error(err))
	}
	if place != nil {
		return place, nil
	}

	place, err = uc.placeRepo.GetByAddress(ctx, pointer.PublicKey, pointer.Identifier)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrPlaceNotFound):
		place, err = uc.fetchFromRelays(ctx, pointer)
		if err != nil {
			return nil, err
		}
	default:
		uc.logger.Error("Failed to get place from index", zap.String("coordinate", coordinate), zap.Error(err))
		return nil, errors.ErrDatabaseError.WithCause(err)
	}

	if err := uc.cacheRepo.SetPlace(ctx, place, uc.cfg.PlaceCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache place", zap.String("coordinate", coordinate), zap.Error(err))
	}
	return place, nil
}

func (uc *PlaceUseCase) fetchFromRelays(ctx context.Context, pointer domain.AddressPointer) (*domain.Place, error) {
	events, err := uc.source.QueryPlaces(ctx, domain.PlaceFilter{
		Authors:     []string{pointer.PublicKey},
		Identifiers: []string{pointer.Identifier},
		Limit:       1,
	})
	if err != nil {
		uc.logger.Error("Failed to query place from relays", zap.String("coordinate", pointer.Coordinate()), zap.Error(err))
		return nil, errors.ErrRelayError.WithCause(err)
	}

	for i := range events {
		place, err := events[i].ToPlace()
		if err != nil {
			uc.logger.Debug("Skipping invalid place event", zap.String("event_id", events[i].ID), zap.Error(err))
			continue
		}

		if _, err := uc.placeRepo.Upsert(ctx, place); err != nil {
			uc.logger.Warn("Failed to index place fetched from relays", zap.String("coordinate", place.Coordinate()), zap.Error(err))
		}
		return place, nil
	}

	return nil, errors.ErrPlaceNotFound
}

func (uc *PlaceUseCase) indexPublished(ctx context.Context, place *domain.Place) bool {
	stored, err := uc.placeRepo.Upsert(ctx, place)
	if err != nil {
		uc.logger.Warn("Failed to index published place", zap.String("coordinate", place.Coordinate()), zap.Error(err))
		return false
	}

	if err := uc.cacheRepo.DeletePlace(ctx, place.Coordinate()); err != nil {
		uc.logger.Warn("Failed to invalidate place cache", zap.String("coordinate", place.Coordinate()), zap.Error(err))
	}
	return stored
}

// renamedFrom возвращает прежний naddr, если правка сменила идентификатор места
func (uc *PlaceUseCase) renamedFrom(previous, owner, name string) string {
	if previous == "" {
		return ""
	}

	pointer, err := naddr.Decode(previous)
	if err != nil {
		uc.logger.Debug("Ignoring malformed previous address", zap.String("naddr", previous), zap.Error(err))
		return ""
	}
	if pointer.PublicKey == owner && pointer.Identifier == name {
		return ""
	}
	return previous
}

func (uc *PlaceUseCase) emitPublished(ctx context.Context, resp *dto.PublishPlaceResponse, owner, name string) {
	failed := make([]string, 0, len(resp.Failed))
	for relay := range resp.Failed {
		failed = append(failed, relay)
	}
	sort.Strings(failed)

	event := domain.PlacePublishedEvent{
		RequestID:   resp.RequestID,
		EventID:     resp.EventID,
		Address:     resp.Address,
		PubKey:      owner,
		Name:        name,
		RenamedFrom: resp.RenamedFrom,
		Accepted:    resp.Accepted,
		Failed:      failed,
		PublishedAt: uc.now(),
	}

	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamPlacePublished, event); err != nil {
		uc.logger.Warn("Failed to publish place published event",
			zap.String("request_id", resp.RequestID.String()),
			zap.Error(err),
		)
	}
}

// toView - представление места для карты (цвет владельца, подписи, open_now)
func (uc *PlaceUseCase) toView(place *domain.Place, now time.Time) dto.PlaceView {
	view := dto.PlaceView{
		Coordinate: place.Coordinate(),
		EventID:    place.ID,
		PubKey:     place.PubKey,
		CreatedAt:  place.CreatedAt,
		Name:       place.Name(),
		Geohash:    place.Geohash(),
		Properties: place.Content.Properties,
		Color:      ownerColor(place.PubKey),
	}

	if lat, lon, ok := utils.PlaceLatLon(place); ok {
		view.Lat, view.Lon = lat, lon
	}

	if token, err := naddr.Derive(place.PubKey, place.Identifier(), uc.cfg.RelayHints); err == nil {
		view.Address = token
	}

	if placeType, ok := place.Property(domain.PropertyType); ok {
		view.TypeLabel = domain.TypeLabel(placeType)
	}
	if status, ok := place.Property(domain.PropertyStatus); ok {
		view.StatusLabel = domain.StatusLabel(status)
	}

	if hours, ok := place.Property(domain.PropertyHours); ok {
		open, err := utils.IsOpenAt(hours, now)
		if err == nil {
			view.OpenNow = &open
		}
	}

	return view
}

func isOpen(view dto.PlaceView) bool {
	return view.OpenNow != nil && *view.OpenNow
}

// ownerColor - цвет метки владельца: первые 6 hex-символов ключа
func ownerColor(pubkey string) string {
	if len(pubkey) < 6 {
		return "#" + pubkey
	}
	return "#" + pubkey[:6]
}
