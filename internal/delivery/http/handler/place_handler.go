package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/places-service/internal/pkg/errors"
	"github.com/places-service/internal/pkg/utils"
	"github.com/places-service/internal/pkg/validator"
	"github.com/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// HeaderNostrPubkey - pubkey пользователя, открывшего форму правки
const HeaderNostrPubkey = "X-Nostr-Pubkey"

// PlaceService - операции над местами, которые нужны HTTP слою
type PlaceService interface {
	ListPlaces(ctx context.Context, req dto.ListPlacesRequest) (*dto.PlaceListResponse, error)
	SearchByRadius(ctx context.Context, req dto.RadiusPlacesRequest) (*dto.PlaceListResponse, error)
	GetPlace(ctx context.Context, token string) (*dto.PlaceView, error)
	EditDraft(ctx context.Context, token, requester string) (*dto.DraftResponse, error)
	PreparePayload(ctx context.Context, req dto.PreparePlaceRequest) (*dto.PreparePayloadResponse, error)
	Publish(ctx context.Context, req dto.PublishPlaceRequest) (*dto.PublishPlaceResponse, error)
	GetProfile(ctx context.Context, pubkey string) (*dto.ProfileResponse, error)
	PlaceTypes() *dto.PlaceTypesResponse
}

// PlaceHandler - обработчик запросов к местам
type PlaceHandler struct {
	placeUC PlaceService
	logger  *zap.Logger
}

// NewPlaceHandler - создание нового PlaceHandler
func NewPlaceHandler(placeUC PlaceService, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		placeUC: placeUC,
		logger:  logger,
	}
}

// ListPlaces godoc
// @Summary Список мест
// @Description Места из локального индекса с фильтрами по geohash, авторам и типам
// @Tags places
// @Produce json
// @Param geohash query string false "Префикс geohash"
// @Param authors query string false "Pubkey авторов через запятую"
// @Param types query string false "Типы мест через запятую"
// @Param open_now query bool false "Только открытые сейчас"
// @Param limit query int false "Максимальное количество результатов" default(100)
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/places [get]
func (h *PlaceHandler) ListPlaces(c *fiber.Ctx) error {
	req := dto.ListPlacesRequest{
		Geohash: strings.ToLower(c.Query("geohash")),
		Authors: splitList(c.Query("authors")),
		Types:   splitList(c.Query("types")),
		OpenNow: c.QueryBool("open_now", false),
		Limit:   c.QueryInt("limit", 0),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	result, err := h.placeUC.ListPlaces(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
		Limit: req.Limit,
	})
}

// SearchByRadius godoc
// @Summary Поиск мест в радиусе
// @Tags places
// @Accept json
// @Produce json
// @Param request body dto.RadiusPlacesRequest true "Центр и радиус"
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/radius/places [post]
func (h *PlaceHandler) SearchByRadius(c *fiber.Ctx) error {
	var req dto.RadiusPlacesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	result, err := h.placeUC.SearchByRadius(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// GetPlace godoc
// @Summary Место по naddr
// @Tags places
// @Produce json
// @Param naddr path string true "NIP-19 naddr места"
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceView}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/places/{naddr} [get]
func (h *PlaceHandler) GetPlace(c *fiber.Ctx) error {
	result, err := h.placeUC.GetPlace(c.UserContext(), c.Params("naddr"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// EditDraft godoc
// @Summary Черновик для редактирования места
// @Description Поля формы и теги черновика. editable=true, если запросил владелец.
// @Tags places
// @Produce json
// @Param naddr path string true "NIP-19 naddr места"
// @Param pubkey query string false "Pubkey пользователя (или заголовок X-Nostr-Pubkey)"
// @Success 200 {object} utils.SuccessResponse{data=dto.DraftResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/places/{naddr}/draft [get]
func (h *PlaceHandler) EditDraft(c *fiber.Ctx) error {
	requester := c.Query("pubkey")
	if requester == "" {
		requester = c.Get(HeaderNostrPubkey)
	}
	requester = strings.ToLower(strings.TrimSpace(requester))

	result, err := h.placeUC.EditDraft(c.UserContext(), c.Params("naddr"), requester)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Warnings: result.Warnings,
	})
}

// PreparePayload godoc
// @Summary Неподписанный payload места
// @Description Собирает событие для подписи ключом владельца на клиенте
// @Tags places
// @Accept json
// @Produce json
// @Param request body dto.PreparePlaceRequest true "Владелец и поля формы"
// @Success 200 {object} utils.SuccessResponse{data=dto.PreparePayloadResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/places/payload [post]
func (h *PlaceHandler) PreparePayload(c *fiber.Ctx) error {
	var req dto.PreparePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	req.Owner = strings.ToLower(req.Owner)

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	result, err := h.placeUC.PreparePayload(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Publish godoc
// @Summary Публикация места
// @Description Подписывает место ключом сервиса и отправляет на релеи
// @Tags places
// @Accept json
// @Produce json
// @Param request body dto.PublishPlaceRequest true "Поля формы"
// @Success 201 {object} utils.SuccessResponse{data=dto.PublishPlaceResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/places [post]
func (h *PlaceHandler) Publish(c *fiber.Ctx) error {
	var req dto.PublishPlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	result, err := h.placeUC.Publish(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, result, nil)
}

// GetProfile godoc
// @Summary Профиль владельца места
// @Tags profiles
// @Produce json
// @Param pubkey path string true "Pubkey в hex"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProfileResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/profiles/{pubkey} [get]
func (h *PlaceHandler) GetProfile(c *fiber.Ctx) error {
	result, err := h.placeUC.GetProfile(c.UserContext(), strings.ToLower(c.Params("pubkey")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// PlaceTypes godoc
// @Summary Каталог типов мест
// @Tags places
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceTypesResponse}
// @Router /api/v1/place-types [get]
func (h *PlaceHandler) PlaceTypes(c *fiber.Ctx) error {
	result := h.placeUC.PlaceTypes()
	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Groups),
	})
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
