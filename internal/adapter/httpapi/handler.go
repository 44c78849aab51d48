package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/usecase"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/go-playground/validator/v10"
)

type PropertyService interface {
	CreateProperty(ctx context.Context, actorID string, in usecase.PropertyInput) (*domain.Property, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error)
	UpdateProperty(ctx context.Context, id string, in usecase.PropertyInput) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id string) error
	CancelProperty(ctx context.Context, id string) (*domain.Property, error)
	SellProperty(ctx context.Context, id string) (*domain.Property, *domain.Invoice, error)
	ListInvoices(ctx context.Context, propertyID string) ([]*domain.Invoice, error)
	UploadPhoto(ctx context.Context, propertyID, fileName string, data []byte) (string, error)
}

type OfferService interface {
	CreateOffer(ctx context.Context, in usecase.OfferInput) (*domain.Offer, error)
	CreateOffers(ctx context.Context, inputs []usecase.OfferInput) ([]*domain.Offer, error)
	GetOffer(ctx context.Context, id string) (*usecase.OfferView, error)
	ListOffers(ctx context.Context, propertyID string) ([]*usecase.OfferView, error)
	UpdateOffer(ctx context.Context, id string, in usecase.OfferUpdate) (*domain.Offer, error)
	DeleteOffer(ctx context.Context, id string) error
	AcceptOffer(ctx context.Context, id string) (*domain.Offer, *domain.Property, error)
	RefuseOffer(ctx context.Context, id string) (*domain.Offer, error)
}

type TagService interface {
	CreateTag(ctx context.Context, in usecase.TagInput) (*domain.PropertyTag, error)
	GetTag(ctx context.Context, id string) (*domain.PropertyTag, error)
	ListTags(ctx context.Context, filter domain.TagFilter) ([]*domain.PropertyTag, error)
	UpdateTag(ctx context.Context, id string, in usecase.TagInput) (*domain.PropertyTag, error)
	DeleteTag(ctx context.Context, id string) error
}

type PropertyTypeService interface {
	CreatePropertyType(ctx context.Context, in usecase.PropertyTypeInput) (*domain.PropertyType, error)
	GetPropertyType(ctx context.Context, id string) (*domain.PropertyType, error)
	ListPropertyTypes(ctx context.Context) ([]*domain.PropertyType, error)
	UpdatePropertyType(ctx context.Context, id string, in usecase.PropertyTypeInput) (*domain.PropertyType, error)
	DeletePropertyType(ctx context.Context, id string) error
}

// Handler serves the estate JSON API.
type Handler struct {
	properties PropertyService
	offers     OfferService
	tags       TagService
	types      PropertyTypeService
	validate   *validator.Validate
	logger     *logger.Logger
}

func NewHandler(properties PropertyService, offers OfferService, tags TagService, types PropertyTypeService, log *logger.Logger) *Handler {
	return &Handler{
		properties: properties,
		offers:     offers,
		tags:       tags,
		types:      types,
		validate:   newValidator(),
		logger:     log.Named("HTTPHandler"),
	}
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
