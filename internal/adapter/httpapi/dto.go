package httpapi

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/usecase"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: date '%s' must be YYYY-MM-DD", domain.ErrInvalidInput, *s)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// --- Requests ---

type propertyRequest struct {
	Name              *string  `json:"name" validate:"omitempty,max=200"`
	Description       *string  `json:"description"`
	Postcode          *string  `json:"postcode" validate:"omitempty,max=20"`
	DateAvailability  *string  `json:"date_availability" validate:"omitempty,datetime=2006-01-02"`
	ExpectedPrice     *float64 `json:"expected_price"`
	SellingPrice      *float64 `json:"selling_price"`
	Bedrooms          *int     `json:"bedrooms" validate:"omitempty,min=0"`
	LivingArea        *int     `json:"living_area" validate:"omitempty,min=0"`
	Facades           *int     `json:"facades" validate:"omitempty,min=0"`
	Garage            *bool    `json:"garage"`
	Garden            *bool    `json:"garden"`
	GardenArea        *int     `json:"garden_area" validate:"omitempty,min=0"`
	GardenOrientation *string  `json:"garden_orientation" validate:"omitempty,oneof=north south east west"`
	PropertyTypeID    *string  `json:"property_type_id"`
	SalesmanID        *string  `json:"salesman_id"`
}

func (r propertyRequest) toInput() (usecase.PropertyInput, error) {
	date, err := parseDate(r.DateAvailability)
	if err != nil {
		return usecase.PropertyInput{}, err
	}
	return usecase.PropertyInput{
		Name:              r.Name,
		Description:       r.Description,
		Postcode:          r.Postcode,
		DateAvailability:  date,
		ExpectedPrice:     r.ExpectedPrice,
		SellingPrice:      r.SellingPrice,
		Bedrooms:          r.Bedrooms,
		LivingArea:        r.LivingArea,
		Facades:           r.Facades,
		Garage:            r.Garage,
		Garden:            r.Garden,
		GardenArea:        r.GardenArea,
		GardenOrientation: r.GardenOrientation,
		PropertyTypeID:    r.PropertyTypeID,
		SalesmanID:        r.SalesmanID,
	}, nil
}

type offerRequest struct {
	PartnerID string  `json:"partner_id" validate:"required"`
	Price     float64 `json:"price"`
	Validity  *int    `json:"validity" validate:"omitempty,min=0"`
	Deadline  *string `json:"date_deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (r offerRequest) toInput(propertyID string) (usecase.OfferInput, error) {
	deadline, err := parseDate(r.Deadline)
	if err != nil {
		return usecase.OfferInput{}, err
	}
	return usecase.OfferInput{
		PropertyID: propertyID,
		PartnerID:  r.PartnerID,
		Price:      r.Price,
		Validity:   r.Validity,
		Deadline:   deadline,
	}, nil
}

type offerBatchRequest struct {
	Offers []offerRequest `json:"offers" validate:"required,min=1,dive"`
}

type offerUpdateRequest struct {
	PartnerID *string  `json:"partner_id" validate:"omitempty,min=1"`
	Price     *float64 `json:"price"`
	Validity  *int     `json:"validity" validate:"omitempty,min=0"`
	Deadline  *string  `json:"date_deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (r offerUpdateRequest) toUpdate() (usecase.OfferUpdate, error) {
	deadline, err := parseDate(r.Deadline)
	if err != nil {
		return usecase.OfferUpdate{}, err
	}
	return usecase.OfferUpdate{
		PartnerID: r.PartnerID,
		Price:     r.Price,
		Validity:  r.Validity,
		Deadline:  deadline,
	}, nil
}

type tagRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	Color      *int    `json:"color"`
	Sequence   *int    `json:"sequence"`
	PropertyID *string `json:"property_id"`
}

func (r tagRequest) toInput() usecase.TagInput {
	return usecase.TagInput{Name: r.Name, Color: r.Color, Sequence: r.Sequence, PropertyID: r.PropertyID}
}

type propertyTypeRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Sequence *int    `json:"sequence"`
}

func (r propertyTypeRequest) toInput() usecase.PropertyTypeInput {
	return usecase.PropertyTypeInput{Name: r.Name, Sequence: r.Sequence}
}

// --- Responses ---

type tagResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      int    `json:"color"`
	Sequence   int    `json:"sequence"`
	PropertyID string `json:"property_id,omitempty"`
}

func newTagResponse(t *domain.PropertyTag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Sequence: t.Sequence, PropertyID: t.PropertyID}
}

type propertyResponse struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Postcode          string        `json:"postcode,omitempty"`
	DateAvailability  *string       `json:"date_availability,omitempty"`
	ExpectedPrice     float64       `json:"expected_price"`
	SellingPrice      float64       `json:"selling_price"`
	Bedrooms          int           `json:"bedrooms"`
	LivingArea        int           `json:"living_area"`
	Facades           int           `json:"facades"`
	Garage            bool          `json:"garage"`
	Garden            bool          `json:"garden"`
	GardenArea        int           `json:"garden_area"`
	GardenOrientation string        `json:"garden_orientation,omitempty"`
	TotalArea         int           `json:"total_area"`
	PropertyTypeID    string        `json:"property_type_id,omitempty"`
	SalesmanID        string        `json:"salesman_id"`
	BuyerID           string        `json:"buyer_id,omitempty"`
	BestOffer         float64       `json:"best_offer"`
	State             string        `json:"state"`
	Photos            []string      `json:"photos"`
	Tags              []tagResponse `json:"tags,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func newPropertyResponse(p *domain.Property) propertyResponse {
	resp := propertyResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Postcode:          p.Postcode,
		DateAvailability:  formatDate(p.DateAvailability),
		ExpectedPrice:     p.ExpectedPrice,
		SellingPrice:      p.SellingPrice,
		Bedrooms:          p.Bedrooms,
		LivingArea:        p.LivingArea,
		Facades:           p.Facades,
		Garage:            p.Garage,
		Garden:            p.Garden,
		GardenArea:        p.GardenArea,
		GardenOrientation: string(p.GardenOrientation),
		TotalArea:         p.TotalArea(),
		PropertyTypeID:    p.PropertyTypeID,
		SalesmanID:        p.SalesmanID,
		BuyerID:           p.BuyerID,
		BestOffer:         p.BestOffer,
		State:             string(p.State),
		Photos:            p.Photos,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, newTagResponse(t))
	}
	return resp
}

type propertyListResponse struct {
	Properties []propertyResponse `json:"properties"`
	Total      int64              `json:"total"`
	Page       int32              `json:"page"`
	Limit      int32              `json:"limit"`
}

type offerResponse struct {
	ID              string  `json:"id"`
	PropertyID      string  `json:"property_id"`
	PartnerID       string  `json:"partner_id"`
	PropertyTypeID  string  `json:"property_type_id,omitempty"`
	Price           float64 `json:"price"`
	Status          string  `json:"status,omitempty"`
	Validity        int     `json:"validity"`
	Deadline        *string `json:"date_deadline,omitempty"`
	IsOfferAccepted *bool   `json:"is_offer_accepted,omitempty"`
}

func newOfferResponse(o *domain.Offer) offerResponse {
	return offerResponse{
		ID:             o.ID,
		PropertyID:     o.PropertyID,
		PartnerID:      o.PartnerID,
		PropertyTypeID: o.PropertyTypeID,
		Price:          o.Price,
		Status:         string(o.Status),
		Validity:       o.Validity,
		Deadline:       formatDate(o.Deadline),
	}
}

func newOfferViewResponse(v *usecase.OfferView) offerResponse {
	resp := newOfferResponse(v.Offer)
	accepted := v.IsOfferAccepted
	resp.IsOfferAccepted = &accepted
	return resp
}

type acceptOfferResponse struct {
	Offer    offerResponse    `json:"offer"`
	Property propertyResponse `json:"property"`
}

type propertyTypeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Sequence   int    `json:"sequence"`
	OfferCount int64  `json:"offer_count"`
}

func newPropertyTypeResponse(t *domain.PropertyType) propertyTypeResponse {
	return propertyTypeResponse{ID: t.ID, Name: t.Name, Sequence: t.Sequence, OfferCount: t.OfferCount}
}

type invoiceLineResponse struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price_unit"`
}

type invoiceResponse struct {
	ID         string                `json:"id"`
	PropertyID string                `json:"property_id"`
	PartnerID  string                `json:"partner_id"`
	MoveType   string                `json:"move_type"`
	Lines      []invoiceLineResponse `json:"lines"`
	Total      float64               `json:"total"`
	CreatedAt  time.Time             `json:"created_at"`
}

func newInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:         inv.ID,
		PropertyID: inv.PropertyID,
		PartnerID:  inv.PartnerID,
		MoveType:   inv.MoveType,
		Total:      inv.Total(),
		CreatedAt:  inv.CreatedAt,
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, invoiceLineResponse{Name: l.Name, Quantity: l.Quantity, Price: l.Price})
	}
	return resp
}

type sellResponse struct {
	Property propertyResponse `json:"property"`
	Invoice  *invoiceResponse `json:"invoice,omitempty"`
}
