package mongodb

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Foreign keys are stored as hex strings, like listing_id in the listing
// service, so an unset reference is simply absent.
type propertyDocument struct {
	ID                primitive.ObjectID       `bson:"_id,omitempty"`
	Name              string                   `bson:"name"`
	Description       string                   `bson:"description,omitempty"`
	Postcode          string                   `bson:"postcode,omitempty"`
	DateAvailability  *time.Time               `bson:"date_availability,omitempty"`
	ExpectedPrice     float64                  `bson:"expected_price"`
	SellingPrice      float64                  `bson:"selling_price"`
	Bedrooms          int                      `bson:"bedrooms"`
	LivingArea        int                      `bson:"living_area"`
	Facades           int                      `bson:"facades"`
	Garage            bool                     `bson:"garage"`
	Garden            bool                     `bson:"garden"`
	GardenArea        int                      `bson:"garden_area"`
	GardenOrientation domain.GardenOrientation `bson:"garden_orientation,omitempty"`
	PropertyTypeID    string                   `bson:"property_type_id,omitempty"`
	SalesmanID        string                   `bson:"salesman_id"`
	BuyerID           string                   `bson:"buyer_id,omitempty"`
	BestOffer         float64                  `bson:"best_offer"`
	State             domain.PropertyState     `bson:"state"`
	Photos            []string                 `bson:"photos"`
	CreatedAt         time.Time                `bson:"created_at"`
	UpdatedAt         time.Time                `bson:"updated_at"`
}

type offerDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PropertyID     string             `bson:"property_id"`
	PartnerID      string             `bson:"partner_id"`
	PropertyTypeID string             `bson:"property_type_id,omitempty"`
	Price          float64            `bson:"price"`
	Status         domain.OfferStatus `bson:"status,omitempty"`
	Validity       int                `bson:"validity"`
	Deadline       *time.Time         `bson:"date_deadline,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

type tagDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Color      int                `bson:"color"`
	Sequence   int                `bson:"sequence"`
	PropertyID string             `bson:"property_id,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

type propertyTypeDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Sequence  int                `bson:"sequence"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type invoiceLineDocument struct {
	Name     string  `bson:"name"`
	Quantity float64 `bson:"quantity"`
	Price    float64 `bson:"price_unit"`
}

type invoiceDocument struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty"`
	PropertyID string                `bson:"property_id"`
	PartnerID  string                `bson:"partner_id"`
	MoveType   string                `bson:"move_type"`
	Lines      []invoiceLineDocument `bson:"lines"`
	CreatedAt  time.Time             `bson:"created_at"`
}

// objectID parses a domain ID. An empty ID maps to NilObjectID so the driver
// generates one on insert.
func objectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id format '%s'", domain.ErrInvalidInput, id)
	}
	return oid, nil
}

// lookupID parses an ID used to fetch a single record. Malformed IDs cannot
// match anything, so they are reported as not found.
func lookupID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: id '%s'", domain.ErrNotFound, id)
	}
	return oid, nil
}

// --- Property ---

func toPropertyDocument(p *domain.Property) (*propertyDocument, error) {
	docID, err := objectID(p.ID)
	if err != nil {
		return nil, fmt.Errorf("toPropertyDocument: %w", err)
	}
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return &propertyDocument{
		ID:                docID,
		Name:              p.Name,
		Description:       p.Description,
		Postcode:          p.Postcode,
		DateAvailability:  p.DateAvailability,
		ExpectedPrice:     p.ExpectedPrice,
		SellingPrice:      p.SellingPrice,
		Bedrooms:          p.Bedrooms,
		LivingArea:        p.LivingArea,
		Facades:           p.Facades,
		Garage:            p.Garage,
		Garden:            p.Garden,
		GardenArea:        p.GardenArea,
		GardenOrientation: p.GardenOrientation,
		PropertyTypeID:    p.PropertyTypeID,
		SalesmanID:        p.SalesmanID,
		BuyerID:           p.BuyerID,
		BestOffer:         p.BestOffer,
		State:             p.State,
		Photos:            photos,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}, nil
}

func toDomainProperty(d *propertyDocument) *domain.Property {
	photos := d.Photos
	if photos == nil {
		photos = []string{}
	}
	return &domain.Property{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Description:       d.Description,
		Postcode:          d.Postcode,
		DateAvailability:  d.DateAvailability,
		ExpectedPrice:     d.ExpectedPrice,
		SellingPrice:      d.SellingPrice,
		Bedrooms:          d.Bedrooms,
		LivingArea:        d.LivingArea,
		Facades:           d.Facades,
		Garage:            d.Garage,
		Garden:            d.Garden,
		GardenArea:        d.GardenArea,
		GardenOrientation: d.GardenOrientation,
		PropertyTypeID:    d.PropertyTypeID,
		SalesmanID:        d.SalesmanID,
		BuyerID:           d.BuyerID,
		BestOffer:         d.BestOffer,
		State:             d.State,
		Photos:            photos,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// --- Offer ---

func toOfferDocument(o *domain.Offer) (*offerDocument, error) {
	docID, err := objectID(o.ID)
	if err != nil {
		return nil, fmt.Errorf("toOfferDocument: %w", err)
	}
	return &offerDocument{
		ID:             docID,
		PropertyID:     o.PropertyID,
		PartnerID:      o.PartnerID,
		PropertyTypeID: o.PropertyTypeID,
		Price:          o.Price,
		Status:         o.Status,
		Validity:       o.Validity,
		Deadline:       o.Deadline,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

func toDomainOffer(d *offerDocument) *domain.Offer {
	return &domain.Offer{
		ID:             d.ID.Hex(),
		PropertyID:     d.PropertyID,
		PartnerID:      d.PartnerID,
		PropertyTypeID: d.PropertyTypeID,
		Price:          d.Price,
		Status:         d.Status,
		Validity:       d.Validity,
		Deadline:       d.Deadline,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// --- Tag ---

func toTagDocument(t *domain.PropertyTag) (*tagDocument, error) {
	docID, err := objectID(t.ID)
	if err != nil {
		return nil, fmt.Errorf("toTagDocument: %w", err)
	}
	return &tagDocument{
		ID:         docID,
		Name:       t.Name,
		Color:      t.Color,
		Sequence:   t.Sequence,
		PropertyID: t.PropertyID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}, nil
}

func toDomainTag(d *tagDocument) *domain.PropertyTag {
	return &domain.PropertyTag{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Color:      d.Color,
		Sequence:   d.Sequence,
		PropertyID: d.PropertyID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// --- Property type ---

func toPropertyTypeDocument(t *domain.PropertyType) (*propertyTypeDocument, error) {
	docID, err := objectID(t.ID)
	if err != nil {
		return nil, fmt.Errorf("toPropertyTypeDocument: %w", err)
	}
	return &propertyTypeDocument{
		ID:        docID,
		Name:      t.Name,
		Sequence:  t.Sequence,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

func toDomainPropertyType(d *propertyTypeDocument) *domain.PropertyType {
	return &domain.PropertyType{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Sequence:  d.Sequence,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// --- Invoice ---

func toInvoiceDocument(inv *domain.Invoice) (*invoiceDocument, error) {
	docID, err := objectID(inv.ID)
	if err != nil {
		return nil, fmt.Errorf("toInvoiceDocument: %w", err)
	}
	lines := make([]invoiceLineDocument, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, invoiceLineDocument{Name: l.Name, Quantity: l.Quantity, Price: l.Price})
	}
	return &invoiceDocument{
		ID:         docID,
		PropertyID: inv.PropertyID,
		PartnerID:  inv.PartnerID,
		MoveType:   inv.MoveType,
		Lines:      lines,
		CreatedAt:  inv.CreatedAt,
	}, nil
}

func toDomainInvoice(d *invoiceDocument) *domain.Invoice {
	lines := make([]domain.InvoiceLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		lines = append(lines, domain.InvoiceLine{Name: l.Name, Quantity: l.Quantity, Price: l.Price})
	}
	return &domain.Invoice{
		ID:         d.ID.Hex(),
		PropertyID: d.PropertyID,
		PartnerID:  d.PartnerID,
		MoveType:   d.MoveType,
		Lines:      lines,
		CreatedAt:  d.CreatedAt,
	}
}
