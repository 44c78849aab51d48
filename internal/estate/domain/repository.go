package domain

import (
	"context"
)

// PropertyRepository defines persistence for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error

	// Find returns a page of properties, newest first, and the total match count.
	Find(ctx context.Context, filter PropertyFilter) ([]*Property, int64, error)

	// AddPhoto appends url to the property's photos.
	AddPhoto(ctx context.Context, id, url string) error

	// ClearPropertyType unsets the type on every property referencing typeID
	// and returns the IDs of the properties it changed.
	ClearPropertyType(ctx context.Context, typeID string) ([]string, error)
}

// OfferRepository defines persistence for offers.
type OfferRepository interface {
	Create(ctx context.Context, o *Offer) error
	GetByID(ctx context.Context, id string) (*Offer, error)
	Update(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id string) error

	// FindByPropertyID returns the property's offers, highest price first.
	FindByPropertyID(ctx context.Context, propertyID string) ([]*Offer, error)
	DeleteByPropertyID(ctx context.Context, propertyID string) error

	CountByPropertyTypeID(ctx context.Context, typeID string) (int64, error)
	// SetPropertyType refreshes the denormalized type on the property's offers.
	SetPropertyType(ctx context.Context, propertyID, typeID string) error
	ClearPropertyType(ctx context.Context, typeID string) error
}

// TagRepository defines persistence for property tags.
type TagRepository interface {
	Create(ctx context.Context, t *PropertyTag) error
	GetByID(ctx context.Context, id string) (*PropertyTag, error)
	Update(ctx context.Context, t *PropertyTag) error
	Delete(ctx context.Context, id string) error
	// List returns tags ordered by sequence.
	List(ctx context.Context, filter TagFilter) ([]*PropertyTag, error)
	DeleteByPropertyID(ctx context.Context, propertyID string) error
}

// PropertyTypeRepository defines persistence for property types.
type PropertyTypeRepository interface {
	Create(ctx context.Context, t *PropertyType) error
	GetByID(ctx context.Context, id string) (*PropertyType, error)
	Update(ctx context.Context, t *PropertyType) error
	Delete(ctx context.Context, id string) error
	// List returns types ordered by sequence, then name.
	List(ctx context.Context) ([]*PropertyType, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByPropertyID(ctx context.Context, propertyID string) ([]*Invoice, error)
}

// Transactor runs fn inside a single unit of work. Repositories called with
// the context handed to fn take part in it; any error from fn rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
