package domain

import (
	"fmt"
	"strings"
	"time"
)

// GardenOrientation is the side of the house the garden faces.
type GardenOrientation string

const (
	OrientationNone  GardenOrientation = ""
	OrientationNorth GardenOrientation = "north"
	OrientationSouth GardenOrientation = "south"
	OrientationEast  GardenOrientation = "east"
	OrientationWest  GardenOrientation = "west"
)

func (o GardenOrientation) IsValid() bool {
	switch o {
	case OrientationNone, OrientationNorth, OrientationSouth, OrientationEast, OrientationWest:
		return true
	}
	return false
}

const (
	// DefaultGardenArea is applied when a garden is switched on.
	DefaultGardenArea = 10
	// SellingPriceFloor is the minimum share of the expected price a sale may go for.
	SellingPriceFloor = 0.9
)

// Property is a real-estate listing.
type Property struct {
	ID                string
	Name              string
	Description       string
	Postcode          string
	DateAvailability  *time.Time
	ExpectedPrice     float64
	SellingPrice      float64
	Bedrooms          int
	LivingArea        int
	Facades           int
	Garage            bool
	Garden            bool
	GardenArea        int
	GardenOrientation GardenOrientation
	PropertyTypeID    string
	SalesmanID        string
	BuyerID           string
	BestOffer         float64
	State             PropertyState
	Photos            []string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Tags is filled on read and is not persisted with the property.
	Tags []*PropertyTag
}

// NewProperty builds a property in the new state, applying garden defaults.
func NewProperty(name string, expectedPrice, sellingPrice float64, salesmanID string, now time.Time) *Property {
	return &Property{
		Name:          strings.TrimSpace(name),
		ExpectedPrice: expectedPrice,
		SellingPrice:  sellingPrice,
		SalesmanID:    salesmanID,
		State:         StateNew,
		Photos:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TotalArea is the living area plus the garden area.
func (p *Property) TotalArea() int {
	return p.LivingArea + p.GardenArea
}

// SetGarden toggles the garden and resets its area and orientation to the
// defaults for the new value.
func (p *Property) SetGarden(garden bool) {
	p.Garden = garden
	if garden {
		p.GardenArea = DefaultGardenArea
		p.GardenOrientation = OrientationNorth
		return
	}
	p.GardenArea = 0
	p.GardenOrientation = OrientationNone
}

// Validate enforces the schema checks and the selling price floor.
func (p *Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: property title is required", ErrConstraint)
	}
	if p.ExpectedPrice <= 0 {
		return fmt.Errorf("%w: Expected price must be strictly positive.", ErrConstraint)
	}
	if p.SellingPrice <= 0 {
		return fmt.Errorf("%w: Selling price must be strictly positive.", ErrConstraint)
	}
	if !p.State.IsValid() {
		return fmt.Errorf("%w: unknown property state '%s'", ErrConstraint, p.State)
	}
	if !p.GardenOrientation.IsValid() {
		return fmt.Errorf("%w: unknown garden orientation '%s'", ErrConstraint, p.GardenOrientation)
	}
	if p.Bedrooms < 0 || p.LivingArea < 0 || p.Facades < 0 || p.GardenArea < 0 {
		return fmt.Errorf("%w: counts and areas cannot be negative", ErrConstraint)
	}
	return p.checkSellingPrice()
}

func (p *Property) checkSellingPrice() error {
	if floatIsZero(p.ExpectedPrice, pricePrecision) {
		return nil
	}
	lowerLimit := p.ExpectedPrice * SellingPriceFloor
	if floatCompare(p.SellingPrice, lowerLimit, pricePrecision) < 0 {
		return fmt.Errorf("%w: Selling price cannot be lower than 90%% of the expected price.", ErrValidation)
	}
	return nil
}

func (p *Property) transition(next PropertyState) error {
	if !p.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: a property cannot move from '%s' to '%s'", ErrUserError, p.State, next)
	}
	p.State = next
	return nil
}

// Cancel moves the property to canceled. Sold properties cannot be canceled.
func (p *Property) Cancel() error {
	if p.State == StateSold {
		return fmt.Errorf("%w: A sold property cannot be canceled.", ErrUserError)
	}
	return p.transition(StateCanceled)
}

// Sell moves the property to sold. Canceled properties cannot be sold.
func (p *Property) Sell() error {
	if p.State == StateCanceled {
		return fmt.Errorf("%w: A canceled property cannot be sold.", ErrUserError)
	}
	return p.transition(StateSold)
}

// EnsureOpen rejects offer activity on canceled or sold properties.
func (p *Property) EnsureOpen() error {
	if p.State.IsTerminal() {
		return fmt.Errorf("%w: the property is %s and no longer takes offers", ErrUserError, p.State)
	}
	return nil
}

// ReceiveOffer advances a new property to offer_received. Later states are
// kept as they are.
func (p *Property) ReceiveOffer() error {
	if err := p.EnsureOpen(); err != nil {
		return err
	}
	if p.State == StateNew {
		return p.transition(StateOfferReceived)
	}
	return nil
}

// AcceptOffer marks o accepted and propagates the sale terms onto the
// property: the selling price becomes the current best offer and the buyer
// becomes the offer's partner. The property is re-validated afterwards.
func (p *Property) AcceptOffer(o *Offer) error {
	if err := p.EnsureOpen(); err != nil {
		return err
	}
	if o.PropertyID != p.ID {
		return fmt.Errorf("%w: offer %s does not belong to property %s", ErrInvalidInput, o.ID, p.ID)
	}
	o.Status = OfferStatusAccepted
	p.SellingPrice = p.BestOffer
	p.BuyerID = o.PartnerID
	if err := p.transition(StateOfferAccepted); err != nil {
		return err
	}
	return p.Validate()
}

// RecomputeBestOffer stores the aggregate of the offer prices. A property
// with offers must end up with a positive best offer.
func (p *Property) RecomputeBestOffer(offers []*Offer, mode BestOfferMode) error {
	prices := make([]float64, 0, len(offers))
	for _, o := range offers {
		prices = append(prices, o.Price)
	}
	p.BestOffer = mode.Aggregate(prices)
	if len(offers) > 0 && p.BestOffer <= 0 {
		return fmt.Errorf("%w: Best offer price must be positive.", ErrValidation)
	}
	return nil
}

// PropertyFilter holds parameters for listing properties.
type PropertyFilter struct {
	State          *PropertyState
	PropertyTypeID string
	SalesmanID     string
	MinPrice       float64
	MaxPrice       float64
	Page           int32
	Limit          int32
}
