package domain

import (
	"fmt"
	"strings"
	"time"
)

// OfferStatus is the decision taken on an offer. An undecided offer has the
// empty status.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = ""
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRefused  OfferStatus = "refused"
)

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRefused:
		return true
	}
	return false
}

// Offer is a bid on a property.
type Offer struct {
	ID             string
	PropertyID     string
	PartnerID      string
	PropertyTypeID string
	Price          float64
	Status         OfferStatus
	Validity       int
	Deadline       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SetValidity stores the validity in days and derives the deadline from
// today. A zero validity leaves the deadline untouched.
func (o *Offer) SetValidity(days int, today time.Time) {
	o.Validity = days
	if days == 0 {
		return
	}
	deadline := AddDays(today, days)
	o.Deadline = &deadline
}

// SetDeadline stores the deadline date and derives the validity from today.
// A nil deadline leaves the validity untouched.
func (o *Offer) SetDeadline(deadline *time.Time, today time.Time) {
	if deadline == nil {
		o.Deadline = nil
		return
	}
	d := DateOf(*deadline)
	o.Deadline = &d
	o.Validity = DaysBetween(today, d)
}

// Refuse marks the offer refused. The property is left unchanged.
func (o *Offer) Refuse() {
	o.Status = OfferStatusRefused
}

func (o *Offer) Validate() error {
	if strings.TrimSpace(o.PropertyID) == "" {
		return fmt.Errorf("%w: an offer requires a property", ErrConstraint)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("%w: unknown offer status '%s'", ErrConstraint, o.Status)
	}
	return nil
}

// IsOfferAccepted reports whether the owning property has moved past offer
// acceptance.
func IsOfferAccepted(state PropertyState) bool {
	return state == StateOfferAccepted || state == StateCanceled || state == StateSold
}

// BestOfferMode selects how offer prices aggregate into a property's best offer.
type BestOfferMode string

const (
	BestOfferMax BestOfferMode = "max"
	BestOfferSum BestOfferMode = "sum"
)

func ParseBestOfferMode(s string) (BestOfferMode, error) {
	switch m := BestOfferMode(strings.ToLower(strings.TrimSpace(s))); m {
	case BestOfferMax, BestOfferSum:
		return m, nil
	case "":
		return BestOfferMax, nil
	}
	return "", fmt.Errorf("%w: unknown best offer mode '%s'", ErrInvalidInput, s)
}

// Aggregate returns the best offer for prices; zero when there are none.
func (m BestOfferMode) Aggregate(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	if m == BestOfferSum {
		var total float64
		for _, p := range prices {
			total += p
		}
		return total
	}
	best := prices[0]
	for _, p := range prices[1:] {
		if p > best {
			best = p
		}
	}
	return best
}

// PriceGuard selects the rule a new offer's price is checked against.
type PriceGuard string

const (
	// PriceGuardMinimum rejects prices below the lowest existing offer.
	PriceGuardMinimum PriceGuard = "minimum"
	// PriceGuardHighest rejects prices below any existing offer.
	PriceGuardHighest PriceGuard = "highest"
)

func ParsePriceGuard(s string) (PriceGuard, error) {
	switch g := PriceGuard(strings.ToLower(strings.TrimSpace(s))); g {
	case PriceGuardMinimum, PriceGuardHighest:
		return g, nil
	case "":
		return PriceGuardMinimum, nil
	}
	return "", fmt.Errorf("%w: unknown offer price guard '%s'", ErrInvalidInput, s)
}

// Check rejects price when it undercuts the existing offers under the guard.
func (g PriceGuard) Check(existing []*Offer, price float64) error {
	if len(existing) == 0 {
		return nil
	}
	bound := existing[0].Price
	for _, o := range existing[1:] {
		if g == PriceGuardHighest && o.Price > bound {
			bound = o.Price
		}
		if g != PriceGuardHighest && o.Price < bound {
			bound = o.Price
		}
	}
	if bound > price {
		return fmt.Errorf("%w: Cannot create offer with a lower price than existing offers.", ErrUserError)
	}
	return nil
}
