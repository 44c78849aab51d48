package domain

import (
	"fmt"
	"time"
)

const (
	// CommissionRate is the agency's share of the best offer billed on a sale.
	CommissionRate = 0.06
	// AdministrativeFee is the flat fee billed on every sale.
	AdministrativeFee = 100.00

	MoveTypeOutInvoice = "out_invoice"

	commissionLabel = "6% of selling price"
	feeLabel        = "Administrative Fees"
)

type InvoiceLine struct {
	Name     string
	Quantity float64
	Price    float64
}

// Invoice bills the buyer of a sold property.
type Invoice struct {
	ID         string
	PropertyID string
	PartnerID  string
	MoveType   string
	Lines      []InvoiceLine
	CreatedAt  time.Time
}

// NewSaleInvoice bills p's buyer for the commission and the administrative fee.
func NewSaleInvoice(p *Property, now time.Time) (*Invoice, error) {
	if p.BuyerID == "" {
		return nil, fmt.Errorf("%w: property %s has no buyer to invoice", ErrUserError, p.ID)
	}
	return &Invoice{
		PropertyID: p.ID,
		PartnerID:  p.BuyerID,
		MoveType:   MoveTypeOutInvoice,
		Lines: []InvoiceLine{
			{Name: commissionLabel, Quantity: 1, Price: roundTo(p.BestOffer*CommissionRate, pricePrecision)},
			{Name: feeLabel, Quantity: 1, Price: AdministrativeFee},
		},
		CreatedAt: now,
	}, nil
}

func (inv *Invoice) Total() float64 {
	var total float64
	for _, l := range inv.Lines {
		total += l.Quantity * l.Price
	}
	return roundTo(total, pricePrecision)
}
