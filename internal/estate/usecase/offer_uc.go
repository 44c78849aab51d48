package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// OfferInput describes a new offer. When both are set, Validity is applied
// first and Deadline overrides it.
type OfferInput struct {
	PropertyID string
	PartnerID  string
	Price      float64
	Validity   *int
	Deadline   *time.Time
}

// OfferUpdate carries the writable offer fields; nil fields are unchanged.
type OfferUpdate struct {
	PartnerID *string
	Price     *float64
	Validity  *int
	Deadline  *time.Time
}

// OfferView is an offer together with the acceptance flag derived from its
// property's state.
type OfferView struct {
	*domain.Offer
	IsOfferAccepted bool
}

// OfferUsecase implements offer creation, edits and the accept/refuse actions.
type OfferUsecase struct {
	repos     Repositories
	settings  Settings
	cache     PropertyCache
	publisher EventPublisher
	metrics   *metrics.MetricsManager
	clock     domain.Clock
	logger    *logger.Logger
}

// NewOfferUsecase creates an OfferUsecase. cache, publisher and m may be nil.
func NewOfferUsecase(repos Repositories, settings Settings, cache PropertyCache, publisher EventPublisher, m *metrics.MetricsManager, clock domain.Clock, log *logger.Logger) *OfferUsecase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &OfferUsecase{
		repos:     repos,
		settings:  settings,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
		logger:    log.Named("OfferUsecase"),
	}
}

// refreshBestOffer recomputes and stores the property's best offer from its
// persisted offers.
func (uc *OfferUsecase) refreshBestOffer(ctx context.Context, p *domain.Property) error {
	offers, err := uc.repos.Offers.FindByPropertyID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := p.RecomputeBestOffer(offers, uc.settings.BestOfferMode); err != nil {
		return err
	}
	p.UpdatedAt = uc.clock.Now()
	return uc.repos.Properties.Update(ctx, p)
}

func (uc *OfferUsecase) loadProperty(ctx context.Context, id string) (*domain.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: an offer requires a property", domain.ErrInvalidInput)
	}
	p, err := uc.repos.Properties.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: property %s does not exist", domain.ErrNotFound, id)
	}
	return p, err
}

// CreateOffer places a single offer.
func (uc *OfferUsecase) CreateOffer(ctx context.Context, in OfferInput) (*domain.Offer, error) {
	offers, err := uc.CreateOffers(ctx, []OfferInput{in})
	if err != nil {
		return nil, err
	}
	return offers[0], nil
}

// CreateOffers places a batch of offers in one transaction. Items are handled
// in order, so each price is checked against the offers already persisted,
// earlier items of the batch included. Any rejection aborts the whole batch.
func (uc *OfferUsecase) CreateOffers(ctx context.Context, inputs []OfferInput) ([]*domain.Offer, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no offers given", domain.ErrInvalidInput)
	}
	uc.logger.Info("Creating offers", zap.Int("count", len(inputs)))

	var (
		created []*domain.Offer
		touched map[string]*domain.Property
		initial map[string]domain.PropertyState
	)
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The transaction body may be retried; start from a clean slate.
		created = make([]*domain.Offer, 0, len(inputs))
		touched = make(map[string]*domain.Property)
		initial = make(map[string]domain.PropertyState)
		for i, in := range inputs {
			p, ok := touched[in.PropertyID]
			if !ok {
				var err error
				if p, err = uc.loadProperty(ctx, in.PropertyID); err != nil {
					return err
				}
				initial[p.ID] = p.State
			}
			o, err := uc.placeOffer(ctx, p, in)
			if err != nil {
				uc.logger.Warn("Offer rejected",
					zap.Int("index", i),
					zap.String("property_id", in.PropertyID),
					zap.Float64("price", in.Price),
					zap.Error(err))
				return err
			}
			touched[p.ID] = p
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for id, p := range touched {
		evictProperty(ctx, uc.cache, uc.logger, id)
		if initial[id] != p.State {
			uc.metrics.StateChanged(string(p.State))
		}
	}
	for _, o := range created {
		uc.metrics.OfferCreated()
		publish(ctx, uc.publisher, uc.logger, SubjectOfferCreated, map[string]interface{}{
			"offer_id":    o.ID,
			"property_id": o.PropertyID,
			"partner_id":  o.PartnerID,
			"price":       o.Price,
		})
	}
	uc.logger.Info("Offers created", zap.Int("count", len(created)))
	return created, nil
}

func (uc *OfferUsecase) placeOffer(ctx context.Context, p *domain.Property, in OfferInput) (*domain.Offer, error) {
	if err := p.ReceiveOffer(); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Offers.FindByPropertyID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.settings.PriceGuard.Check(existing, in.Price); err != nil {
		uc.metrics.OfferRejected()
		return nil, err
	}

	now := uc.clock.Now()
	o := &domain.Offer{
		PropertyID:     p.ID,
		PartnerID:      in.PartnerID,
		PropertyTypeID: p.PropertyTypeID,
		Price:          in.Price,
		Status:         domain.OfferStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Validity != nil {
		o.SetValidity(*in.Validity, now)
	}
	if in.Deadline != nil {
		o.SetDeadline(in.Deadline, now)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repos.Offers.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := uc.refreshBestOffer(ctx, p); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOffer returns a single offer.
func (uc *OfferUsecase) GetOffer(ctx context.Context, id string) (*OfferView, error) {
	o, err := uc.repos.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := uc.repos.Properties.GetByID(ctx, o.PropertyID)
	if err != nil {
		return nil, err
	}
	return &OfferView{Offer: o, IsOfferAccepted: domain.IsOfferAccepted(p.State)}, nil
}

// ListOffers returns the property's offers, highest price first.
func (uc *OfferUsecase) ListOffers(ctx context.Context, propertyID string) ([]*OfferView, error) {
	p, err := uc.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	offers, err := uc.repos.Offers.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	accepted := domain.IsOfferAccepted(p.State)
	views := make([]*OfferView, len(offers))
	for i, o := range offers {
		views[i] = &OfferView{Offer: o, IsOfferAccepted: accepted}
	}
	return views, nil
}

// UpdateOffer edits an offer and recomputes the property's best offer.
func (uc *OfferUsecase) UpdateOffer(ctx context.Context, id string, in OfferUpdate) (*domain.Offer, error) {
	uc.logger.Info("Updating offer", zap.String("offer_id", id))

	var updated *domain.Offer
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.repos.Offers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p, err := uc.loadProperty(ctx, o.PropertyID)
		if err != nil {
			return err
		}
		if err := p.EnsureOpen(); err != nil {
			return err
		}

		now := uc.clock.Now()
		if in.PartnerID != nil {
			o.PartnerID = *in.PartnerID
		}
		if in.Price != nil {
			o.Price = *in.Price
		}
		if in.Validity != nil {
			o.SetValidity(*in.Validity, now)
		}
		if in.Deadline != nil {
			o.SetDeadline(in.Deadline, now)
		}
		o.UpdatedAt = now
		if err := uc.repos.Offers.Update(ctx, o); err != nil {
			return err
		}
		if err := uc.refreshBestOffer(ctx, p); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		uc.logger.Warn("Offer update aborted", zap.String("offer_id", id), zap.Error(err))
		return nil, err
	}
	evictProperty(ctx, uc.cache, uc.logger, updated.PropertyID)
	return updated, nil
}

// DeleteOffer removes an offer and recomputes the property's best offer.
func (uc *OfferUsecase) DeleteOffer(ctx context.Context, id string) error {
	uc.logger.Info("Deleting offer", zap.String("offer_id", id))

	var propertyID string
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.repos.Offers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		propertyID = o.PropertyID
		p, err := uc.loadProperty(ctx, o.PropertyID)
		if err != nil {
			return err
		}
		if err := p.EnsureOpen(); err != nil {
			return err
		}
		if err := uc.repos.Offers.Delete(ctx, id); err != nil {
			return err
		}
		return uc.refreshBestOffer(ctx, p)
	})
	if err != nil {
		uc.logger.Warn("Offer deletion aborted", zap.String("offer_id", id), zap.Error(err))
		return err
	}
	evictProperty(ctx, uc.cache, uc.logger, propertyID)
	return nil
}

// AcceptOffer accepts the offer and moves its property to offer_accepted with
// the best offer as selling price and the offer's partner as buyer.
func (uc *OfferUsecase) AcceptOffer(ctx context.Context, id string) (*domain.Offer, *domain.Property, error) {
	uc.logger.Info("Accepting offer", zap.String("offer_id", id))

	var (
		offer    *domain.Offer
		property *domain.Property
	)
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := uc.repos.Offers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p, err := uc.loadProperty(ctx, o.PropertyID)
		if err != nil {
			return err
		}
		if err := p.AcceptOffer(o); err != nil {
			return err
		}
		now := uc.clock.Now()
		o.UpdatedAt = now
		p.UpdatedAt = now
		if err := uc.repos.Offers.Update(ctx, o); err != nil {
			return err
		}
		if err := uc.repos.Properties.Update(ctx, p); err != nil {
			return err
		}
		offer, property = o, p
		return nil
	})
	if err != nil {
		uc.logger.Warn("Offer acceptance aborted", zap.String("offer_id", id), zap.Error(err))
		return nil, nil, err
	}

	evictProperty(ctx, uc.cache, uc.logger, property.ID)
	uc.metrics.OfferDecided(string(domain.OfferStatusAccepted))
	uc.metrics.StateChanged(string(property.State))
	publish(ctx, uc.publisher, uc.logger, SubjectOfferAccepted, map[string]interface{}{
		"offer_id":      offer.ID,
		"property_id":   property.ID,
		"buyer_id":      property.BuyerID,
		"selling_price": property.SellingPrice,
	})
	return offer, property, nil
}

// RefuseOffer marks the offer refused. The property is not touched.
func (uc *OfferUsecase) RefuseOffer(ctx context.Context, id string) (*domain.Offer, error) {
	uc.logger.Info("Refusing offer", zap.String("offer_id", id))

	o, err := uc.repos.Offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Refuse()
	o.UpdatedAt = uc.clock.Now()
	if err := uc.repos.Offers.Update(ctx, o); err != nil {
		return nil, err
	}

	uc.metrics.OfferDecided(string(domain.OfferStatusRefused))
	publish(ctx, uc.publisher, uc.logger, SubjectOfferRefused, map[string]interface{}{
		"offer_id":    o.ID,
		"property_id": o.PropertyID,
	})
	return o, nil
}
