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

// PropertyInput carries the writable property fields. Nil fields are left
// unchanged on update.
type PropertyInput struct {
	Name              *string
	Description       *string
	Postcode          *string
	DateAvailability  *time.Time
	ExpectedPrice     *float64
	SellingPrice      *float64
	Bedrooms          *int
	LivingArea        *int
	Facades           *int
	Garage            *bool
	Garden            *bool
	GardenArea        *int
	GardenOrientation *string
	PropertyTypeID    *string
	SalesmanID        *string
}

// PropertyUsecase implements the property workflow: CRUD, cancel, sell and
// photo upload.
type PropertyUsecase struct {
	repos     Repositories
	cache     PropertyCache
	publisher EventPublisher
	notifier  SaleNotifier
	storage   Storage
	metrics   *metrics.MetricsManager
	clock     domain.Clock
	logger    *logger.Logger
}

// NewPropertyUsecase creates a PropertyUsecase. cache, publisher, notifier,
// storage and m may be nil.
func NewPropertyUsecase(repos Repositories, cache PropertyCache, publisher EventPublisher, notifier SaleNotifier, storage Storage, m *metrics.MetricsManager, clock domain.Clock, log *logger.Logger) *PropertyUsecase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &PropertyUsecase{
		repos:     repos,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		storage:   storage,
		metrics:   m,
		clock:     clock,
		logger:    log.Named("PropertyUsecase"),
	}
}

func (uc *PropertyUsecase) applyInput(p *domain.Property, in PropertyInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Postcode != nil {
		p.Postcode = *in.Postcode
	}
	if in.DateAvailability != nil {
		d := domain.DateOf(*in.DateAvailability)
		p.DateAvailability = &d
	}
	if in.ExpectedPrice != nil {
		p.ExpectedPrice = *in.ExpectedPrice
	}
	if in.SellingPrice != nil {
		p.SellingPrice = *in.SellingPrice
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.LivingArea != nil {
		p.LivingArea = *in.LivingArea
	}
	if in.Facades != nil {
		p.Facades = *in.Facades
	}
	if in.Garage != nil {
		p.Garage = *in.Garage
	}
	// Toggling the garden resets area and orientation; explicit values
	// sent alongside still win.
	if in.Garden != nil && *in.Garden != p.Garden {
		p.SetGarden(*in.Garden)
	}
	if in.GardenArea != nil {
		p.GardenArea = *in.GardenArea
	}
	if in.GardenOrientation != nil {
		p.GardenOrientation = domain.GardenOrientation(*in.GardenOrientation)
	}
	if in.SalesmanID != nil && *in.SalesmanID != "" {
		p.SalesmanID = *in.SalesmanID
	}
}

func (uc *PropertyUsecase) checkPropertyType(ctx context.Context, typeID string) error {
	if typeID == "" {
		return nil
	}
	if _, err := uc.repos.Types.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: property type %s does not exist", domain.ErrInvalidInput, typeID)
		}
		return err
	}
	return nil
}

// CreateProperty stores a new property in the new state. The salesman
// defaults to actorID.
func (uc *PropertyUsecase) CreateProperty(ctx context.Context, actorID string, in PropertyInput) (*domain.Property, error) {
	uc.logger.Info("Creating property", zap.String("actor_id", actorID))

	p := domain.NewProperty("", 0, 0, actorID, uc.clock.Now())
	uc.applyInput(p, in)
	if in.PropertyTypeID != nil {
		p.PropertyTypeID = *in.PropertyTypeID
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkPropertyType(ctx, p.PropertyTypeID); err != nil {
		return nil, err
	}

	if err := uc.repos.Properties.Create(ctx, p); err != nil {
		uc.logger.Error("Failed to save property", zap.Error(err))
		return nil, err
	}
	uc.metrics.PropertyCreated()

	publish(ctx, uc.publisher, uc.logger, SubjectPropertyCreated, map[string]interface{}{
		"property_id":    p.ID,
		"name":           p.Name,
		"expected_price": p.ExpectedPrice,
		"salesman_id":    p.SalesmanID,
		"created_at":     p.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.logger.Info("Property created", zap.String("property_id", p.ID))
	return p, nil
}

// GetProperty returns the property with its tags, served from the cache when
// possible.
func (uc *PropertyUsecase) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetProperty(ctx, id)
		if err != nil {
			uc.logger.Warn("Property cache read failed", zap.String("property_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := uc.repos.Properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := uc.repos.Tags.List(ctx, domain.TagFilter{PropertyID: id})
	if err != nil {
		return nil, err
	}
	p.Tags = tags

	if uc.cache != nil {
		if err := uc.cache.SetProperty(ctx, p); err != nil {
			uc.logger.Warn("Property cache write failed", zap.String("property_id", id), zap.Error(err))
		}
	}
	return p, nil
}

// ListProperties returns a page of properties, newest first.
func (uc *PropertyUsecase) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	if filter.State != nil && !filter.State.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown property state '%s'", domain.ErrInvalidInput, *filter.State)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return uc.repos.Properties.Find(ctx, filter)
}

// UpdateProperty changes writable fields. A property type change is copied
// onto the property's offers in the same transaction.
func (uc *PropertyUsecase) UpdateProperty(ctx context.Context, id string, in PropertyInput) (*domain.Property, error) {
	uc.logger.Info("Updating property", zap.String("property_id", id))

	var updated *domain.Property
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := uc.repos.Properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		uc.applyInput(p, in)

		typeChanged := in.PropertyTypeID != nil && *in.PropertyTypeID != p.PropertyTypeID
		if typeChanged {
			if err := uc.checkPropertyType(ctx, *in.PropertyTypeID); err != nil {
				return err
			}
			p.PropertyTypeID = *in.PropertyTypeID
		}
		if err := p.Validate(); err != nil {
			return err
		}
		p.UpdatedAt = uc.clock.Now()
		if err := uc.repos.Properties.Update(ctx, p); err != nil {
			return err
		}
		if typeChanged {
			if err := uc.repos.Offers.SetPropertyType(ctx, p.ID, p.PropertyTypeID); err != nil {
				return err
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		uc.logger.Warn("Property update aborted", zap.String("property_id", id), zap.Error(err))
		return nil, err
	}
	evictProperty(ctx, uc.cache, uc.logger, id)
	return updated, nil
}

// DeleteProperty removes the property together with its offers and tags.
func (uc *PropertyUsecase) DeleteProperty(ctx context.Context, id string) error {
	uc.logger.Info("Deleting property", zap.String("property_id", id))

	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.repos.Properties.GetByID(ctx, id); err != nil {
			return err
		}
		if err := uc.repos.Offers.DeleteByPropertyID(ctx, id); err != nil {
			return err
		}
		if err := uc.repos.Tags.DeleteByPropertyID(ctx, id); err != nil {
			return err
		}
		return uc.repos.Properties.Delete(ctx, id)
	})
	if err != nil {
		uc.logger.Warn("Property deletion aborted", zap.String("property_id", id), zap.Error(err))
		return err
	}
	evictProperty(ctx, uc.cache, uc.logger, id)
	publish(ctx, uc.publisher, uc.logger, SubjectPropertyDeleted, map[string]interface{}{"property_id": id})
	return nil
}

// CancelProperty moves the property to canceled.
func (uc *PropertyUsecase) CancelProperty(ctx context.Context, id string) (*domain.Property, error) {
	uc.logger.Info("Canceling property", zap.String("property_id", id))

	var p *domain.Property
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := uc.repos.Properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := current.Cancel(); err != nil {
			uc.logger.Warn("Property cannot be canceled", zap.String("property_id", id), zap.String("state", string(current.State)))
			return err
		}
		current.UpdatedAt = uc.clock.Now()
		if err := uc.repos.Properties.Update(ctx, current); err != nil {
			return err
		}
		p = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	evictProperty(ctx, uc.cache, uc.logger, id)
	uc.metrics.StateChanged(string(p.State))
	publish(ctx, uc.publisher, uc.logger, SubjectPropertyCanceled, map[string]interface{}{"property_id": id})
	return p, nil
}

// SellProperty moves the property to sold and invoices the buyer for the
// agency commission. Selling a sold property changes nothing.
func (uc *PropertyUsecase) SellProperty(ctx context.Context, id string) (*domain.Property, *domain.Invoice, error) {
	uc.logger.Info("Selling property", zap.String("property_id", id))

	var (
		sold        *domain.Property
		invoice     *domain.Invoice
		alreadySold bool
	)
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, alreadySold = nil, false
		p, err := uc.repos.Properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sold = p
		if p.State == domain.StateSold {
			alreadySold = true
			return nil
		}
		if err := p.Sell(); err != nil {
			return err
		}
		now := uc.clock.Now()
		p.UpdatedAt = now
		if err := uc.repos.Properties.Update(ctx, p); err != nil {
			return err
		}

		if p.BuyerID == "" {
			uc.logger.Warn("Sold property has no buyer, skipping invoice", zap.String("property_id", id))
			return nil
		}
		inv, err := domain.NewSaleInvoice(p, now)
		if err != nil {
			return err
		}
		if err := uc.repos.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		uc.logger.Warn("Property sale aborted", zap.String("property_id", id), zap.Error(err))
		return nil, nil, err
	}
	if alreadySold {
		return sold, nil, nil
	}

	evictProperty(ctx, uc.cache, uc.logger, id)
	uc.metrics.StateChanged(string(sold.State))
	event := map[string]interface{}{
		"property_id": id,
		"buyer_id":    sold.BuyerID,
		"best_offer":  sold.BestOffer,
	}
	if invoice != nil {
		uc.metrics.InvoiceCreated()
		event["invoice_id"] = invoice.ID
		event["invoice_total"] = invoice.Total()
		if uc.notifier != nil {
			if err := uc.notifier.SendPropertySold(ctx, sold, invoice); err != nil {
				uc.logger.Warn("Failed to send sale notification", zap.String("property_id", id), zap.Error(err))
			}
		}
	}
	publish(ctx, uc.publisher, uc.logger, SubjectPropertySold, event)
	return sold, invoice, nil
}

// ListInvoices returns the invoices issued for a property.
func (uc *PropertyUsecase) ListInvoices(ctx context.Context, propertyID string) ([]*domain.Invoice, error) {
	if _, err := uc.repos.Properties.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return uc.repos.Invoices.FindByPropertyID(ctx, propertyID)
}

// UploadPhoto stores the image and appends its URL to the property.
func (uc *PropertyUsecase) UploadPhoto(ctx context.Context, propertyID, fileName string, data []byte) (string, error) {
	if uc.storage == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", domain.ErrUnavailable)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: photo is empty", domain.ErrInvalidInput)
	}
	p, err := uc.repos.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return "", err
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("Failed to upload photo", zap.String("property_id", propertyID), zap.Error(err))
		return "", err
	}

	if err := uc.repos.Properties.AddPhoto(ctx, p.ID, url); err != nil {
		return "", err
	}
	evictProperty(ctx, uc.cache, uc.logger, propertyID)
	uc.logger.Info("Photo uploaded", zap.String("property_id", propertyID), zap.String("url", url))
	return url, nil
}
