package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
)

// Event subjects published after a successful commit.
const (
	SubjectPropertyCreated  = "estate.property.created"
	SubjectPropertyDeleted  = "estate.property.deleted"
	SubjectPropertyCanceled = "estate.property.canceled"
	SubjectPropertySold     = "estate.property.sold"
	SubjectOfferCreated     = "estate.offer.created"
	SubjectOfferAccepted    = "estate.offer.accepted"
	SubjectOfferRefused     = "estate.offer.refused"
)

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// PropertyCache is a read-through cache. GetProperty returns nil, nil on a miss.
type PropertyCache interface {
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	SetProperty(ctx context.Context, p *domain.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// SaleNotifier tells the back office that a property was sold.
type SaleNotifier interface {
	SendPropertySold(ctx context.Context, p *domain.Property, inv *domain.Invoice) error
}

// Repositories bundles the persistence ports sharing one Transactor.
type Repositories struct {
	Tx         domain.Transactor
	Properties domain.PropertyRepository
	Offers     domain.OfferRepository
	Tags       domain.TagRepository
	Types      domain.PropertyTypeRepository
	Invoices   domain.InvoiceRepository
}

// Settings selects the configurable offer rules.
type Settings struct {
	BestOfferMode domain.BestOfferMode
	PriceGuard    domain.PriceGuard
}

func DefaultSettings() Settings {
	return Settings{BestOfferMode: domain.BestOfferMax, PriceGuard: domain.PriceGuardMinimum}
}

// publish sends an event when a publisher is configured. Failures are logged
// and swallowed: the write has already been committed.
func publish(ctx context.Context, pub EventPublisher, log *logger.Logger, subject string, data map[string]interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func evictProperty(ctx context.Context, cache PropertyCache, log *logger.Logger, ids ...string) {
	if cache == nil {
		return
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := cache.DeleteProperty(ctx, id); err != nil {
			log.Warn("Failed to evict property from cache", zap.String("property_id", id), zap.Error(err))
		}
	}
}
