package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct{ mock.Mock }

func (m *MockPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Property), args.Get(1).(int64), args.Error(2)
}
func (m *MockPropertyRepository) AddPhoto(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}
func (m *MockPropertyRepository) ClearPropertyType(ctx context.Context, typeID string) ([]string, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockOfferRepository keeps offers in memory so best-offer recomputation and
// the price guard see earlier writes, the way a real store would.
type MockOfferRepository struct {
	mock.Mock
	offers map[string][]*domain.Offer
	nextID int
}

func newMockOfferRepository(existing ...*domain.Offer) *MockOfferRepository {
	m := &MockOfferRepository{offers: make(map[string][]*domain.Offer)}
	for _, o := range existing {
		m.offers[o.PropertyID] = append(m.offers[o.PropertyID], o)
	}
	return m
}

func (m *MockOfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	args := m.Called(ctx, o)
	if err := args.Error(0); err != nil {
		return err
	}
	m.nextID++
	o.ID = fmt.Sprintf("offer-%d", m.nextID)
	m.offers[o.PropertyID] = append(m.offers[o.PropertyID], o)
	return nil
}
func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	if err := args.Error(0); err != nil {
		return err
	}
	for pid, offers := range m.offers {
		kept := offers[:0]
		for _, o := range offers {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		m.offers[pid] = kept
	}
	return nil
}
func (m *MockOfferRepository) FindByPropertyID(ctx context.Context, propertyID string) ([]*domain.Offer, error) {
	return append([]*domain.Offer(nil), m.offers[propertyID]...), nil
}
func (m *MockOfferRepository) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}
func (m *MockOfferRepository) CountByPropertyTypeID(ctx context.Context, typeID string) (int64, error) {
	args := m.Called(ctx, typeID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOfferRepository) SetPropertyType(ctx context.Context, propertyID, typeID string) error {
	args := m.Called(ctx, propertyID, typeID)
	return args.Error(0)
}
func (m *MockOfferRepository) ClearPropertyType(ctx context.Context, typeID string) error {
	args := m.Called(ctx, typeID)
	return args.Error(0)
}

type MockTagRepository struct{ mock.Mock }

func (m *MockTagRepository) Create(ctx context.Context, t *domain.PropertyTag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTagRepository) GetByID(ctx context.Context, id string) (*domain.PropertyTag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyTag), args.Error(1)
}
func (m *MockTagRepository) Update(ctx context.Context, t *domain.PropertyTag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTagRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTagRepository) List(ctx context.Context, filter domain.TagFilter) ([]*domain.PropertyTag, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PropertyTag), args.Error(1)
}
func (m *MockTagRepository) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

type MockPropertyTypeRepository struct{ mock.Mock }

func (m *MockPropertyTypeRepository) Create(ctx context.Context, t *domain.PropertyType) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockPropertyTypeRepository) GetByID(ctx context.Context, id string) (*domain.PropertyType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyType), args.Error(1)
}
func (m *MockPropertyTypeRepository) Update(ctx context.Context, t *domain.PropertyType) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockPropertyTypeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyTypeRepository) List(ctx context.Context) ([]*domain.PropertyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PropertyType), args.Error(1)
}

type MockInvoiceRepository struct{ mock.Mock }

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvoiceRepository) FindByPropertyID(ctx context.Context, propertyID string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

// passThroughTx runs the function directly; tests assert on what was written
// before an error aborted it.
type passThroughTx struct{ calls int }

func (tx *passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

// retryOnceTx reruns the function after a failed attempt, the way the driver
// retries a transaction that hit a write conflict.
type retryOnceTx struct{}

func (retryOnceTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err == nil {
		return nil
	}
	return fn(ctx)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockPropertyCache struct{ mock.Mock }

func (m *MockPropertyCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyCache) SetProperty(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPropertyCache) DeleteProperty(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

type MockSaleNotifier struct{ mock.Mock }

func (m *MockSaleNotifier) SendPropertySold(ctx context.Context, p *domain.Property, inv *domain.Invoice) error {
	args := m.Called(ctx, p, inv)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	properties *MockPropertyRepository
	offers     *MockOfferRepository
	tags       *MockTagRepository
	types      *MockPropertyTypeRepository
	invoices   *MockInvoiceRepository
	tx         *passThroughTx
	log        *logger.Logger
	clock      fixedClock
}

func newFixture(existingOffers ...*domain.Offer) *fixture {
	return &fixture{
		properties: new(MockPropertyRepository),
		offers:     newMockOfferRepository(existingOffers...),
		tags:       new(MockTagRepository),
		types:      new(MockPropertyTypeRepository),
		invoices:   new(MockInvoiceRepository),
		tx:         &passThroughTx{},
		log:        logger.NewNop(),
		clock:      fixedClock{now: testNow},
	}
}

func (f *fixture) repos() Repositories {
	return Repositories{
		Tx:         f.tx,
		Properties: f.properties,
		Offers:     f.offers,
		Tags:       f.tags,
		Types:      f.types,
		Invoices:   f.invoices,
	}
}

func newTestProperty(id string, state domain.PropertyState) *domain.Property {
	return &domain.Property{
		ID:            id,
		Name:          "Canal house",
		ExpectedPrice: 125000,
		SellingPrice:  125000,
		State:         state,
		SalesmanID:    "user-1",
		Photos:        []string{},
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}
