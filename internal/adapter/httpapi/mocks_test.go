package httpapi

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/usecase"
	"github.com/stretchr/testify/mock"
)

type MockPropertyService struct{ mock.Mock }

func (m *MockPropertyService) CreateProperty(ctx context.Context, actorID string, in usecase.PropertyInput) (*domain.Property, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Property), args.Get(1).(int64), args.Error(2)
}
func (m *MockPropertyService) UpdateProperty(ctx context.Context, id string, in usecase.PropertyInput) (*domain.Property, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) DeleteProperty(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockPropertyService) CancelProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyService) SellProperty(ctx context.Context, id string) (*domain.Property, *domain.Invoice, error) {
	args := m.Called(ctx, id)
	var p *domain.Property
	var inv *domain.Invoice
	if v := args.Get(0); v != nil {
		p = v.(*domain.Property)
	}
	if v := args.Get(1); v != nil {
		inv = v.(*domain.Invoice)
	}
	return p, inv, args.Error(2)
}
func (m *MockPropertyService) ListInvoices(ctx context.Context, propertyID string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}
func (m *MockPropertyService) UploadPhoto(ctx context.Context, propertyID, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, propertyID, fileName, data)
	return args.String(0), args.Error(1)
}

type MockOfferService struct{ mock.Mock }

func (m *MockOfferService) CreateOffer(ctx context.Context, in usecase.OfferInput) (*domain.Offer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) CreateOffers(ctx context.Context, inputs []usecase.OfferInput) ([]*domain.Offer, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Offer), args.Error(1)
}
func (m *MockOfferService) GetOffer(ctx context.Context, id string) (*usecase.OfferView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OfferView), args.Error(1)
}
func (m *MockOfferService) ListOffers(ctx context.Context, propertyID string) ([]*usecase.OfferView, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.OfferView), args.Error(1)
}
func (m *MockOfferService) UpdateOffer(ctx context.Context, id string, in usecase.OfferUpdate) (*domain.Offer, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) DeleteOffer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockOfferService) AcceptOffer(ctx context.Context, id string) (*domain.Offer, *domain.Property, error) {
	args := m.Called(ctx, id)
	var o *domain.Offer
	var p *domain.Property
	if v := args.Get(0); v != nil {
		o = v.(*domain.Offer)
	}
	if v := args.Get(1); v != nil {
		p = v.(*domain.Property)
	}
	return o, p, args.Error(2)
}
func (m *MockOfferService) RefuseOffer(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

type MockTagService struct{ mock.Mock }

func (m *MockTagService) CreateTag(ctx context.Context, in usecase.TagInput) (*domain.PropertyTag, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyTag), args.Error(1)
}
func (m *MockTagService) GetTag(ctx context.Context, id string) (*domain.PropertyTag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyTag), args.Error(1)
}
func (m *MockTagService) ListTags(ctx context.Context, filter domain.TagFilter) ([]*domain.PropertyTag, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PropertyTag), args.Error(1)
}
func (m *MockTagService) UpdateTag(ctx context.Context, id string, in usecase.TagInput) (*domain.PropertyTag, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyTag), args.Error(1)
}
func (m *MockTagService) DeleteTag(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockPropertyTypeService struct{ mock.Mock }

func (m *MockPropertyTypeService) CreatePropertyType(ctx context.Context, in usecase.PropertyTypeInput) (*domain.PropertyType, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyType), args.Error(1)
}
func (m *MockPropertyTypeService) GetPropertyType(ctx context.Context, id string) (*domain.PropertyType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyType), args.Error(1)
}
func (m *MockPropertyTypeService) ListPropertyTypes(ctx context.Context) ([]*domain.PropertyType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PropertyType), args.Error(1)
}
func (m *MockPropertyTypeService) UpdatePropertyType(ctx context.Context, id string, in usecase.PropertyTypeInput) (*domain.PropertyType, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyType), args.Error(1)
}
func (m *MockPropertyTypeService) DeletePropertyType(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
