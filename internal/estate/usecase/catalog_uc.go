package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.uber.org/zap"
)

// TagInput carries the writable tag fields; nil fields are unchanged on update.
type TagInput struct {
	Name       *string
	Color      *int
	Sequence   *int
	PropertyID *string
}

type TagUsecase struct {
	repos   Repositories
	cache   PropertyCache
	clock   domain.Clock
	logger  *logger.Logger
	colorFn func() int
}

func NewTagUsecase(repos Repositories, cache PropertyCache, clock domain.Clock, log *logger.Logger) *TagUsecase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &TagUsecase{
		repos:   repos,
		cache:   cache,
		clock:   clock,
		logger:  log.Named("TagUsecase"),
		colorFn: func() int { return rand.Intn(domain.MaxTagColor) + 1 },
	}
}

func duplicateTagName(err error) error {
	if errors.Is(err, domain.ErrDuplicateName) {
		return fmt.Errorf("%w: The tag name already created", domain.ErrDuplicateName)
	}
	return err
}

func (uc *TagUsecase) checkProperty(ctx context.Context, propertyID string) error {
	if propertyID == "" {
		return nil
	}
	if _, err := uc.repos.Properties.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: property %s does not exist", domain.ErrInvalidInput, propertyID)
		}
		return err
	}
	return nil
}

// CreateTag stores a tag. Without an explicit color a random one is picked.
func (uc *TagUsecase) CreateTag(ctx context.Context, in TagInput) (*domain.PropertyTag, error) {
	now := uc.clock.Now()
	t := &domain.PropertyTag{CreatedAt: now, UpdatedAt: now}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Color != nil {
		t.Color = *in.Color
	} else {
		t.Color = uc.colorFn()
	}
	if in.Sequence != nil {
		t.Sequence = *in.Sequence
	}
	if in.PropertyID != nil {
		t.PropertyID = *in.PropertyID
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkProperty(ctx, t.PropertyID); err != nil {
		return nil, err
	}

	if err := uc.repos.Tags.Create(ctx, t); err != nil {
		uc.logger.Warn("Failed to create tag", zap.String("name", t.Name), zap.Error(err))
		return nil, duplicateTagName(err)
	}
	evictProperty(ctx, uc.cache, uc.logger, t.PropertyID)
	uc.logger.Info("Tag created", zap.String("tag_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

func (uc *TagUsecase) GetTag(ctx context.Context, id string) (*domain.PropertyTag, error) {
	return uc.repos.Tags.GetByID(ctx, id)
}

func (uc *TagUsecase) ListTags(ctx context.Context, filter domain.TagFilter) ([]*domain.PropertyTag, error) {
	return uc.repos.Tags.List(ctx, filter)
}

func (uc *TagUsecase) UpdateTag(ctx context.Context, id string, in TagInput) (*domain.PropertyTag, error) {
	t, err := uc.repos.Tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousProperty := t.PropertyID
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Color != nil {
		t.Color = *in.Color
	}
	if in.Sequence != nil {
		t.Sequence = *in.Sequence
	}
	if in.PropertyID != nil {
		t.PropertyID = *in.PropertyID
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.PropertyID != previousProperty {
		if err := uc.checkProperty(ctx, t.PropertyID); err != nil {
			return nil, err
		}
	}
	t.UpdatedAt = uc.clock.Now()
	if err := uc.repos.Tags.Update(ctx, t); err != nil {
		return nil, duplicateTagName(err)
	}
	evictProperty(ctx, uc.cache, uc.logger, previousProperty, t.PropertyID)
	return t, nil
}

func (uc *TagUsecase) DeleteTag(ctx context.Context, id string) error {
	t, err := uc.repos.Tags.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repos.Tags.Delete(ctx, id); err != nil {
		return err
	}
	evictProperty(ctx, uc.cache, uc.logger, t.PropertyID)
	uc.logger.Info("Tag deleted", zap.String("tag_id", id))
	return nil
}

// PropertyTypeInput carries the writable type fields.
type PropertyTypeInput struct {
	Name     *string
	Sequence *int
}

type PropertyTypeUsecase struct {
	repos  Repositories
	cache  PropertyCache
	clock  domain.Clock
	logger *logger.Logger
}

func NewPropertyTypeUsecase(repos Repositories, cache PropertyCache, clock domain.Clock, log *logger.Logger) *PropertyTypeUsecase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &PropertyTypeUsecase{
		repos:  repos,
		cache:  cache,
		clock:  clock,
		logger: log.Named("PropertyTypeUsecase"),
	}
}

func duplicateTypeName(err error) error {
	if errors.Is(err, domain.ErrDuplicateName) {
		return fmt.Errorf("%w: The property type name already exists", domain.ErrDuplicateName)
	}
	return err
}

func (uc *PropertyTypeUsecase) CreatePropertyType(ctx context.Context, in PropertyTypeInput) (*domain.PropertyType, error) {
	now := uc.clock.Now()
	t := &domain.PropertyType{CreatedAt: now, UpdatedAt: now}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Sequence != nil {
		t.Sequence = *in.Sequence
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repos.Types.Create(ctx, t); err != nil {
		uc.logger.Warn("Failed to create property type", zap.String("name", t.Name), zap.Error(err))
		return nil, duplicateTypeName(err)
	}
	uc.logger.Info("Property type created", zap.String("type_id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// GetPropertyType returns the type with its offer count.
func (uc *PropertyTypeUsecase) GetPropertyType(ctx context.Context, id string) (*domain.PropertyType, error) {
	t, err := uc.repos.Types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OfferCount, err = uc.repos.Offers.CountByPropertyTypeID(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *PropertyTypeUsecase) ListPropertyTypes(ctx context.Context) ([]*domain.PropertyType, error) {
	types, err := uc.repos.Types.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.OfferCount, err = uc.repos.Offers.CountByPropertyTypeID(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (uc *PropertyTypeUsecase) UpdatePropertyType(ctx context.Context, id string, in PropertyTypeInput) (*domain.PropertyType, error) {
	t, err := uc.repos.Types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Sequence != nil {
		t.Sequence = *in.Sequence
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = uc.clock.Now()
	if err := uc.repos.Types.Update(ctx, t); err != nil {
		return nil, duplicateTypeName(err)
	}
	return t, nil
}

// DeletePropertyType removes the type and unsets it on properties and offers.
// The changed properties are evicted from the cache after commit.
func (uc *PropertyTypeUsecase) DeletePropertyType(ctx context.Context, id string) error {
	var cleared []string
	err := uc.repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cleared = nil
		if _, err := uc.repos.Types.GetByID(ctx, id); err != nil {
			return err
		}
		ids, err := uc.repos.Properties.ClearPropertyType(ctx, id)
		if err != nil {
			return err
		}
		cleared = ids
		if err := uc.repos.Offers.ClearPropertyType(ctx, id); err != nil {
			return err
		}
		return uc.repos.Types.Delete(ctx, id)
	})
	if err != nil {
		uc.logger.Warn("Property type deletion aborted", zap.String("type_id", id), zap.Error(err))
		return err
	}
	evictProperty(ctx, uc.cache, uc.logger, cleared...)
	uc.logger.Info("Property type deleted", zap.String("type_id", id), zap.Int("properties_cleared", len(cleared)))
	return nil
}
