package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxTagColor is the highest color index a tag may use; 0 means no color.
const MaxTagColor = 11

// PropertyTag labels a property.
type PropertyTag struct {
	ID         string
	Name       string
	Color      int
	Sequence   int
	PropertyID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t *PropertyTag) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: tag name is required", ErrConstraint)
	}
	if t.Color < 0 || t.Color > MaxTagColor {
		return fmt.Errorf("%w: tag color must be between 0 and %d", ErrConstraint, MaxTagColor)
	}
	return nil
}

// PropertyType groups properties, e.g. house or apartment.
type PropertyType struct {
	ID        string
	Name      string
	Sequence  int
	CreatedAt time.Time
	UpdatedAt time.Time

	// OfferCount is computed on read.
	OfferCount int64
}

func (t *PropertyType) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: property type name is required", ErrConstraint)
	}
	return nil
}

// TagFilter holds parameters for listing tags.
type TagFilter struct {
	PropertyID string
}
