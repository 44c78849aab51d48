package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const propertyCollectionName = "properties"

// PropertyRepository implements domain.PropertyRepository using MongoDB.
type PropertyRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewPropertyRepository(db *mongo.Database, log *logger.Logger) (*PropertyRepository, error) {
	collection := db.Collection(propertyCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "property_type_id", Value: 1}}},
		{Keys: bson.D{{Key: "salesman_id", Value: 1}}},
		{Keys: bson.D{{Key: "expected_price", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for properties collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for properties collection")
	}

	return &PropertyRepository{
		collection: collection,
		logger:     log.Named("PropertyRepository"),
	}, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	doc, err := toPropertyDocument(p)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert property into DB", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	p.ID = doc.ID.Hex()
	r.logger.Debug("Property created in DB", zap.String("property_id", p.ID))
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	var doc propertyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
		}
		r.logger.Error("Failed to get property by ID from DB", zap.Error(err), zap.String("property_id", id))
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainProperty(&doc), nil
}

// Update replaces the stored fields of p. An empty type or buyer is removed
// from the document rather than stored as an empty string.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	doc, err := toPropertyDocument(p)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("%w: cannot update property without ID", domain.ErrInvalidInput)
	}

	set := bson.M{
		"name":               doc.Name,
		"description":        doc.Description,
		"postcode":           doc.Postcode,
		"expected_price":     doc.ExpectedPrice,
		"selling_price":      doc.SellingPrice,
		"bedrooms":           doc.Bedrooms,
		"living_area":        doc.LivingArea,
		"facades":            doc.Facades,
		"garage":             doc.Garage,
		"garden":             doc.Garden,
		"garden_area":        doc.GardenArea,
		"garden_orientation": doc.GardenOrientation,
		"salesman_id":        doc.SalesmanID,
		"best_offer":         doc.BestOffer,
		"state":              doc.State,
		"photos":             doc.Photos,
		"updated_at":         doc.UpdatedAt,
	}
	unset := bson.M{}
	if doc.DateAvailability != nil {
		set["date_availability"] = doc.DateAvailability
	} else {
		unset["date_availability"] = ""
	}
	if doc.PropertyTypeID != "" {
		set["property_type_id"] = doc.PropertyTypeID
	} else {
		unset["property_type_id"] = ""
	}
	if doc.BuyerID != "" {
		set["buyer_id"] = doc.BuyerID
	} else {
		unset["buyer_id"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update property in DB", zap.Error(err), zap.String("property_id", p.ID))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: property %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete property from DB", zap.Error(err), zap.String("property_id", id))
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
	}
	return nil
}

func buildPropertyQuery(filter domain.PropertyFilter) bson.M {
	query := bson.M{}
	if filter.State != nil {
		query["state"] = *filter.State
	}
	if filter.PropertyTypeID != "" {
		query["property_type_id"] = filter.PropertyTypeID
	}
	if filter.SalesmanID != "" {
		query["salesman_id"] = filter.SalesmanID
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["expected_price"] = price
	}
	return query
}

func (r *PropertyRepository) Find(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	r.logger.Debug("Finding properties in DB", zap.Any("filter", filter))
	query := buildPropertyQuery(filter)

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
		if filter.Page > 0 {
			findOptions.SetSkip(int64(filter.Page-1) * int64(filter.Limit))
		}
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to find properties in DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode properties from DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}

	properties := make([]*domain.Property, 0, len(docs))
	for _, doc := range docs {
		properties = append(properties, toDomainProperty(doc))
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count properties in DB", zap.Error(err))
		return nil, 0, fmt.Errorf("%w: db count failed: %v", domain.ErrRepository, err)
	}
	return properties, total, nil
}

func (r *PropertyRepository) AddPhoto(ctx context.Context, id, url string) error {
	oid, err := lookupID(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$push": bson.M{"photos": url},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error("Failed to add photo to property", zap.Error(err), zap.String("property_id", id))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PropertyRepository) ClearPropertyType(ctx context.Context, typeID string) ([]string, error) {
	query := bson.M{"property_type_id": typeID}
	cursor, err := r.collection.Find(ctx, query, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		r.logger.Error("Failed to find properties of type", zap.Error(err), zap.String("type_id", typeID))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor decode failed: %v", domain.ErrRepository, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(docs))
	oids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
		oids = append(oids, d.ID)
	}
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$unset": bson.M{"property_type_id": ""}},
	)
	if err != nil {
		r.logger.Error("Failed to clear property type on properties", zap.Error(err), zap.String("type_id", typeID))
		return nil, fmt.Errorf("%w: db update many failed: %v", domain.ErrRepository, err)
	}
	return ids, nil
}
