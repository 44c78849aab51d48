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

const offerCollectionName = "offers"

// OfferRepository implements domain.OfferRepository using MongoDB.
type OfferRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOfferRepository(db *mongo.Database, log *logger.Logger) (*OfferRepository, error) {
	collection := db.Collection(offerCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "price", Value: -1}}},
		{Keys: bson.D{{Key: "property_type_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for offers collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for offers collection")
	}

	return &OfferRepository{
		collection: collection,
		logger:     log.Named("OfferRepository"),
	}, nil
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	doc, err := toOfferDocument(o)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert offer into DB", zap.Error(err), zap.String("property_id", o.PropertyID))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	var doc offerDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: offer %s", domain.ErrNotFound, id)
		}
		r.logger.Error("Failed to get offer by ID from DB", zap.Error(err), zap.String("offer_id", id))
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainOffer(&doc), nil
}

func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	doc, err := toOfferDocument(o)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("%w: cannot update offer without ID", domain.ErrInvalidInput)
	}

	set := bson.M{
		"partner_id": doc.PartnerID,
		"price":      doc.Price,
		"status":     doc.Status,
		"validity":   doc.Validity,
		"updated_at": doc.UpdatedAt,
	}
	unset := bson.M{}
	if doc.Deadline != nil {
		set["date_deadline"] = doc.Deadline
	} else {
		unset["date_deadline"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update offer in DB", zap.Error(err), zap.String("offer_id", o.ID))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: offer %s", domain.ErrNotFound, o.ID)
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete offer from DB", zap.Error(err), zap.String("offer_id", id))
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: offer %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *OfferRepository) FindByPropertyID(ctx context.Context, propertyID string) ([]*domain.Offer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find offers by property_id", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*offerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}
	offers := make([]*domain.Offer, 0, len(docs))
	for _, doc := range docs {
		offers = append(offers, toDomainOffer(doc))
	}
	return offers, nil
}

func (r *OfferRepository) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	res, err := r.collection.DeleteMany(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		r.logger.Error("Failed to delete offers by property_id", zap.Error(err), zap.String("property_id", propertyID))
		return fmt.Errorf("%w: db delete many failed: %v", domain.ErrRepository, err)
	}
	r.logger.Debug("Offers deleted with property", zap.String("property_id", propertyID), zap.Int64("count", res.DeletedCount))
	return nil
}

func (r *OfferRepository) CountByPropertyTypeID(ctx context.Context, typeID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"property_type_id": typeID})
	if err != nil {
		return 0, fmt.Errorf("%w: db count failed: %v", domain.ErrRepository, err)
	}
	return count, nil
}

func (r *OfferRepository) SetPropertyType(ctx context.Context, propertyID, typeID string) error {
	update := bson.M{"$set": bson.M{"property_type_id": typeID}}
	if typeID == "" {
		update = bson.M{"$unset": bson.M{"property_type_id": ""}}
	}
	if _, err := r.collection.UpdateMany(ctx, bson.M{"property_id": propertyID}, update); err != nil {
		r.logger.Error("Failed to set property type on offers", zap.Error(err), zap.String("property_id", propertyID))
		return fmt.Errorf("%w: db update many failed: %v", domain.ErrRepository, err)
	}
	return nil
}

func (r *OfferRepository) ClearPropertyType(ctx context.Context, typeID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"property_type_id": typeID},
		bson.M{"$unset": bson.M{"property_type_id": ""}},
	)
	if err != nil {
		r.logger.Error("Failed to clear property type on offers", zap.Error(err), zap.String("type_id", typeID))
		return fmt.Errorf("%w: db update many failed: %v", domain.ErrRepository, err)
	}
	return nil
}
