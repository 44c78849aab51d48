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

const (
	tagCollectionName  = "property_tags"
	typeCollectionName = "property_types"
)

// ensureUniqueName creates the index enforcing unique names.
func ensureUniqueName(collection *mongo.Collection, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		log.Error("Failed to create unique name index", zap.String("collection", collection.Name()), zap.Error(err))
		return fmt.Errorf("%w: create unique name index on %s: %v", domain.ErrRepository, collection.Name(), err)
	}
	log.Info("Successfully ensured unique name index", zap.String("collection", collection.Name()))
	return nil
}

// TagRepository implements domain.TagRepository using MongoDB.
type TagRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewTagRepository(db *mongo.Database, log *logger.Logger) (*TagRepository, error) {
	collection := db.Collection(tagCollectionName)
	if err := ensureUniqueName(collection, log); err != nil {
		return nil, err
	}
	return &TagRepository{
		collection: collection,
		logger:     log.Named("TagRepository"),
	}, nil
}

func (r *TagRepository) Create(ctx context.Context, t *domain.PropertyTag) error {
	doc, err := toTagDocument(t)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		r.logger.Error("Failed to insert tag into DB", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (r *TagRepository) GetByID(ctx context.Context, id string) (*domain.PropertyTag, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	var doc tagDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: tag %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainTag(&doc), nil
}

func (r *TagRepository) Update(ctx context.Context, t *domain.PropertyTag) error {
	doc, err := toTagDocument(t)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("%w: cannot update tag without ID", domain.ErrInvalidInput)
	}
	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"color":      doc.Color,
		"sequence":   doc.Sequence,
		"updated_at": doc.UpdatedAt,
	}}
	if doc.PropertyID != "" {
		update["$set"].(bson.M)["property_id"] = doc.PropertyID
	} else {
		update["$unset"] = bson.M{"property_id": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		r.logger.Error("Failed to update tag in DB", zap.Error(err), zap.String("tag_id", t.ID))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: tag %s", domain.ErrNotFound, t.ID)
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: tag %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *TagRepository) List(ctx context.Context, filter domain.TagFilter) ([]*domain.PropertyTag, error) {
	query := bson.M{}
	if filter.PropertyID != "" {
		query["property_id"] = filter.PropertyID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*tagDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}
	tags := make([]*domain.PropertyTag, 0, len(docs))
	for _, doc := range docs {
		tags = append(tags, toDomainTag(doc))
	}
	return tags, nil
}

func (r *TagRepository) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"property_id": propertyID}); err != nil {
		r.logger.Error("Failed to delete tags by property_id", zap.Error(err), zap.String("property_id", propertyID))
		return fmt.Errorf("%w: db delete many failed: %v", domain.ErrRepository, err)
	}
	return nil
}

// PropertyTypeRepository implements domain.PropertyTypeRepository using MongoDB.
type PropertyTypeRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewPropertyTypeRepository(db *mongo.Database, log *logger.Logger) (*PropertyTypeRepository, error) {
	collection := db.Collection(typeCollectionName)
	if err := ensureUniqueName(collection, log); err != nil {
		return nil, err
	}
	return &PropertyTypeRepository{
		collection: collection,
		logger:     log.Named("PropertyTypeRepository"),
	}, nil
}

func (r *PropertyTypeRepository) Create(ctx context.Context, t *domain.PropertyType) error {
	doc, err := toPropertyTypeDocument(t)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		r.logger.Error("Failed to insert property type into DB", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (r *PropertyTypeRepository) GetByID(ctx context.Context, id string) (*domain.PropertyType, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	var doc propertyTypeDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: property type %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return toDomainPropertyType(&doc), nil
}

func (r *PropertyTypeRepository) Update(ctx context.Context, t *domain.PropertyType) error {
	doc, err := toPropertyTypeDocument(t)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("%w: cannot update property type without ID", domain.ErrInvalidInput)
	}
	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"sequence":   doc.Sequence,
		"updated_at": doc.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		r.logger.Error("Failed to update property type in DB", zap.Error(err), zap.String("type_id", t.ID))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: property type %s", domain.ErrNotFound, t.ID)
	}
	return nil
}

func (r *PropertyTypeRepository) Delete(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: property type %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PropertyTypeRepository) List(ctx context.Context) ([]*domain.PropertyType, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		r.logger.Error("Failed to list property types", zap.Error(err))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*propertyTypeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}
	types := make([]*domain.PropertyType, 0, len(docs))
	for _, doc := range docs {
		types = append(types, toDomainPropertyType(doc))
	}
	return types, nil
}
