package mongodb

import (
	"context"
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

const invoiceCollectionName = "invoices"

// InvoiceRepository implements domain.InvoiceRepository using MongoDB.
type InvoiceRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewInvoiceRepository(db *mongo.Database, log *logger.Logger) (*InvoiceRepository, error) {
	collection := db.Collection(invoiceCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	index := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}}}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		log.Error("Failed to create indexes for invoices collection", zap.Error(err))
	}

	return &InvoiceRepository{
		collection: collection,
		logger:     log.Named("InvoiceRepository"),
	}, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	doc, err := toInvoiceDocument(inv)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert invoice into DB", zap.Error(err), zap.String("property_id", inv.PropertyID))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	inv.ID = doc.ID.Hex()
	return nil
}

func (r *InvoiceRepository) FindByPropertyID(ctx context.Context, propertyID string) ([]*domain.Invoice, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*invoiceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}
	invoices := make([]*domain.Invoice, 0, len(docs))
	for _, doc := range docs {
		invoices = append(invoices, toDomainInvoice(doc))
	}
	return invoices, nil
}
