//go:build integration

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	testDBClient *mongo.Client
	testDB       *mongo.Database
	testLogger   *logger.Logger
)

// TestMain starts a single-node replica set so transactions are available.
func TestMain(m *testing.M) {
	testLogger = logger.NewNop()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
		Cmd:        []string{"--replSet", "rs0", "--bind_ip_all"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	mongoURI := fmt.Sprintf("mongodb://%s/?directConnection=true", resource.GetHostPort("27017/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testDBClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if errRetry != nil {
			return errRetry
		}
		return testDBClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	ctx := context.Background()
	initiate := bson.D{{Key: "replSetInitiate", Value: bson.M{
		"_id":     "rs0",
		"members": bson.A{bson.M{"_id": 0, "host": "localhost:27017"}},
	}}}
	if err := testDBClient.Database("admin").RunCommand(ctx, initiate).Err(); err != nil {
		log.Fatalf("Could not initiate replica set: %s", err)
	}
	if err := pool.Retry(func() error {
		var hello bson.M
		if err := testDBClient.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
			return err
		}
		if primary, _ := hello["isWritablePrimary"].(bool); !primary {
			return errors.New("replica set has no primary yet")
		}
		return nil
	}); err != nil {
		log.Fatalf("Replica set did not elect a primary: %s", err)
	}

	testDB = testDBClient.Database("test_estate_db")

	code := m.Run()

	_ = testDBClient.Disconnect(ctx)
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	for _, name := range []string{propertyCollectionName, offerCollectionName, tagCollectionName, invoiceCollectionName} {
		_, err := testDB.Collection(name).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err)
	}
}

func newStoredProperty(t *testing.T, repo *PropertyRepository, name string, expected float64) *domain.Property {
	t.Helper()
	p := domain.NewProperty(name, expected, expected, "user-1", time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPropertyRepository_CRUD(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	repo, err := NewPropertyRepository(testDB, testLogger)
	require.NoError(t, err)

	p := newStoredProperty(t, repo, "Canal house", 125000)
	require.NotEmpty(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canal house", got.Name)
	assert.Equal(t, domain.StateNew, got.State)
	assert.Empty(t, got.PropertyTypeID)

	got.PropertyTypeID = "type-1"
	got.BuyerID = "partner-1"
	require.NoError(t, repo.Update(ctx, got))
	got.PropertyTypeID = ""
	require.NoError(t, repo.Update(ctx, got))

	var raw bson.M
	require.NoError(t, testDB.Collection(propertyCollectionName).FindOne(ctx, bson.M{}).Decode(&raw))
	assert.NotContains(t, raw, "property_type_id")
	assert.Equal(t, "partner-1", raw["buyer_id"])

	require.NoError(t, repo.AddPhoto(ctx, p.ID, "http://minio/estate/a.jpg"))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://minio/estate/a.jpg"}, got.Photos)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPropertyRepository_Find(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	repo, err := NewPropertyRepository(testDB, testLogger)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		newStoredProperty(t, repo, fmt.Sprintf("House %d", i), float64(i*100000))
	}

	all, total, err := repo.Find(ctx, domain.PropertyFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, all, 2)
	assert.Equal(t, "House 5", all[0].Name)

	ranged, total, err := repo.Find(ctx, domain.PropertyFilter{MinPrice: 200000, MaxPrice: 400000, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, ranged, 3)

	state := domain.StateSold
	none, total, err := repo.Find(ctx, domain.PropertyFilter{State: &state, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestOfferRepository_OrderingAndTypes(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	repo, err := NewOfferRepository(testDB, testLogger)
	require.NoError(t, err)

	for _, price := range []float64{100000, 130000, 120000} {
		require.NoError(t, repo.Create(ctx, &domain.Offer{PropertyID: "p1", PartnerID: "partner", Price: price, PropertyTypeID: "t1"}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Offer{PropertyID: "p2", PartnerID: "partner", Price: 5000}))

	offers, err := repo.FindByPropertyID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, 130000.0, offers[0].Price)
	assert.Equal(t, 100000.0, offers[2].Price)

	count, err := repo.CountByPropertyTypeID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, repo.SetPropertyType(ctx, "p2", "t1"))
	count, err = repo.CountByPropertyTypeID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	require.NoError(t, repo.ClearPropertyType(ctx, "t1"))
	count, err = repo.CountByPropertyTypeID(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, count)

	deadline := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	offers[0].Deadline = &deadline
	offers[0].Validity = 7
	offers[0].Status = domain.OfferStatusAccepted
	require.NoError(t, repo.Update(ctx, offers[0]))
	got, err := repo.GetByID(ctx, offers[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Deadline)
	assert.True(t, deadline.Equal(*got.Deadline))
	assert.Equal(t, domain.OfferStatusAccepted, got.Status)

	require.NoError(t, repo.DeleteByPropertyID(ctx, "p1"))
	offers, err = repo.FindByPropertyID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestCatalogRepositories_UniqueNames(t *testing.T) {
	clearCollections(t)
	_, err := testDB.Collection(typeCollectionName).DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err)
	ctx := context.Background()

	tags, err := NewTagRepository(testDB, testLogger)
	require.NoError(t, err)
	require.NoError(t, tags.Create(ctx, &domain.PropertyTag{Name: "cozy", Sequence: 2, PropertyID: "p1"}))
	require.NoError(t, tags.Create(ctx, &domain.PropertyTag{Name: "renovated", Sequence: 1, PropertyID: "p1"}))
	err = tags.Create(ctx, &domain.PropertyTag{Name: "cozy"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	list, err := tags.List(ctx, domain.TagFilter{PropertyID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "renovated", list[0].Name)

	types, err := NewPropertyTypeRepository(testDB, testLogger)
	require.NoError(t, err)
	require.NoError(t, types.Create(ctx, &domain.PropertyType{Name: "House", Sequence: 1}))
	require.NoError(t, types.Create(ctx, &domain.PropertyType{Name: "Apartment", Sequence: 1}))
	err = types.Create(ctx, &domain.PropertyType{Name: "House"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	all, err := types.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Apartment", all[0].Name)
}

func TestCatalogRepositories_IndexConflictFails(t *testing.T) {
	ctx := context.Background()
	db := testDBClient.Database("test_estate_index_conflict")
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	// A plain index on name blocks the unique one with the same key.
	for _, name := range []string{tagCollectionName, typeCollectionName} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}})
		require.NoError(t, err)
	}

	_, err := NewTagRepository(db, testLogger)
	assert.ErrorIs(t, err, domain.ErrRepository)
	_, err = NewPropertyTypeRepository(db, testLogger)
	assert.ErrorIs(t, err, domain.ErrRepository)
}

func TestPropertyRepository_ClearPropertyTypeReturnsIDs(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	repo, err := NewPropertyRepository(testDB, testLogger)
	require.NoError(t, err)

	house := newStoredProperty(t, repo, "House one", 100000)
	house.PropertyTypeID = "t1"
	require.NoError(t, repo.Update(ctx, house))
	other := newStoredProperty(t, repo, "Flat", 90000)
	other.PropertyTypeID = "t2"
	require.NoError(t, repo.Update(ctx, other))
	newStoredProperty(t, repo, "Untyped", 80000)

	ids, err := repo.ClearPropertyType(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{house.ID}, ids)

	got, err := repo.GetByID(ctx, house.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PropertyTypeID)
	got, err = repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.PropertyTypeID)

	ids, err = repo.ClearPropertyType(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTransactor_RollsBack(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()
	props, err := NewPropertyRepository(testDB, testLogger)
	require.NoError(t, err)
	invoices, err := NewInvoiceRepository(testDB, testLogger)
	require.NoError(t, err)
	tx := NewTransactor(testDBClient, testLogger)

	p := newStoredProperty(t, props, "Canal house", 125000)
	p.BuyerID = "partner-1"
	p.BestOffer = 130000

	abort := errors.New("abort")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p.State = domain.StateSold
		if err := props.Update(ctx, p); err != nil {
			return err
		}
		inv, err := domain.NewSaleInvoice(p, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		return abort
	})
	assert.ErrorIs(t, err, abort)

	got, err := props.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNew, got.State)
	stored, err := invoices.FindByPropertyID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := domain.NewSaleInvoice(p, time.Now().UTC())
		if err != nil {
			return err
		}
		return invoices.Create(ctx, inv)
	}))
	stored, err = invoices.FindByPropertyID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 7900.0, stored[0].Total())
}
