package mongodb

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Transactor runs a unit of work in a MongoDB multi-document transaction.
// The driver may call fn more than once on transient errors. It requires a
// replica set deployment.
type Transactor struct {
	client *mongo.Client
	logger *logger.Logger
}

func NewTransactor(client *mongo.Client, log *logger.Logger) *Transactor {
	return &Transactor{client: client, logger: log.Named("Transactor")}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		t.logger.Error("Failed to start mongo session", zap.Error(err))
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
