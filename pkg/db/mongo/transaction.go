package mongo

import (
	"context"
	"fmt"

	apperrors "roomly/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionFunc receives the session-bound context; callers thread it
// into every read and write that must join the transaction.
type TransactionFunc func(ctx context.Context) error

// TransactionManager serializes a conflict check and the subsequent write
// into one unit: either both commit or neither does.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
