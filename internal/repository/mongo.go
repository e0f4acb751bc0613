package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"debate-server/internal/database"
)

// opCtx ограничивает операцию с БД общим лимитом времени
func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OperationTimeout)
}

// classify переводит ошибки драйвера в ошибки слоя хранилища
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case mongo.IsTimeout(err):
		return ErrTimeout
	case mongo.IsNetworkError(err):
		return database.ErrUnavailable
	default:
		return err
	}
}

// parseID разбирает строковый идентификатор документа.
// Невалидный формат — отдельная ошибка, не ErrNotFound.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
