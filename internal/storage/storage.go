package storage

import (
	"context"

	"poolctl/internal/model"
)

// Journal records assembled operations for later audit.
type Journal interface {
	RecordOperation(ctx context.Context, op model.OperationRecord) error
}
