package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postqms/branch-queue/internal/model"
)

// OperationRepo reads services from the `operations` table.
type OperationRepo struct {
	db *sql.DB
}

// NewOperationRepo returns an OperationRepo bound to the given database.
func NewOperationRepo(db *sql.DB) *OperationRepo { return &OperationRepo{db: db} }

// GetByID fetches one operation, returning ErrNotFound when it is unknown.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (model.Operation, error) {
	const q = `SELECT id, name, description, COALESCE(operation_group_id, '') FROM operations WHERE id = ?`
	var op model.Operation
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&op.ID, &op.Name, &desc, &op.OperationGroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Operation{}, ErrNotFound
	}
	if err != nil {
		return model.Operation{}, err
	}
	op.Description = desc.String
	return op, nil
}

// ListByGroup returns the operations of an operation group ordered by id.
// An empty slice means the group is unknown or offers nothing.
func (r *OperationRepo) ListByGroup(ctx context.Context, groupID string) ([]model.Operation, error) {
	const q = `SELECT id, name, description, operation_group_id FROM operations
			   WHERE operation_group_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ops := make([]model.Operation, 0)
	for rows.Next() {
		var op model.Operation
		var desc sql.NullString
		if err := rows.Scan(&op.ID, &op.Name, &desc, &op.OperationGroupID); err != nil {
			return nil, err
		}
		op.Description = desc.String
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}
