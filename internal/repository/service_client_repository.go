package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/postqms/branch-queue/internal/model"
)

// ServiceClientRepo validates API consumers against the `service_clients`
// table.  Secret tokens are stored only as SHA-256 hashes; lookups are by
// hash so stolen table contents cannot authenticate.
type ServiceClientRepo struct {
	db *sql.DB
}

// NewServiceClientRepo returns a ServiceClientRepo bound to the database.
func NewServiceClientRepo(db *sql.DB) *ServiceClientRepo { return &ServiceClientRepo{db: db} }

// GetByTokenHash fetches the client owning the hashed secret token,
// returning ErrNotFound for unknown tokens.
func (r *ServiceClientRepo) GetByTokenHash(ctx context.Context, tokenHash string) (model.ServiceClient, error) {
	const q = `SELECT id, name, token_hash, created_at FROM service_clients WHERE token_hash = ?`
	var sc model.ServiceClient
	err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(&sc.ID, &sc.Name, &sc.TokenHash, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceClient{}, ErrNotFound
	}
	if err != nil {
		return model.ServiceClient{}, err
	}
	return sc, nil
}
