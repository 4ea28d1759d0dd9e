package repositories

import (
	"context"

	"checky/internal/models"
	"checky/pkg/database"

	"github.com/google/uuid"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, key *models.ApiKey) error
	GetByHash(ctx context.Context, keyHash string) (*models.ApiKey, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.ApiKey, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}

type apiKeyRepo struct {
	db database.DB
}

func NewApiKeyRepo(db database.DB) ApiKeyRepository {
	return &apiKeyRepo{db: db}
}

const apiKeyColumns = `id, tenant_id, key_hash, key_prefix, description, is_active, last_used_at, expires_at, created_at`

func scanApiKey(row rowScanner) (*models.ApiKey, error) {
	k := &models.ApiKey{}
	if err := row.Scan(&k.ID, &k.TenantID, &k.KeyHash, &k.KeyPrefix, &k.Description, &k.IsActive,
		&k.LastUsedAt, &k.ExpiresAt, &k.CreatedAt); err != nil {
		return nil, err
	}
	return k, nil
}

func (r *apiKeyRepo) Create(ctx context.Context, key *models.ApiKey) error {
	query := `
		INSERT INTO api_keys (id, tenant_id, key_hash, key_prefix, description, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, key.ID, key.TenantID, key.KeyHash, key.KeyPrefix, key.Description, key.ExpiresAt)
	return translateErr("api key", err)
}

// GetByHash is the only unscoped lookup: it is how a tenant is resolved.
// Keys of deactivated restaurants are not returned.
func (r *apiKeyRepo) GetByHash(ctx context.Context, keyHash string) (*models.ApiKey, error) {
	query := `
		SELECT k.id, k.tenant_id, k.key_hash, k.key_prefix, k.description, k.is_active, k.last_used_at,
			k.expires_at, k.created_at
		FROM api_keys k
		JOIN restaurants r ON r.id = k.tenant_id
		WHERE k.key_hash = $1 AND k.is_active = TRUE AND r.is_active = TRUE
	`
	key, err := scanApiKey(r.db.QueryRow(ctx, query, keyHash))
	if err != nil {
		return nil, translateErr("api key", err)
	}
	return key, nil
}

func (r *apiKeyRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.ApiKey, error) {
	query := `SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.ApiKey
	for rows.Next() {
		key, err := scanApiKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *apiKeyRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE api_keys SET is_active = FALSE WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr("api key", errNoRows)
	}
	return nil
}
