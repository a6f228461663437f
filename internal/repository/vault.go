package repository

import (
	"context"
	"errors"
	"time"

	"paypal-vault-gateway/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTokenNotFound is returned when no vault token exists for the
// (customer, integration) pair.
var ErrTokenNotFound = errors.New("vault token not found")

// VaultRepository persists the per-customer vault-token mapping. Writes are
// last-writer-wins; concurrent vaulting for the same customer is not arbitrated.
type VaultRepository interface {
	Get(ctx context.Context, customerID, integrationKey string) (string, error)
	Set(ctx context.Context, customerID, integrationKey, tokenID string) error
	Remove(ctx context.Context, customerID, integrationKey string) (string, error)
}

type vaultRepoImpl struct {
	db *gorm.DB
}

func NewVaultRepository(db *gorm.DB) VaultRepository {
	return &vaultRepoImpl{
		db: db,
	}
}

func (r *vaultRepoImpl) Get(ctx context.Context, customerID, integrationKey string) (string, error) {
	var token model.VaultToken
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND integration_key = ?", customerID, integrationKey).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	return token.TokenID, nil
}

func (r *vaultRepoImpl) Set(ctx context.Context, customerID, integrationKey, tokenID string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "integration_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token_id":   tokenID,
			"updated_at": time.Now(),
		}),
	}).Create(&model.VaultToken{
		CustomerID:     customerID,
		IntegrationKey: integrationKey,
		TokenID:        tokenID,
	}).Error
}

func (r *vaultRepoImpl) Remove(ctx context.Context, customerID, integrationKey string) (string, error) {
	previous, err := r.Get(ctx, customerID, integrationKey)
	if err != nil {
		return "", err
	}

	err = r.db.WithContext(ctx).
		Where("customer_id = ? AND integration_key = ?", customerID, integrationKey).
		Delete(&model.VaultToken{}).Error
	if err != nil {
		return "", err
	}

	return previous, nil
}
