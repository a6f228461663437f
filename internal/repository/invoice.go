package repository

import (
	"context"
	"errors"
	"time"

	"paypal-vault-gateway/internal/model"

	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepository interface {
	Find(ctx context.Context, invoiceID string) (*model.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID, transactionID string) error
}

type invoiceRepoImpl struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepoImpl{
		db: db,
	}
}

func (r *invoiceRepoImpl) Find(ctx context.Context, invoiceID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		First(&invoice).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	return &invoice, nil
}

func (r *invoiceRepoImpl) MarkPaid(ctx context.Context, invoiceID, transactionID string) error {
	result := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{
			"status":         "PAID",
			"transaction_id": transactionID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}
