package repository

import (
	"context"

	"paypal-vault-gateway/internal/model"

	"gorm.io/gorm"
)

type EventLogRepository interface {
	Append(ctx context.Context, customerID, action, detail string) error
}

type eventLogRepoImpl struct {
	db *gorm.DB
}

func NewEventLogRepository(db *gorm.DB) EventLogRepository {
	return &eventLogRepoImpl{db: db}
}

func (r *eventLogRepoImpl) Append(ctx context.Context, customerID, action, detail string) error {
	return r.db.WithContext(ctx).Create(&model.EventLog{
		CustomerID: customerID,
		Action:     action,
		Detail:     detail,
	}).Error
}
