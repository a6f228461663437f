package model

import "time"

// VaultToken maps a billing customer to a PayPal payment token (vault id).
// One row per (customer, integration); re-vaulting overwrites the token.
type VaultToken struct {
	CustomerID     string `gorm:"primaryKey;size:64;not null"`
	IntegrationKey string `gorm:"primaryKey;size:64;not null"`
	TokenID        string `gorm:"size:128;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Invoice is the narrow slice of the billing system's invoice record the
// gateway needs: whose money, how much, in what currency.
type Invoice struct {
	InvoiceID     string  `gorm:"primaryKey;size:64;not null"`
	CustomerID    string  `gorm:"size:64;index;not null"`
	Currency      string  `gorm:"size:8"`
	BalanceDue    float64 `gorm:"not null"`
	Status        string  `gorm:"size:32;index;not null"` // UNPAID, PAID
	TransactionID string  `gorm:"size:128"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventLog records billing-profile lifecycle events, currently token removals.
type EventLog struct {
	ID         uint   `gorm:"primaryKey"`
	CustomerID string `gorm:"size:64;index;not null"`
	Action     string `gorm:"size:64;not null"`
	Detail     string `gorm:"size:255"`
	CreatedAt  time.Time
}
