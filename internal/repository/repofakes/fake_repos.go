// Package repofakes provides in-memory repository implementations for tests.
package repofakes

import (
	"context"
	"sync"

	"paypal-vault-gateway/internal/model"
	"paypal-vault-gateway/internal/repository"
)

type FakeVaultRepository struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewFakeVaultRepository() *FakeVaultRepository {
	return &FakeVaultRepository{tokens: make(map[string]string)}
}

func key(customerID, integrationKey string) string {
	return customerID + "/" + integrationKey
}

func (f *FakeVaultRepository) Get(_ context.Context, customerID, integrationKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[key(customerID, integrationKey)]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	return token, nil
}

func (f *FakeVaultRepository) Set(_ context.Context, customerID, integrationKey, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[key(customerID, integrationKey)] = tokenID
	return nil
}

func (f *FakeVaultRepository) Remove(_ context.Context, customerID, integrationKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(customerID, integrationKey)
	previous, ok := f.tokens[k]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	delete(f.tokens, k)
	return previous, nil
}

type FakeInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[string]*model.Invoice
}

func NewFakeInvoiceRepository(invoices ...*model.Invoice) *FakeInvoiceRepository {
	f := &FakeInvoiceRepository{invoices: make(map[string]*model.Invoice)}
	for _, inv := range invoices {
		f.invoices[inv.InvoiceID] = inv
	}
	return f
}

func (f *FakeInvoiceRepository) Find(_ context.Context, invoiceID string) (*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return nil, repository.ErrInvoiceNotFound
	}
	copied := *invoice
	return &copied, nil
}

func (f *FakeInvoiceRepository) MarkPaid(_ context.Context, invoiceID, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[invoiceID]
	if !ok {
		return repository.ErrInvoiceNotFound
	}
	invoice.Status = "PAID"
	invoice.TransactionID = transactionID
	return nil
}

func (f *FakeInvoiceRepository) Invoice(invoiceID string) *model.Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invoices[invoiceID]
}

type FakeEventLogRepository struct {
	mu      sync.Mutex
	Entries []model.EventLog
}

func NewFakeEventLogRepository() *FakeEventLogRepository {
	return &FakeEventLogRepository{}
}

func (f *FakeEventLogRepository) Append(_ context.Context, customerID, action, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, model.EventLog{
		CustomerID: customerID,
		Action:     action,
		Detail:     detail,
	})
	return nil
}
