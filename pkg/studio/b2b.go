package studio

import (
	"context"
	"fmt"
	"strings"
)

// CreateProClient registers a professional customer.
func (service *Service) CreateProClient(ctx context.Context, client ProClient) (ProClient, error) {
	if err := client.Validate(); err != nil {
		return ProClient{}, err
	}
	clientID, err := NewClientID(service.idFn())
	if err != nil {
		return ProClient{}, err
	}
	client.ClientID = clientID
	if err := service.store.CreateProClient(ctx, client); err != nil {
		return ProClient{}, err
	}
	return client, nil
}

// GetProClient returns one professional customer.
func (service *Service) GetProClient(ctx context.Context, clientID ClientID) (ProClient, error) {
	return service.store.GetProClient(ctx, clientID)
}

// ListProClients returns every professional customer.
func (service *Service) ListProClients(ctx context.Context) ([]ProClient, error) {
	return service.store.ListProClients(ctx)
}

// CreateB2BQuote opens a professional document in the DEVIS state. B2B
// documents carry no capacity or credit coupling, so creation is a plain
// insert rather than a multi-document envelope.
func (service *Service) CreateB2BQuote(ctx context.Context, clientID ClientID, label string, amountCents int64, method PaymentMethod) (B2BInvoice, error) {
	if strings.TrimSpace(label) == "" {
		return B2BInvoice{}, fmt.Errorf("%w: label is required", ErrInvalidB2BStatus)
	}
	if amountCents <= 0 {
		return B2BInvoice{}, fmt.Errorf("%w: amount must be positive", ErrInvalidB2BStatus)
	}
	if _, err := ParsePaymentMethod(method.String()); err != nil {
		return B2BInvoice{}, err
	}
	if _, err := service.store.GetProClient(ctx, clientID); err != nil {
		return B2BInvoice{}, err
	}
	invoiceID, err := NewInvoiceID(service.idFn())
	if err != nil {
		return B2BInvoice{}, err
	}
	invoice := B2BInvoice{
		InvoiceID:       invoiceID,
		ClientID:        clientID,
		Label:           strings.TrimSpace(label),
		AmountCents:     amountCents,
		Status:          B2BStatusQuote,
		PaymentMethod:   method,
		PaymentStatus:   PaymentStatusPending,
		IssuedAtUnixUTC: service.nowFn(),
	}
	operationError := service.store.CreateB2BInvoice(ctx, invoice)
	service.logOperation(ctx, OperationLog{
		Operation: operationQuoteCreate,
		Error:     operationError,
	})
	if operationError != nil {
		return B2BInvoice{}, operationError
	}
	return invoice, nil
}

// FinalizeB2BInvoice promotes DEVIS to FACTURE. The promotion is one-way
// and re-stamps the issue date.
func (service *Service) FinalizeB2BInvoice(ctx context.Context, invoiceID InvoiceID) (B2BInvoice, error) {
	var finalized B2BInvoice
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		invoice, err := transactionStore.GetB2BInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != B2BStatusQuote {
			return ErrQuoteFinalized
		}
		invoice.Status = B2BStatusInvoice
		invoice.IssuedAtUnixUTC = service.nowFn()
		finalized = invoice
		return transactionStore.UpdateB2BInvoice(ctx, invoice)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationQuoteFinalize,
		Error:     operationError,
	})
	if operationError != nil {
		return B2BInvoice{}, operationError
	}
	return finalized, nil
}

// ToggleB2BPaymentStatus flips PENDING and PAID on a professional
// document independently of its DEVIS/FACTURE state.
func (service *Service) ToggleB2BPaymentStatus(ctx context.Context, invoiceID InvoiceID) (B2BInvoice, error) {
	var toggled B2BInvoice
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		invoice, err := transactionStore.GetB2BInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		invoice.PaymentStatus = invoice.PaymentStatus.Toggled()
		toggled = invoice
		return transactionStore.UpdateB2BInvoice(ctx, invoice)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationB2BToggle,
		Error:     operationError,
	})
	if operationError != nil {
		return B2BInvoice{}, operationError
	}
	return toggled, nil
}

// GetB2BInvoice returns one professional document.
func (service *Service) GetB2BInvoice(ctx context.Context, invoiceID InvoiceID) (B2BInvoice, error) {
	return service.store.GetB2BInvoice(ctx, invoiceID)
}

// ListB2BInvoices returns every professional document.
func (service *Service) ListB2BInvoices(ctx context.Context) ([]B2BInvoice, error) {
	return service.store.ListB2BInvoices(ctx)
}
