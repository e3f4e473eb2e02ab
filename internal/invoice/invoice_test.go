package invoice

import (
	"strings"
	"testing"

	"github.com/verticali/booking/pkg/studio"
)

func mustBooking(test *testing.T) studio.Booking {
	test.Helper()
	bookingID, err := studio.NewBookingID("booking-1")
	if err != nil {
		test.Fatalf("booking id: %v", err)
	}
	classID, err := studio.NewClassID("class-1")
	if err != nil {
		test.Fatalf("class id: %v", err)
	}
	userID, err := studio.NewUserID("user-1")
	if err != nil {
		test.Fatalf("user id: %v", err)
	}
	return studio.Booking{
		BookingID:         bookingID,
		ClassID:           classID,
		UserID:            userID,
		UserName:          "Camille",
		ClassTitle:        "Pole Débutant",
		ClassStartUnixUTC: 1_772_003_600,
		Location:          "Studio Picardia",
		PriceLabel:        "1 Crédit",
		PaymentMethod:     studio.PaymentCredit,
		PaymentStatus:     studio.PaymentStatusPaid,
		BookedAtUnixUTC:   1_772_000_000,
	}
}

func TestBookingReceiptCarriesSnapshotFields(test *testing.T) {
	test.Parallel()
	rendered := BuildBookingReceipt(mustBooking(test)).Render()
	for _, fragment := range []string{"REÇU DE RÉSERVATION", "booking-1", "Pole Débutant", "Camille", "1 Crédit", "CREDIT", "PAID"} {
		if !strings.Contains(rendered, fragment) {
			test.Fatalf("expected %q in receipt:\n%s", fragment, rendered)
		}
	}
}

func TestBookingReceiptIsDeterministic(test *testing.T) {
	test.Parallel()
	booking := mustBooking(test)
	first := BuildBookingReceipt(booking).Render()
	second := BuildBookingReceipt(booking).Render()
	if first != second {
		test.Fatalf("rendering must be deterministic")
	}
}

func TestB2BDocumentTitleFollowsLifecycle(test *testing.T) {
	test.Parallel()
	clientID, err := studio.NewClientID("client-1")
	if err != nil {
		test.Fatalf("client id: %v", err)
	}
	invoiceID, err := studio.NewInvoiceID("invoice-1")
	if err != nil {
		test.Fatalf("invoice id: %v", err)
	}
	client := studio.ProClient{
		ClientID:    clientID,
		CompanyName: "Picardie Danse SARL",
		SIRET:       "12345678900011",
		Address:     "1 rue de la Danse, 80000 Amiens",
	}
	invoice := studio.B2BInvoice{
		InvoiceID:       invoiceID,
		ClientID:        clientID,
		Label:           "Atelier entreprise",
		AmountCents:     25050,
		Status:          studio.B2BStatusQuote,
		PaymentMethod:   studio.PaymentB2BTransfer,
		PaymentStatus:   studio.PaymentStatusPending,
		IssuedAtUnixUTC: 1_772_000_000,
	}

	quote := BuildB2BDocument(invoice, client).Render()
	if !strings.Contains(quote, "DEVIS") {
		test.Fatalf("expected DEVIS title:\n%s", quote)
	}
	if !strings.Contains(quote, "250,50 €") {
		test.Fatalf("expected formatted amount:\n%s", quote)
	}

	invoice.Status = studio.B2BStatusInvoice
	bill := BuildB2BDocument(invoice, client).Render()
	if !strings.Contains(bill, "FACTURE") {
		test.Fatalf("expected FACTURE title:\n%s", bill)
	}
}
