// Package invoice renders booking receipts and B2B quote/invoice documents
// as plain text. Rendering is deterministic: the same inputs always produce
// the same bytes, so documents can be regenerated and diffed.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/verticali/booking/pkg/studio"
)

const (
	studioName    = "Studio Picardia"
	documentQuote = "DEVIS"
	documentBill  = "FACTURE"
	receiptTitle  = "REÇU DE RÉSERVATION"

	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Line is one labelled row of a document.
type Line struct {
	Label string
	Value string
}

// Document is a rendered-ready receipt or invoice.
type Document struct {
	Title     string
	Reference string
	IssuedAt  time.Time
	Lines     []Line
}

// Render produces the document as plain text.
func (document Document) Render() string {
	var builder strings.Builder
	builder.WriteString(studioName + "\n")
	builder.WriteString(document.Title + "\n")
	builder.WriteString("Référence: " + document.Reference + "\n")
	builder.WriteString("Date: " + document.IssuedAt.UTC().Format(dateLayout) + "\n")
	builder.WriteString(strings.Repeat("-", 40) + "\n")
	for _, line := range document.Lines {
		builder.WriteString(fmt.Sprintf("%-20s %s\n", line.Label+":", line.Value))
	}
	return builder.String()
}

// BuildBookingReceipt renders a receipt for one booking from its snapshot
// fields alone, never from live class state.
func BuildBookingReceipt(booking studio.Booking) Document {
	startAt := time.Unix(booking.ClassStartUnixUTC, 0).UTC()
	return Document{
		Title:     receiptTitle,
		Reference: booking.BookingID.String(),
		IssuedAt:  time.Unix(booking.BookedAtUnixUTC, 0).UTC(),
		Lines: []Line{
			{Label: "Cours", Value: booking.ClassTitle},
			{Label: "Date", Value: startAt.Format(dateLayout)},
			{Label: "Heure", Value: startAt.Format(timeLayout)},
			{Label: "Lieu", Value: booking.Location},
			{Label: "Participant", Value: booking.UserName},
			{Label: "Tarif", Value: booking.PriceLabel},
			{Label: "Règlement", Value: booking.PaymentMethod.String()},
			{Label: "Statut", Value: booking.PaymentStatus.String()},
		},
	}
}

// BuildB2BDocument renders a quote or invoice for a professional client.
// The title follows the lifecycle state: DEVIS before finalization, FACTURE
// after.
func BuildB2BDocument(invoice studio.B2BInvoice, client studio.ProClient) Document {
	title := documentQuote
	if invoice.Status == studio.B2BStatusInvoice {
		title = documentBill
	}
	return Document{
		Title:     title,
		Reference: invoice.InvoiceID.String(),
		IssuedAt:  time.Unix(invoice.IssuedAtUnixUTC, 0).UTC(),
		Lines: []Line{
			{Label: "Client", Value: client.CompanyName},
			{Label: "SIRET", Value: client.SIRET},
			{Label: "Adresse", Value: client.Address},
			{Label: "Prestation", Value: invoice.Label},
			{Label: "Montant", Value: formatAmount(invoice.AmountCents)},
			{Label: "Règlement", Value: invoice.PaymentMethod.String()},
			{Label: "Statut", Value: invoice.PaymentStatus.String()},
		},
	}
}

func formatAmount(amountCents int64) string {
	return fmt.Sprintf("%d,%02d €", amountCents/100, amountCents%100)
}
