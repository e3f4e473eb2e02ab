package httpserver

import "github.com/verticali/booking/pkg/studio"

type classPayload struct {
	ClassID        string `json:"classId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Instructor     string `json:"instructor"`
	Location       string `json:"location"`
	LocationAddr   string `json:"locationAddr"`
	StartAtUnixUTC int64  `json:"startAtUnixUtc"`
	EndAtUnixUTC   int64  `json:"endAtUnixUtc"`
	PriceLabel     string `json:"priceLabel"`
	MaxCapacity    int    `json:"maxCapacity"`
	AttendeeCount  int    `json:"attendeeCount"`
	Archived       bool   `json:"archived"`
}

func classPayloadFrom(class studio.ClassSession) classPayload {
	return classPayload{
		ClassID:        class.ClassID.String(),
		Title:          class.Title,
		Description:    class.Description,
		Instructor:     class.Instructor,
		Location:       class.Location,
		LocationAddr:   class.LocationAddr,
		StartAtUnixUTC: class.StartAtUnixUTC,
		EndAtUnixUTC:   class.EndAtUnixUTC,
		PriceLabel:     class.PriceLabel,
		MaxCapacity:    class.MaxCapacity,
		AttendeeCount:  class.AttendeeCount,
		Archived:       class.Archived,
	}
}

func classPayloadsFrom(classes []studio.ClassSession) []classPayload {
	payloads := make([]classPayload, 0, len(classes))
	for _, class := range classes {
		payloads = append(payloads, classPayloadFrom(class))
	}
	return payloads
}

type bookingPayload struct {
	BookingID         string `json:"bookingId"`
	ClassID           string `json:"classId"`
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	ClassTitle        string `json:"classTitle"`
	ClassStartUnixUTC int64  `json:"classStartUnixUtc"`
	Location          string `json:"location"`
	PriceLabel        string `json:"priceLabel"`
	PaymentMethod     string `json:"paymentMethod"`
	PaymentStatus     string `json:"paymentStatus"`
	Manual            bool   `json:"manual"`
	BookedAtUnixUTC   int64  `json:"bookedAtUnixUtc"`
}

func bookingPayloadFrom(booking studio.Booking) bookingPayload {
	return bookingPayload{
		BookingID:         booking.BookingID.String(),
		ClassID:           booking.ClassID.String(),
		UserID:            booking.UserID.String(),
		UserName:          booking.UserName,
		ClassTitle:        booking.ClassTitle,
		ClassStartUnixUTC: booking.ClassStartUnixUTC,
		Location:          booking.Location,
		PriceLabel:        booking.PriceLabel,
		PaymentMethod:     booking.PaymentMethod.String(),
		PaymentStatus:     booking.PaymentStatus.String(),
		Manual:            booking.Manual,
		BookedAtUnixUTC:   booking.BookedAtUnixUTC,
	}
}

func bookingPayloadsFrom(bookings []studio.Booking) []bookingPayload {
	payloads := make([]bookingPayload, 0, len(bookings))
	for _, booking := range bookings {
		payloads = append(payloads, bookingPayloadFrom(booking))
	}
	return payloads
}

type userPayload struct {
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	Role             string `json:"role"`
	Credits          int64  `json:"credits"`
	Street           string `json:"street"`
	ZipCode          string `json:"zipCode"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	FormCompleted    bool   `json:"formCompleted"`
}

func userPayloadFrom(account studio.UserAccount) userPayload {
	return userPayload{
		UserID:           account.UserID.String(),
		Email:            account.Email,
		DisplayName:      account.DisplayName,
		Role:             account.Role.String(),
		Credits:          account.Credits.Int64(),
		Street:           account.Profile.Street,
		ZipCode:          account.Profile.ZipCode,
		City:             account.Profile.City,
		Phone:            account.Profile.Phone,
		EmergencyContact: account.Profile.EmergencyContact,
		EmergencyPhone:   account.Profile.EmergencyPhone,
		FormCompleted:    account.FormCompleted,
	}
}

type proClientPayload struct {
	ClientID    string `json:"clientId"`
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	SIRET       string `json:"siret"`
	Address     string `json:"address"`
}

func proClientPayloadFrom(client studio.ProClient) proClientPayload {
	return proClientPayload{
		ClientID:    client.ClientID.String(),
		CompanyName: client.CompanyName,
		ContactName: client.ContactName,
		Email:       client.Email,
		SIRET:       client.SIRET,
		Address:     client.Address,
	}
}

type b2bInvoicePayload struct {
	InvoiceID       string `json:"invoiceId"`
	ClientID        string `json:"clientId"`
	Label           string `json:"label"`
	AmountCents     int64  `json:"amountCents"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"paymentMethod"`
	PaymentStatus   string `json:"paymentStatus"`
	IssuedAtUnixUTC int64  `json:"issuedAtUnixUtc"`
}

func b2bInvoicePayloadFrom(invoice studio.B2BInvoice) b2bInvoicePayload {
	return b2bInvoicePayload{
		InvoiceID:       invoice.InvoiceID.String(),
		ClientID:        invoice.ClientID.String(),
		Label:           invoice.Label,
		AmountCents:     invoice.AmountCents,
		Status:          invoice.Status.String(),
		PaymentMethod:   invoice.PaymentMethod.String(),
		PaymentStatus:   invoice.PaymentStatus.String(),
		IssuedAtUnixUTC: invoice.IssuedAtUnixUTC,
	}
}
