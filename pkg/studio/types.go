package studio

import (
	"context"
	"fmt"
	"strings"
)

// Credits is a whole-unit prepaid balance entitling one booking per credit.
type Credits int64

// Int64 returns the raw balance.
func (credits Credits) Int64() int64 {
	return int64(credits)
}

// UserID identifies a student or admin account, or a synthetic walk-in.
type UserID struct {
	value string
}

// ClassID identifies a scheduled class occurrence.
type ClassID struct {
	value string
}

// BookingID identifies a booking record.
type BookingID struct {
	value string
}

// ClientID identifies a professional (B2B) client.
type ClientID struct {
	value string
}

// InvoiceID identifies a B2B quote/invoice record.
type InvoiceID struct {
	value string
}

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// NewManualUserID builds a synthetic identity for an admin-entered walk-in.
func NewManualUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: manualIdentityPrefix + trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// IsManual reports whether the identity is a synthetic walk-in.
func (id UserID) IsManual() bool {
	return strings.HasPrefix(id.value, manualIdentityPrefix)
}

// NewClassID validates and normalizes a class id.
func NewClassID(raw string) (ClassID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ClassID{}, fmt.Errorf("%w: empty value", ErrInvalidClassID)
	}
	return ClassID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ClassID) String() string {
	return id.value
}

// NewBookingID validates and normalizes a booking id.
func NewBookingID(raw string) (BookingID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BookingID{}, fmt.Errorf("%w: empty value", ErrInvalidBookingID)
	}
	return BookingID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id BookingID) String() string {
	return id.value
}

// NewClientID validates and normalizes a pro-client id.
func NewClientID(raw string) (ClientID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ClientID{}, fmt.Errorf("%w: empty value", ErrInvalidClientID)
	}
	return ClientID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ClientID) String() string {
	return id.value
}

// NewInvoiceID validates and normalizes a B2B invoice id.
func NewInvoiceID(raw string) (InvoiceID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return InvoiceID{}, fmt.Errorf("%w: empty value", ErrInvalidInvoiceID)
	}
	return InvoiceID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id InvoiceID) String() string {
	return id.value
}

// PaymentMethod is the closed set of ways a booking can be settled.
type PaymentMethod string

const (
	PaymentCredit      PaymentMethod = "CREDIT"
	PaymentCash        PaymentMethod = "CASH"
	PaymentWeroRIB     PaymentMethod = "WERO_RIB"
	PaymentB2BTransfer PaymentMethod = "B2B_TRANSFER"
)

// ParsePaymentMethod maps a wire value onto the closed enum.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.TrimSpace(raw)) {
	case PaymentCredit:
		return PaymentCredit, nil
	case PaymentCash:
		return PaymentCash, nil
	case PaymentWeroRIB:
		return PaymentWeroRIB, nil
	case PaymentB2BTransfer:
		return PaymentB2BTransfer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
	}
}

// String returns the wire value.
func (method PaymentMethod) String() string {
	return string(method)
}

// PaymentStatus is the settlement state of a booking or B2B invoice.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// ParsePaymentStatus maps a wire value onto the closed enum.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.TrimSpace(raw)) {
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
	}
}

// String returns the wire value.
func (status PaymentStatus) String() string {
	return string(status)
}

// Toggled returns the opposite settlement state.
func (status PaymentStatus) Toggled() PaymentStatus {
	if status == PaymentStatusPaid {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// Role separates students from the studio owner.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored value onto the closed enum.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

// String returns the stored value.
func (role Role) String() string {
	return string(role)
}

// B2BStatus is the two-state lifecycle of a professional document.
type B2BStatus string

const (
	B2BStatusQuote   B2BStatus = "DEVIS"
	B2BStatusInvoice B2BStatus = "FACTURE"
)

// ParseB2BStatus maps a stored value onto the closed enum.
func ParseB2BStatus(raw string) (B2BStatus, error) {
	switch B2BStatus(strings.TrimSpace(raw)) {
	case B2BStatusQuote:
		return B2BStatusQuote, nil
	case B2BStatusInvoice:
		return B2BStatusInvoice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidB2BStatus, raw)
	}
}

// String returns the stored value.
func (status B2BStatus) String() string {
	return string(status)
}

// ClassSession is one scheduled class occurrence.
type ClassSession struct {
	ClassID        ClassID
	Title          string
	Description    string
	Instructor     string
	Location       string
	LocationAddr   string
	StartAtUnixUTC int64
	EndAtUnixUTC   int64
	PriceLabel     string
	MaxCapacity    int
	AttendeeCount  int
	AttendeeIDs    []UserID
	Archived       bool
}

// Validate enforces the structural invariants of a class occurrence.
func (class ClassSession) Validate() error {
	if strings.TrimSpace(class.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidClassSession)
	}
	if class.MaxCapacity <= 0 {
		return fmt.Errorf("%w: max capacity must be positive", ErrInvalidClassSession)
	}
	if class.EndAtUnixUTC <= class.StartAtUnixUTC {
		return fmt.Errorf("%w: end must be after start", ErrInvalidClassSession)
	}
	if class.AttendeeCount < 0 || class.AttendeeCount > class.MaxCapacity {
		return fmt.Errorf("%w: attendee count out of range", ErrInvalidClassSession)
	}
	if class.AttendeeCount != len(class.AttendeeIDs) {
		return fmt.Errorf("%w: attendee count does not match attendee list", ErrInvalidClassSession)
	}
	return nil
}

// HasAttendee reports whether the identity already holds a seat.
func (class ClassSession) HasAttendee(attendee UserID) bool {
	for _, id := range class.AttendeeIDs {
		if id == attendee {
			return true
		}
	}
	return false
}

// Profile is the mutable, non-ledger portion of an account.
type Profile struct {
	Street           string
	ZipCode          string
	City             string
	Phone            string
	EmergencyContact string
	EmergencyPhone   string
}

// UserAccount is a student or admin bound to an external identity.
type UserAccount struct {
	UserID        UserID
	Email         string
	DisplayName   string
	Role          Role
	Credits       Credits
	Profile       Profile
	FormCompleted bool
}

// Booking binds one identity to one class occurrence, with a snapshot of
// the class taken at booking time so later edits never rewrite history.
type Booking struct {
	BookingID         BookingID
	ClassID           ClassID
	UserID            UserID
	UserName          string
	ClassTitle        string
	ClassStartUnixUTC int64
	Location          string
	PriceLabel        string
	PaymentMethod     PaymentMethod
	PaymentStatus     PaymentStatus
	Manual            bool
	BookedAtUnixUTC   int64
}

// ProClient is a professional customer of the studio.
type ProClient struct {
	ClientID    ClientID
	CompanyName string
	ContactName string
	Email       string
	SIRET       string
	Address     string
}

// Validate enforces the minimal shape of a pro client.
func (client ProClient) Validate() error {
	if strings.TrimSpace(client.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidProClient)
	}
	return nil
}

// B2BInvoice is a quote or invoice for a professional client. It carries
// no capacity or credit coupling.
type B2BInvoice struct {
	InvoiceID       InvoiceID
	ClientID        ClientID
	Label           string
	AmountCents     int64
	Status          B2BStatus
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	IssuedAtUnixUTC int64
}

// AttendanceDrift is the result of reconciling the denormalized class
// counter against the booking collection.
type AttendanceDrift struct {
	ClassID        ClassID
	AttendeeCount  int
	BookingCount   int
	MissingFromIDs []UserID
}

// InSync reports whether the counter and the booking collection agree.
func (drift AttendanceDrift) InSync() bool {
	return drift.AttendeeCount == drift.BookingCount && len(drift.MissingFromIDs) == 0
}

// Store is the persistence contract used by Service. Implementations must
// provide a multi-document transaction envelope through WithTx: every
// mutation performed through the txStore handed to fn commits atomically
// with the others or not at all.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	GetClass(ctx context.Context, classID ClassID) (ClassSession, error)
	CreateClass(ctx context.Context, class ClassSession) error
	UpdateClass(ctx context.Context, class ClassSession) error
	UpdateClassAttendance(ctx context.Context, classID ClassID, attendeeCount int, attendeeIDs []UserID) error
	SetClassArchived(ctx context.Context, classID ClassID, archived bool) error
	DeleteClass(ctx context.Context, classID ClassID) error
	ListClasses(ctx context.Context) ([]ClassSession, error)

	GetUser(ctx context.Context, userID UserID) (UserAccount, error)
	CreateUser(ctx context.Context, user UserAccount) error
	UpdateUserProfile(ctx context.Context, userID UserID, profile Profile, formCompleted bool) error
	UpdateUserCredits(ctx context.Context, userID UserID, credits Credits) error
	ListUsers(ctx context.Context) ([]UserAccount, error)

	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, bookingID BookingID) (Booking, error)
	FindClassBooking(ctx context.Context, classID ClassID, userID UserID) (Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID BookingID, status PaymentStatus) error
	DeleteBooking(ctx context.Context, bookingID BookingID) error
	ListClassBookings(ctx context.Context, classID ClassID) ([]Booking, error)
	ListUserBookings(ctx context.Context, userID UserID) ([]Booking, error)
	CountClassBookings(ctx context.Context, classID ClassID) (int, error)

	CreateProClient(ctx context.Context, client ProClient) error
	GetProClient(ctx context.Context, clientID ClientID) (ProClient, error)
	ListProClients(ctx context.Context) ([]ProClient, error)
	CreateB2BInvoice(ctx context.Context, invoice B2BInvoice) error
	GetB2BInvoice(ctx context.Context, invoiceID InvoiceID) (B2BInvoice, error)
	UpdateB2BInvoice(ctx context.Context, invoice B2BInvoice) error
	ListB2BInvoices(ctx context.Context) ([]B2BInvoice, error)
}
