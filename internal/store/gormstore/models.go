package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Class represents the classes table. The attendee identifier list is a
// JSON column so the list and the counter live on the same row and move
// under the same row lock.
type Class struct {
	ClassID       string         `gorm:"type:uuid;primaryKey"`
	Title         string         `gorm:"not null"`
	Description   string         `gorm:""`
	Instructor    string         `gorm:""`
	Location      string         `gorm:""`
	LocationAddr  string         `gorm:""`
	StartAt       time.Time      `gorm:"not null;index:idx_classes_start"`
	EndAt         time.Time      `gorm:"not null"`
	PriceLabel    string         `gorm:""`
	MaxCapacity   int            `gorm:"not null"`
	AttendeeCount int            `gorm:"not null"`
	AttendeeIDs   datatypes.JSON `gorm:"not null"`
	Archived      bool           `gorm:"not null;default:false"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

func (Class) TableName() string { return "classes" }

func (class *Class) BeforeCreate(tx *gorm.DB) error {
	if class.ClassID == "" {
		class.ClassID = uuid.NewString()
	}
	return nil
}

// User represents the users table. The identifier comes from the external
// identity provider, never generated here.
type User struct {
	UserID           string    `gorm:"primaryKey"`
	Email            string    `gorm:"not null;index:idx_users_email"`
	DisplayName      string    `gorm:"not null"`
	Role             string    `gorm:"not null"`
	Credits          int64     `gorm:"not null"`
	Street           string    `gorm:""`
	ZipCode          string    `gorm:""`
	City             string    `gorm:""`
	Phone            string    `gorm:""`
	EmergencyContact string    `gorm:""`
	EmergencyPhone   string    `gorm:""`
	FormCompleted    bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// Booking mirrors the bookings table. The unique (class_id, user_id) index
// backs the no-double-booking invariant at the storage layer as well.
type Booking struct {
	BookingID     string    `gorm:"type:uuid;primaryKey"`
	ClassID       string    `gorm:"not null;index:idx_bookings_class_user,unique,priority:1"`
	UserID        string    `gorm:"not null;index:idx_bookings_class_user,unique,priority:2;index:idx_bookings_user"`
	UserName      string    `gorm:"not null"`
	ClassTitle    string    `gorm:"not null"`
	ClassStartAt  time.Time `gorm:"not null"`
	Location      string    `gorm:""`
	PriceLabel    string    `gorm:""`
	PaymentMethod string    `gorm:"not null"`
	PaymentStatus string    `gorm:"not null"`
	Manual        bool      `gorm:"not null;default:false"`
	BookedAt      time.Time `gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

func (booking *Booking) BeforeCreate(tx *gorm.DB) error {
	if booking.BookingID == "" {
		booking.BookingID = uuid.NewString()
	}
	return nil
}

// ProClient mirrors the pro_clients table.
type ProClient struct {
	ClientID    string    `gorm:"type:uuid;primaryKey"`
	CompanyName string    `gorm:"not null"`
	ContactName string    `gorm:""`
	Email       string    `gorm:""`
	SIRET       string    `gorm:"column:siret"`
	Address     string    `gorm:""`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ProClient) TableName() string { return "pro_clients" }

func (client *ProClient) BeforeCreate(tx *gorm.DB) error {
	if client.ClientID == "" {
		client.ClientID = uuid.NewString()
	}
	return nil
}

// B2BInvoice mirrors the b2b_invoices table.
type B2BInvoice struct {
	InvoiceID     string    `gorm:"type:uuid;primaryKey"`
	ClientID      string    `gorm:"not null;index:idx_b2b_invoices_client"`
	Label         string    `gorm:"not null"`
	AmountCents   int64     `gorm:"not null"`
	Status        string    `gorm:"not null"`
	PaymentMethod string    `gorm:"not null"`
	PaymentStatus string    `gorm:"not null"`
	IssuedAt      time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (B2BInvoice) TableName() string { return "b2b_invoices" }

func (invoice *B2BInvoice) BeforeCreate(tx *gorm.DB) error {
	if invoice.InvoiceID == "" {
		invoice.InvoiceID = uuid.NewString()
	}
	return nil
}

// Models lists every table for schema preparation.
func Models() []any {
	return []any{&Class{}, &User{}, &Booking{}, &ProClient{}, &B2BInvoice{}}
}
