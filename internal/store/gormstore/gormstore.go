package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verticali/booking/pkg/studio"
)

const (
	pgUniqueViolationCode      = "23505"
	pgSerializationFailureCode = "40001"
	pgDeadlockDetectedCode     = "40P01"
	sqliteBusyCode             = 5
	sqliteLockedCode           = 6
	sqliteConstraintCode       = 19

	maxTransactionAttempts = 3

	errorOperationStore  = "store"
	errorSubjectClass    = "class"
	errorSubjectUser     = "user"
	errorSubjectBooking  = "booking"
	errorSubjectClient   = "pro_client"
	errorSubjectInvoice  = "b2b_invoice"
	errorSubjectTx       = "transaction"
	errorCodeCreate      = "create"
	errorCodeGet         = "get"
	errorCodeUpdate      = "update"
	errorCodeDelete      = "delete"
	errorCodeList        = "list"
	errorCodeCount       = "count"
	errorCodeDuplicate   = "duplicate"
	errorCodeInvalid     = "invalid"
	errorCodeConflict    = "conflict"
	dialectPostgresName  = "postgres"
)

// Store implements studio.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction, retrying a bounded number of
// times when the database aborts it for a read-write conflict. Retry
// exhaustion surfaces as ErrTransactionConflict; the caller observes no
// partial effect either way.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore studio.Store) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTransactionAttempts; attempt++ {
		lastErr = store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
			return fn(ctx, &Store{db: transaction})
		})
		if !isSerializationConflict(lastErr) {
			return lastErr
		}
	}
	return wrapStoreError(errorSubjectTx, errorCodeConflict, studio.ErrTransactionConflict)
}

func (store *Store) GetClass(ctx context.Context, classID studio.ClassID) (studio.ClassSession, error) {
	var row Class
	err := store.lockForUpdate(ctx).
		Where("class_id = ?", classID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.ClassSession{}, wrapStoreError(errorSubjectClass, errorCodeGet, studio.ErrClassNotFound)
		}
		return studio.ClassSession{}, wrapStoreError(errorSubjectClass, errorCodeGet, err)
	}
	class, err := mapClass(row)
	if err != nil {
		return studio.ClassSession{}, wrapStoreError(errorSubjectClass, errorCodeInvalid, err)
	}
	return class, nil
}

func (store *Store) CreateClass(ctx context.Context, class studio.ClassSession) error {
	row, err := classRow(class)
	if err != nil {
		return wrapStoreError(errorSubjectClass, errorCodeInvalid, err)
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return wrapStoreError(errorSubjectClass, errorCodeCreate, err)
	}
	return nil
}

func (store *Store) UpdateClass(ctx context.Context, class studio.ClassSession) error {
	row, err := classRow(class)
	if err != nil {
		return wrapStoreError(errorSubjectClass, errorCodeInvalid, err)
	}
	result := store.db.WithContext(ctx).
		Model(&Class{}).
		Where("class_id = ?", class.ClassID.String()).
		Updates(map[string]interface{}{
			"title":          row.Title,
			"description":    row.Description,
			"instructor":     row.Instructor,
			"location":       row.Location,
			"location_addr":  row.LocationAddr,
			"start_at":       row.StartAt,
			"end_at":         row.EndAt,
			"price_label":    row.PriceLabel,
			"max_capacity":   row.MaxCapacity,
			"attendee_count": row.AttendeeCount,
			"attendee_ids":   row.AttendeeIDs,
			"archived":       row.Archived,
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, studio.ErrClassNotFound)
	}
	return nil
}

func (store *Store) UpdateClassAttendance(ctx context.Context, classID studio.ClassID, attendeeCount int, attendeeIDs []studio.UserID) error {
	encoded, err := encodeAttendees(attendeeIDs)
	if err != nil {
		return wrapStoreError(errorSubjectClass, errorCodeInvalid, err)
	}
	result := store.db.WithContext(ctx).
		Model(&Class{}).
		Where("class_id = ?", classID.String()).
		Updates(map[string]interface{}{
			"attendee_count": attendeeCount,
			"attendee_ids":   encoded,
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, studio.ErrClassNotFound)
	}
	return nil
}

func (store *Store) SetClassArchived(ctx context.Context, classID studio.ClassID, archived bool) error {
	result := store.db.WithContext(ctx).
		Model(&Class{}).
		Where("class_id = ?", classID.String()).
		Update("archived", archived)
	if result.Error != nil {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectClass, errorCodeUpdate, studio.ErrClassNotFound)
	}
	return nil
}

func (store *Store) DeleteClass(ctx context.Context, classID studio.ClassID) error {
	result := store.db.WithContext(ctx).
		Where("class_id = ?", classID.String()).
		Delete(&Class{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectClass, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectClass, errorCodeDelete, studio.ErrClassNotFound)
	}
	return nil
}

func (store *Store) ListClasses(ctx context.Context) ([]studio.ClassSession, error) {
	var rows []Class
	err := store.db.WithContext(ctx).
		Order("start_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectClass, errorCodeList, err)
	}
	classes := make([]studio.ClassSession, 0, len(rows))
	for _, row := range rows {
		class, err := mapClass(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectClass, errorCodeInvalid, err)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func (store *Store) GetUser(ctx context.Context, userID studio.UserID) (studio.UserAccount, error) {
	var row User
	err := store.lockForUpdate(ctx).
		Where("user_id = ?", userID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.UserAccount{}, wrapStoreError(errorSubjectUser, errorCodeGet, studio.ErrUserNotFound)
		}
		return studio.UserAccount{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	user, err := mapUser(row)
	if err != nil {
		return studio.UserAccount{}, wrapStoreError(errorSubjectUser, errorCodeInvalid, err)
	}
	return user, nil
}

func (store *Store) CreateUser(ctx context.Context, user studio.UserAccount) error {
	row := userRow(user)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return wrapStoreError(errorSubjectUser, errorCodeCreate, err)
	}
	return nil
}

func (store *Store) UpdateUserProfile(ctx context.Context, userID studio.UserID, profile studio.Profile, formCompleted bool) error {
	result := store.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ?", userID.String()).
		Updates(map[string]interface{}{
			"street":            profile.Street,
			"zip_code":          profile.ZipCode,
			"city":              profile.City,
			"phone":             profile.Phone,
			"emergency_contact": profile.EmergencyContact,
			"emergency_phone":   profile.EmergencyPhone,
			"form_completed":    formCompleted,
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, studio.ErrUserNotFound)
	}
	return nil
}

func (store *Store) UpdateUserCredits(ctx context.Context, userID studio.UserID, credits studio.Credits) error {
	result := store.db.WithContext(ctx).
		Model(&User{}).
		Where("user_id = ?", userID.String()).
		Update("credits", credits.Int64())
	if result.Error != nil {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, studio.ErrUserNotFound)
	}
	return nil
}

func (store *Store) ListUsers(ctx context.Context) ([]studio.UserAccount, error) {
	var rows []User
	err := store.db.WithContext(ctx).
		Order("display_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeList, err)
	}
	users := make([]studio.UserAccount, 0, len(rows))
	for _, row := range rows {
		user, err := mapUser(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectUser, errorCodeInvalid, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (store *Store) CreateBooking(ctx context.Context, booking studio.Booking) error {
	row := bookingRow(booking)
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return wrapStoreError(errorSubjectBooking, errorCodeDuplicate, studio.ErrAlreadyBooked)
	}
	if err != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeCreate, err)
	}
	return nil
}

func (store *Store) GetBooking(ctx context.Context, bookingID studio.BookingID) (studio.Booking, error) {
	var row Booking
	err := store.lockForUpdate(ctx).
		Where("booking_id = ?", bookingID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, studio.ErrBookingNotFound)
		}
		return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	booking, err := mapBooking(row)
	if err != nil {
		return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return booking, nil
}

func (store *Store) FindClassBooking(ctx context.Context, classID studio.ClassID, userID studio.UserID) (studio.Booking, error) {
	var row Booking
	err := store.lockForUpdate(ctx).
		Where("class_id = ? AND user_id = ?", classID.String(), userID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, studio.ErrBookingNotFound)
		}
		return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	booking, err := mapBooking(row)
	if err != nil {
		return studio.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return booking, nil
}

func (store *Store) UpdateBookingStatus(ctx context.Context, bookingID studio.BookingID, status studio.PaymentStatus) error {
	result := store.db.WithContext(ctx).
		Model(&Booking{}).
		Where("booking_id = ?", bookingID.String()).
		Update("payment_status", status.String())
	if result.Error != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdate, studio.ErrBookingNotFound)
	}
	return nil
}

func (store *Store) DeleteBooking(ctx context.Context, bookingID studio.BookingID) error {
	result := store.db.WithContext(ctx).
		Where("booking_id = ?", bookingID.String()).
		Delete(&Booking{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectBooking, errorCodeDelete, studio.ErrBookingNotFound)
	}
	return nil
}

func (store *Store) ListClassBookings(ctx context.Context, classID studio.ClassID) ([]studio.Booking, error) {
	var rows []Booking
	err := store.db.WithContext(ctx).
		Where("class_id = ?", classID.String()).
		Order("booked_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	return mapBookings(rows)
}

func (store *Store) ListUserBookings(ctx context.Context, userID studio.UserID) ([]studio.Booking, error) {
	var rows []Booking
	err := store.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("class_start_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	return mapBookings(rows)
}

func (store *Store) CountClassBookings(ctx context.Context, classID studio.ClassID) (int, error) {
	var count int64
	err := store.db.WithContext(ctx).
		Model(&Booking{}).
		Where("class_id = ?", classID.String()).
		Count(&count).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectBooking, errorCodeCount, err)
	}
	return int(count), nil
}

func (store *Store) CreateProClient(ctx context.Context, client studio.ProClient) error {
	row := proClientRow(client)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return wrapStoreError(errorSubjectClient, errorCodeCreate, err)
	}
	return nil
}

func (store *Store) GetProClient(ctx context.Context, clientID studio.ClientID) (studio.ProClient, error) {
	var row ProClient
	err := store.db.WithContext(ctx).
		Where("client_id = ?", clientID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.ProClient{}, wrapStoreError(errorSubjectClient, errorCodeGet, studio.ErrClientNotFound)
		}
		return studio.ProClient{}, wrapStoreError(errorSubjectClient, errorCodeGet, err)
	}
	client, err := mapProClient(row)
	if err != nil {
		return studio.ProClient{}, wrapStoreError(errorSubjectClient, errorCodeInvalid, err)
	}
	return client, nil
}

func (store *Store) ListProClients(ctx context.Context) ([]studio.ProClient, error) {
	var rows []ProClient
	err := store.db.WithContext(ctx).
		Order("company_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectClient, errorCodeList, err)
	}
	clients := make([]studio.ProClient, 0, len(rows))
	for _, row := range rows {
		client, err := mapProClient(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectClient, errorCodeInvalid, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (store *Store) CreateB2BInvoice(ctx context.Context, invoice studio.B2BInvoice) error {
	row := b2bInvoiceRow(invoice)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return wrapStoreError(errorSubjectInvoice, errorCodeCreate, err)
	}
	return nil
}

func (store *Store) GetB2BInvoice(ctx context.Context, invoiceID studio.InvoiceID) (studio.B2BInvoice, error) {
	var row B2BInvoice
	err := store.lockForUpdate(ctx).
		Where("invoice_id = ?", invoiceID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studio.B2BInvoice{}, wrapStoreError(errorSubjectInvoice, errorCodeGet, studio.ErrInvoiceNotFound)
		}
		return studio.B2BInvoice{}, wrapStoreError(errorSubjectInvoice, errorCodeGet, err)
	}
	invoice, err := mapB2BInvoice(row)
	if err != nil {
		return studio.B2BInvoice{}, wrapStoreError(errorSubjectInvoice, errorCodeInvalid, err)
	}
	return invoice, nil
}

func (store *Store) UpdateB2BInvoice(ctx context.Context, invoice studio.B2BInvoice) error {
	result := store.db.WithContext(ctx).
		Model(&B2BInvoice{}).
		Where("invoice_id = ?", invoice.InvoiceID.String()).
		Updates(map[string]interface{}{
			"status":         invoice.Status.String(),
			"payment_method": invoice.PaymentMethod.String(),
			"payment_status": invoice.PaymentStatus.String(),
			"issued_at":      time.Unix(invoice.IssuedAtUnixUTC, 0).UTC(),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectInvoice, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectInvoice, errorCodeUpdate, studio.ErrInvoiceNotFound)
	}
	return nil
}

func (store *Store) ListB2BInvoices(ctx context.Context) ([]studio.B2BInvoice, error) {
	var rows []B2BInvoice
	err := store.db.WithContext(ctx).
		Order("issued_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectInvoice, errorCodeList, err)
	}
	invoices := make([]studio.B2BInvoice, 0, len(rows))
	for _, row := range rows {
		invoice, err := mapB2BInvoice(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectInvoice, errorCodeInvalid, err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has a
// single writer per database, which already serializes the envelope.
func (store *Store) lockForUpdate(ctx context.Context) *gorm.DB {
	db := store.db.WithContext(ctx)
	if store.db.Dialector.Name() == dialectPostgresName {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgUniqueViolationCode
	}
	var sqliteError *gosqlite.Error
	if errors.As(err, &sqliteError) {
		return sqliteError.Code()&0xff == sqliteConstraintCode
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isSerializationConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == pgSerializationFailureCode || pgError.Code == pgDeadlockDetectedCode
	}
	var sqliteError *gosqlite.Error
	if errors.As(err, &sqliteError) {
		code := sqliteError.Code() & 0xff
		return code == sqliteBusyCode || code == sqliteLockedCode
	}
	return false
}

func wrapStoreError(subject string, code string, err error) error {
	return studio.WrapError(errorOperationStore, subject, code, err)
}

func encodeAttendees(attendeeIDs []studio.UserID) (datatypes.JSON, error) {
	raw := make([]string, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		raw = append(raw, id.String())
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

func decodeAttendees(encoded datatypes.JSON) ([]studio.UserID, error) {
	if len(encoded) == 0 {
		return []studio.UserID{}, nil
	}
	var raw []string
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return nil, err
	}
	attendees := make([]studio.UserID, 0, len(raw))
	for _, value := range raw {
		id, err := studio.NewUserID(value)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, id)
	}
	return attendees, nil
}

func classRow(class studio.ClassSession) (Class, error) {
	encoded, err := encodeAttendees(class.AttendeeIDs)
	if err != nil {
		return Class{}, err
	}
	return Class{
		ClassID:       class.ClassID.String(),
		Title:         class.Title,
		Description:   class.Description,
		Instructor:    class.Instructor,
		Location:      class.Location,
		LocationAddr:  class.LocationAddr,
		StartAt:       time.Unix(class.StartAtUnixUTC, 0).UTC(),
		EndAt:         time.Unix(class.EndAtUnixUTC, 0).UTC(),
		PriceLabel:    class.PriceLabel,
		MaxCapacity:   class.MaxCapacity,
		AttendeeCount: class.AttendeeCount,
		AttendeeIDs:   encoded,
		Archived:      class.Archived,
	}, nil
}

func mapClass(row Class) (studio.ClassSession, error) {
	classID, err := studio.NewClassID(row.ClassID)
	if err != nil {
		return studio.ClassSession{}, err
	}
	attendees, err := decodeAttendees(row.AttendeeIDs)
	if err != nil {
		return studio.ClassSession{}, err
	}
	return studio.ClassSession{
		ClassID:        classID,
		Title:          row.Title,
		Description:    row.Description,
		Instructor:     row.Instructor,
		Location:       row.Location,
		LocationAddr:   row.LocationAddr,
		StartAtUnixUTC: row.StartAt.UTC().Unix(),
		EndAtUnixUTC:   row.EndAt.UTC().Unix(),
		PriceLabel:     row.PriceLabel,
		MaxCapacity:    row.MaxCapacity,
		AttendeeCount:  row.AttendeeCount,
		AttendeeIDs:    attendees,
		Archived:       row.Archived,
	}, nil
}

func userRow(user studio.UserAccount) User {
	return User{
		UserID:           user.UserID.String(),
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Role:             user.Role.String(),
		Credits:          user.Credits.Int64(),
		Street:           user.Profile.Street,
		ZipCode:          user.Profile.ZipCode,
		City:             user.Profile.City,
		Phone:            user.Profile.Phone,
		EmergencyContact: user.Profile.EmergencyContact,
		EmergencyPhone:   user.Profile.EmergencyPhone,
		FormCompleted:    user.FormCompleted,
	}
}

func mapUser(row User) (studio.UserAccount, error) {
	userID, err := studio.NewUserID(row.UserID)
	if err != nil {
		return studio.UserAccount{}, err
	}
	role, err := studio.ParseRole(row.Role)
	if err != nil {
		return studio.UserAccount{}, err
	}
	return studio.UserAccount{
		UserID:      userID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        role,
		Credits:     studio.Credits(row.Credits),
		Profile: studio.Profile{
			Street:           row.Street,
			ZipCode:          row.ZipCode,
			City:             row.City,
			Phone:            row.Phone,
			EmergencyContact: row.EmergencyContact,
			EmergencyPhone:   row.EmergencyPhone,
		},
		FormCompleted: row.FormCompleted,
	}, nil
}

func bookingRow(booking studio.Booking) Booking {
	return Booking{
		BookingID:     booking.BookingID.String(),
		ClassID:       booking.ClassID.String(),
		UserID:        booking.UserID.String(),
		UserName:      booking.UserName,
		ClassTitle:    booking.ClassTitle,
		ClassStartAt:  time.Unix(booking.ClassStartUnixUTC, 0).UTC(),
		Location:      booking.Location,
		PriceLabel:    booking.PriceLabel,
		PaymentMethod: booking.PaymentMethod.String(),
		PaymentStatus: booking.PaymentStatus.String(),
		Manual:        booking.Manual,
		BookedAt:      time.Unix(booking.BookedAtUnixUTC, 0).UTC(),
	}
}

func mapBooking(row Booking) (studio.Booking, error) {
	bookingID, err := studio.NewBookingID(row.BookingID)
	if err != nil {
		return studio.Booking{}, err
	}
	classID, err := studio.NewClassID(row.ClassID)
	if err != nil {
		return studio.Booking{}, err
	}
	userID, err := studio.NewUserID(row.UserID)
	if err != nil {
		return studio.Booking{}, err
	}
	method, err := studio.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return studio.Booking{}, err
	}
	status, err := studio.ParsePaymentStatus(row.PaymentStatus)
	if err != nil {
		return studio.Booking{}, err
	}
	return studio.Booking{
		BookingID:         bookingID,
		ClassID:           classID,
		UserID:            userID,
		UserName:          row.UserName,
		ClassTitle:        row.ClassTitle,
		ClassStartUnixUTC: row.ClassStartAt.UTC().Unix(),
		Location:          row.Location,
		PriceLabel:        row.PriceLabel,
		PaymentMethod:     method,
		PaymentStatus:     status,
		Manual:            row.Manual,
		BookedAtUnixUTC:   row.BookedAt.UTC().Unix(),
	}, nil
}

func mapBookings(rows []Booking) ([]studio.Booking, error) {
	bookings := make([]studio.Booking, 0, len(rows))
	for _, row := range rows {
		booking, err := mapBooking(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func proClientRow(client studio.ProClient) ProClient {
	return ProClient{
		ClientID:    client.ClientID.String(),
		CompanyName: client.CompanyName,
		ContactName: client.ContactName,
		Email:       client.Email,
		SIRET:       client.SIRET,
		Address:     client.Address,
	}
}

func mapProClient(row ProClient) (studio.ProClient, error) {
	clientID, err := studio.NewClientID(row.ClientID)
	if err != nil {
		return studio.ProClient{}, err
	}
	return studio.ProClient{
		ClientID:    clientID,
		CompanyName: row.CompanyName,
		ContactName: row.ContactName,
		Email:       row.Email,
		SIRET:       row.SIRET,
		Address:     row.Address,
	}, nil
}

func b2bInvoiceRow(invoice studio.B2BInvoice) B2BInvoice {
	return B2BInvoice{
		InvoiceID:     invoice.InvoiceID.String(),
		ClientID:      invoice.ClientID.String(),
		Label:         invoice.Label,
		AmountCents:   invoice.AmountCents,
		Status:        invoice.Status.String(),
		PaymentMethod: invoice.PaymentMethod.String(),
		PaymentStatus: invoice.PaymentStatus.String(),
		IssuedAt:      time.Unix(invoice.IssuedAtUnixUTC, 0).UTC(),
	}
}

func mapB2BInvoice(row B2BInvoice) (studio.B2BInvoice, error) {
	invoiceID, err := studio.NewInvoiceID(row.InvoiceID)
	if err != nil {
		return studio.B2BInvoice{}, err
	}
	clientID, err := studio.NewClientID(row.ClientID)
	if err != nil {
		return studio.B2BInvoice{}, err
	}
	status, err := studio.ParseB2BStatus(row.Status)
	if err != nil {
		return studio.B2BInvoice{}, err
	}
	method, err := studio.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return studio.B2BInvoice{}, err
	}
	paymentStatus, err := studio.ParsePaymentStatus(row.PaymentStatus)
	if err != nil {
		return studio.B2BInvoice{}, err
	}
	return studio.B2BInvoice{
		InvoiceID:       invoiceID,
		ClientID:        clientID,
		Label:           row.Label,
		AmountCents:     row.AmountCents,
		Status:          status,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		IssuedAtUnixUTC: row.IssuedAt.UTC().Unix(),
	}, nil
}
