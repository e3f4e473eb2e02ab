package studio

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

const testNowUnixUTC int64 = 1_772_000_000

// stubStore is an in-memory Store whose WithTx serializes callers behind a
// mutex and rolls state back when fn fails, mimicking the all-or-nothing
// envelope of the real document store.
type stubStore struct {
	mu       sync.Mutex
	inTx     bool
	classes  map[ClassID]ClassSession
	users    map[UserID]UserAccount
	bookings map[BookingID]Booking
	clients  map[ClientID]ProClient
	invoices map[InvoiceID]B2BInvoice
	txErr    error
}

func newStubStore() *stubStore {
	return &stubStore{
		classes:  map[ClassID]ClassSession{},
		users:    map[UserID]UserAccount{},
		bookings: map[BookingID]Booking{},
		clients:  map[ClientID]ProClient{},
		invoices: map[InvoiceID]B2BInvoice{},
	}
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.txErr != nil {
		return store.txErr
	}
	snapshot := store.snapshot()
	store.inTx = true
	err := fn(ctx, store)
	store.inTx = false
	if err != nil {
		store.restore(snapshot)
		return err
	}
	return nil
}

type stubSnapshot struct {
	classes  map[ClassID]ClassSession
	users    map[UserID]UserAccount
	bookings map[BookingID]Booking
	clients  map[ClientID]ProClient
	invoices map[InvoiceID]B2BInvoice
}

func (store *stubStore) snapshot() stubSnapshot {
	snap := stubSnapshot{
		classes:  make(map[ClassID]ClassSession, len(store.classes)),
		users:    make(map[UserID]UserAccount, len(store.users)),
		bookings: make(map[BookingID]Booking, len(store.bookings)),
		clients:  make(map[ClientID]ProClient, len(store.clients)),
		invoices: make(map[InvoiceID]B2BInvoice, len(store.invoices)),
	}
	for id, class := range store.classes {
		class.AttendeeIDs = append([]UserID{}, class.AttendeeIDs...)
		snap.classes[id] = class
	}
	for id, user := range store.users {
		snap.users[id] = user
	}
	for id, booking := range store.bookings {
		snap.bookings[id] = booking
	}
	for id, client := range store.clients {
		snap.clients[id] = client
	}
	for id, invoice := range store.invoices {
		snap.invoices[id] = invoice
	}
	return snap
}

func (store *stubStore) restore(snap stubSnapshot) {
	store.classes = snap.classes
	store.users = snap.users
	store.bookings = snap.bookings
	store.clients = snap.clients
	store.invoices = snap.invoices
}

func (store *stubStore) lockIfOutsideTx() func() {
	if store.inTx {
		return func() {}
	}
	store.mu.Lock()
	return store.mu.Unlock
}

func (store *stubStore) GetClass(_ context.Context, classID ClassID) (ClassSession, error) {
	defer store.lockIfOutsideTx()()
	class, ok := store.classes[classID]
	if !ok {
		return ClassSession{}, ErrClassNotFound
	}
	class.AttendeeIDs = append([]UserID{}, class.AttendeeIDs...)
	return class, nil
}

func (store *stubStore) CreateClass(_ context.Context, class ClassSession) error {
	defer store.lockIfOutsideTx()()
	store.classes[class.ClassID] = class
	return nil
}

func (store *stubStore) UpdateClass(_ context.Context, class ClassSession) error {
	defer store.lockIfOutsideTx()()
	if _, ok := store.classes[class.ClassID]; !ok {
		return ErrClassNotFound
	}
	store.classes[class.ClassID] = class
	return nil
}

func (store *stubStore) UpdateClassAttendance(_ context.Context, classID ClassID, attendeeCount int, attendeeIDs []UserID) error {
	defer store.lockIfOutsideTx()()
	class, ok := store.classes[classID]
	if !ok {
		return ErrClassNotFound
	}
	class.AttendeeCount = attendeeCount
	class.AttendeeIDs = append([]UserID{}, attendeeIDs...)
	store.classes[classID] = class
	return nil
}

func (store *stubStore) SetClassArchived(_ context.Context, classID ClassID, archived bool) error {
	defer store.lockIfOutsideTx()()
	class, ok := store.classes[classID]
	if !ok {
		return ErrClassNotFound
	}
	class.Archived = archived
	store.classes[classID] = class
	return nil
}

func (store *stubStore) DeleteClass(_ context.Context, classID ClassID) error {
	defer store.lockIfOutsideTx()()
	if _, ok := store.classes[classID]; !ok {
		return ErrClassNotFound
	}
	delete(store.classes, classID)
	return nil
}

func (store *stubStore) ListClasses(_ context.Context) ([]ClassSession, error) {
	defer store.lockIfOutsideTx()()
	classes := make([]ClassSession, 0, len(store.classes))
	for _, class := range store.classes {
		classes = append(classes, class)
	}
	return classes, nil
}

func (store *stubStore) GetUser(_ context.Context, userID UserID) (UserAccount, error) {
	defer store.lockIfOutsideTx()()
	user, ok := store.users[userID]
	if !ok {
		return UserAccount{}, ErrUserNotFound
	}
	return user, nil
}

func (store *stubStore) CreateUser(_ context.Context, user UserAccount) error {
	defer store.lockIfOutsideTx()()
	store.users[user.UserID] = user
	return nil
}

func (store *stubStore) UpdateUserProfile(_ context.Context, userID UserID, profile Profile, formCompleted bool) error {
	defer store.lockIfOutsideTx()()
	user, ok := store.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Profile = profile
	user.FormCompleted = formCompleted
	store.users[userID] = user
	return nil
}

func (store *stubStore) UpdateUserCredits(_ context.Context, userID UserID, credits Credits) error {
	defer store.lockIfOutsideTx()()
	user, ok := store.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Credits = credits
	store.users[userID] = user
	return nil
}

func (store *stubStore) ListUsers(_ context.Context) ([]UserAccount, error) {
	defer store.lockIfOutsideTx()()
	users := make([]UserAccount, 0, len(store.users))
	for _, user := range store.users {
		users = append(users, user)
	}
	return users, nil
}

func (store *stubStore) CreateBooking(_ context.Context, booking Booking) error {
	defer store.lockIfOutsideTx()()
	store.bookings[booking.BookingID] = booking
	return nil
}

func (store *stubStore) GetBooking(_ context.Context, bookingID BookingID) (Booking, error) {
	defer store.lockIfOutsideTx()()
	booking, ok := store.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return booking, nil
}

func (store *stubStore) FindClassBooking(_ context.Context, classID ClassID, userID UserID) (Booking, error) {
	defer store.lockIfOutsideTx()()
	for _, booking := range store.bookings {
		if booking.ClassID == classID && booking.UserID == userID {
			return booking, nil
		}
	}
	return Booking{}, ErrBookingNotFound
}

func (store *stubStore) UpdateBookingStatus(_ context.Context, bookingID BookingID, status PaymentStatus) error {
	defer store.lockIfOutsideTx()()
	booking, ok := store.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	booking.PaymentStatus = status
	store.bookings[bookingID] = booking
	return nil
}

func (store *stubStore) DeleteBooking(_ context.Context, bookingID BookingID) error {
	defer store.lockIfOutsideTx()()
	if _, ok := store.bookings[bookingID]; !ok {
		return ErrBookingNotFound
	}
	delete(store.bookings, bookingID)
	return nil
}

func (store *stubStore) ListClassBookings(_ context.Context, classID ClassID) ([]Booking, error) {
	defer store.lockIfOutsideTx()()
	bookings := []Booking{}
	for _, booking := range store.bookings {
		if booking.ClassID == classID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (store *stubStore) ListUserBookings(_ context.Context, userID UserID) ([]Booking, error) {
	defer store.lockIfOutsideTx()()
	bookings := []Booking{}
	for _, booking := range store.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (store *stubStore) CountClassBookings(_ context.Context, classID ClassID) (int, error) {
	defer store.lockIfOutsideTx()()
	count := 0
	for _, booking := range store.bookings {
		if booking.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (store *stubStore) CreateProClient(_ context.Context, client ProClient) error {
	defer store.lockIfOutsideTx()()
	store.clients[client.ClientID] = client
	return nil
}

func (store *stubStore) GetProClient(_ context.Context, clientID ClientID) (ProClient, error) {
	defer store.lockIfOutsideTx()()
	client, ok := store.clients[clientID]
	if !ok {
		return ProClient{}, ErrClientNotFound
	}
	return client, nil
}

func (store *stubStore) ListProClients(_ context.Context) ([]ProClient, error) {
	defer store.lockIfOutsideTx()()
	clients := make([]ProClient, 0, len(store.clients))
	for _, client := range store.clients {
		clients = append(clients, client)
	}
	return clients, nil
}

func (store *stubStore) CreateB2BInvoice(_ context.Context, invoice B2BInvoice) error {
	defer store.lockIfOutsideTx()()
	store.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (store *stubStore) GetB2BInvoice(_ context.Context, invoiceID InvoiceID) (B2BInvoice, error) {
	defer store.lockIfOutsideTx()()
	invoice, ok := store.invoices[invoiceID]
	if !ok {
		return B2BInvoice{}, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (store *stubStore) UpdateB2BInvoice(_ context.Context, invoice B2BInvoice) error {
	defer store.lockIfOutsideTx()()
	if _, ok := store.invoices[invoice.InvoiceID]; !ok {
		return ErrInvoiceNotFound
	}
	store.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (store *stubStore) ListB2BInvoices(_ context.Context) ([]B2BInvoice, error) {
	defer store.lockIfOutsideTx()()
	invoices := make([]B2BInvoice, 0, len(store.invoices))
	for _, invoice := range store.invoices {
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// recordingNotifier captures mirrored events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (notifier *recordingNotifier) Notify(_ context.Context, event Event) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.events = append(notifier.events, event)
}

func (notifier *recordingNotifier) recorded() []Event {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]Event{}, notifier.events...)
}

// recordingLogger captures operation log entries for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []OperationLog
}

func (logger *recordingLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.entries = append(logger.entries, entry)
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

func mustNewService(test *testing.T, store Store, options ...ServiceOption) *Service {
	test.Helper()
	clock := func() int64 { return testNowUnixUTC }
	withIDs := append([]ServiceOption{WithIDGenerator(sequentialIDs("id"))}, options...)
	service, err := NewService(store, clock, withIDs...)
	if err != nil {
		test.Fatalf("service init: %v", err)
	}
	return service
}

func mustUserID(test *testing.T, raw string) UserID {
	test.Helper()
	userID, err := NewUserID(raw)
	if err != nil {
		test.Fatalf("user id: %v", err)
	}
	return userID
}

func mustClassID(test *testing.T, raw string) ClassID {
	test.Helper()
	classID, err := NewClassID(raw)
	if err != nil {
		test.Fatalf("class id: %v", err)
	}
	return classID
}

func seedUser(test *testing.T, store *stubStore, raw string, credits int64) UserID {
	test.Helper()
	userID := mustUserID(test, raw)
	store.users[userID] = UserAccount{
		UserID:        userID,
		Email:         raw + "@example.com",
		DisplayName:   raw,
		Role:          RoleStudent,
		Credits:       Credits(credits),
		FormCompleted: true,
	}
	return userID
}

func seedClass(test *testing.T, store *stubStore, raw string, maxCapacity int) ClassID {
	test.Helper()
	classID := mustClassID(test, raw)
	store.classes[classID] = ClassSession{
		ClassID:        classID,
		Title:          "Pole Débutant",
		Instructor:     "Ali",
		Location:       "Studio Picardia",
		StartAtUnixUTC: testNowUnixUTC + 3600,
		EndAtUnixUTC:   testNowUnixUTC + 3600 + 5400,
		PriceLabel:     "1 Crédit",
		MaxCapacity:    maxCapacity,
		AttendeeCount:  0,
		AttendeeIDs:    []UserID{},
	}
	return classID
}
