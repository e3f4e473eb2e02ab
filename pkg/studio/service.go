package studio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service contains the booking domain logic over a Store.
//
// Every operation that moves ledger state (class seats, user credits,
// booking records) runs inside exactly one Store.WithTx envelope. The
// store's conflict detection on the class and user documents is the sole
// serialization point; the service holds no locks of its own.
type Service struct {
	store    Store
	nowFn    func() int64
	idFn     func() string
	logger   OperationLogger
	notifier Notifier
}

// NewService wires a Service.
func NewService(store Store, now func() int64, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, idFn: uuid.NewString}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// AttemptBooking reserves a seat for userID on classID, settled by method.
//
// All preconditions are checked and all three mutations (seat counter and
// attendee list, credit balance, booking record) are applied inside one
// transaction envelope: under N concurrent callers racing for the last
// seat, exactly one commits and the rest fail with ErrClassFull, never
// with partial state.
func (service *Service) AttemptBooking(ctx context.Context, userID UserID, classID ClassID, method PaymentMethod) (Booking, error) {
	var booking Booking
	var classSnapshot ClassSession
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		user, err := transactionStore.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if !user.FormCompleted {
			return ErrProfileIncomplete
		}
		if class.HasAttendee(userID) {
			return ErrAlreadyBooked
		}
		if class.AttendeeCount >= class.MaxCapacity {
			return ErrClassFull
		}
		status := PaymentStatusPending
		switch method {
		case PaymentCredit:
			if user.Credits < 1 {
				return ErrInsufficientCredit
			}
			if err := transactionStore.UpdateUserCredits(ctx, userID, user.Credits-1); err != nil {
				return err
			}
			status = PaymentStatusPaid
		case PaymentCash, PaymentWeroRIB, PaymentB2BTransfer:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
		}
		attendees := append(append([]UserID{}, class.AttendeeIDs...), userID)
		if err := transactionStore.UpdateClassAttendance(ctx, classID, class.AttendeeCount+1, attendees); err != nil {
			return err
		}
		booking = service.newBooking(class, userID, user.DisplayName, method, status, false)
		classSnapshot = class
		return transactionStore.CreateBooking(ctx, booking)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationBook,
		UserID:    userID,
		ClassID:   classID,
		BookingID: booking.BookingID,
		Method:    method,
		Error:     operationError,
	})
	if operationError != nil {
		return Booking{}, operationError
	}
	service.notify(ctx, bookingEvent(booking, classSnapshot))
	return booking, nil
}

// CancelBooking releases the caller's seat on classID and refunds a credit
// when the original settlement was CREDIT.
//
// The booking, including its payment method, is located inside the same
// envelope that performs the refund, seat release, and record deletion, so
// no state can shift between lookup and mutation.
func (service *Service) CancelBooking(ctx context.Context, userID UserID, classID ClassID) error {
	var cancelled Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		booking, err := transactionStore.FindClassBooking(ctx, classID, userID)
		if err != nil {
			return err
		}
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		if booking.PaymentMethod == PaymentCredit {
			user, err := transactionStore.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			if err := transactionStore.UpdateUserCredits(ctx, userID, user.Credits+1); err != nil {
				return err
			}
		}
		if err := transactionStore.UpdateClassAttendance(ctx, classID, class.AttendeeCount-1, removeAttendee(class.AttendeeIDs, userID)); err != nil {
			return err
		}
		cancelled = booking
		return transactionStore.DeleteBooking(ctx, booking.BookingID)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationCancel,
		UserID:    userID,
		ClassID:   classID,
		BookingID: cancelled.BookingID,
		Method:    cancelled.PaymentMethod,
		Error:     operationError,
	})
	if operationError != nil {
		return operationError
	}
	service.notify(ctx, cancelEvent(cancelled))
	return nil
}

func (service *Service) newBooking(class ClassSession, userID UserID, userName string, method PaymentMethod, status PaymentStatus, manual bool) Booking {
	bookingID, _ := NewBookingID(service.idFn())
	return Booking{
		BookingID:         bookingID,
		ClassID:           class.ClassID,
		UserID:            userID,
		UserName:          userName,
		ClassTitle:        class.Title,
		ClassStartUnixUTC: class.StartAtUnixUTC,
		Location:          class.Location,
		PriceLabel:        class.PriceLabel,
		PaymentMethod:     method,
		PaymentStatus:     status,
		Manual:            manual,
		BookedAtUnixUTC:   service.nowFn(),
	}
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

// notify runs strictly after commit, outside any transactional boundary.
// The sink swallows its own failures; nothing here can undo the commit.
func (service *Service) notify(ctx context.Context, event Event) {
	if service.notifier == nil {
		return
	}
	service.notifier.Notify(ctx, event)
}

func removeAttendee(attendees []UserID, target UserID) []UserID {
	remaining := make([]UserID, 0, len(attendees))
	for _, id := range attendees {
		if id != target {
			remaining = append(remaining, id)
		}
	}
	return remaining
}
