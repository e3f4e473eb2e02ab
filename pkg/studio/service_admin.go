package studio

import (
	"context"
	"fmt"
	"strings"
)

// AddManualAttendee records an admin-entered walk-in on classID under a
// freshly synthesized identity. Walk-ins bypass the double-booking check
// (each gets a new identity) and the credit precondition (they hold no
// balance); the capacity precondition still applies inside the envelope.
func (service *Service) AddManualAttendee(ctx context.Context, classID ClassID, displayName string, method PaymentMethod) (Booking, error) {
	trimmedName := strings.TrimSpace(displayName)
	if trimmedName == "" {
		return Booking{}, fmt.Errorf("%w: display name is required", ErrInvalidUserID)
	}
	if _, err := ParsePaymentMethod(method.String()); err != nil {
		return Booking{}, err
	}
	walkIn, err := NewManualUserID(service.idFn())
	if err != nil {
		return Booking{}, err
	}
	var booking Booking
	var classSnapshot ClassSession
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		if class.AttendeeCount >= class.MaxCapacity {
			return ErrClassFull
		}
		status := PaymentStatusPending
		if method == PaymentCredit {
			status = PaymentStatusPaid
		}
		attendees := append(append([]UserID{}, class.AttendeeIDs...), walkIn)
		if err := transactionStore.UpdateClassAttendance(ctx, classID, class.AttendeeCount+1, attendees); err != nil {
			return err
		}
		booking = service.newBooking(class, walkIn, trimmedName, method, status, true)
		classSnapshot = class
		return transactionStore.CreateBooking(ctx, booking)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationManualAdd,
		UserID:    walkIn,
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

// RemoveAttendee is the admin mirror of CancelBooking for any attendee.
// A credit is refunded only when the removed booking was CREDIT-paid and
// the attendee is a real account (walk-ins never held a balance). The
// seat counter is floored at zero to tolerate prior desynchronization.
func (service *Service) RemoveAttendee(ctx context.Context, classID ClassID, attendeeID UserID) error {
	var removed Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		booking, err := transactionStore.FindClassBooking(ctx, classID, attendeeID)
		if err != nil {
			return err
		}
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		if booking.PaymentMethod == PaymentCredit && !attendeeID.IsManual() {
			user, err := transactionStore.GetUser(ctx, attendeeID)
			if err != nil {
				return err
			}
			if err := transactionStore.UpdateUserCredits(ctx, attendeeID, user.Credits+1); err != nil {
				return err
			}
		}
		nextCount := class.AttendeeCount - 1
		if nextCount < 0 {
			nextCount = 0
		}
		if err := transactionStore.UpdateClassAttendance(ctx, classID, nextCount, removeAttendee(class.AttendeeIDs, attendeeID)); err != nil {
			return err
		}
		removed = booking
		return transactionStore.DeleteBooking(ctx, booking.BookingID)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationManualRemove,
		UserID:    attendeeID,
		ClassID:   classID,
		BookingID: removed.BookingID,
		Method:    removed.PaymentMethod,
		Error:     operationError,
	})
	if operationError != nil {
		return operationError
	}
	service.notify(ctx, cancelEvent(removed))
	return nil
}

// TogglePaymentStatus flips PENDING and PAID on a non-credit booking.
// CREDIT bookings are immutable in this dimension: the credit was debited
// atomically at booking time and is never revisited.
func (service *Service) TogglePaymentStatus(ctx context.Context, bookingID BookingID) (Booking, error) {
	var toggled Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		booking, err := transactionStore.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.PaymentMethod == PaymentCredit {
			return ErrCreditPaymentFinal
		}
		booking.PaymentStatus = booking.PaymentStatus.Toggled()
		if err := transactionStore.UpdateBookingStatus(ctx, bookingID, booking.PaymentStatus); err != nil {
			return err
		}
		toggled = booking
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationPaymentToggle,
		UserID:    toggled.UserID,
		ClassID:   toggled.ClassID,
		BookingID: bookingID,
		Method:    toggled.PaymentMethod,
		Error:     operationError,
	})
	if operationError != nil {
		return Booking{}, operationError
	}
	service.notify(ctx, bookingUpdateEvent(toggled))
	return toggled, nil
}

// AdjustCredits applies an admin delta to a user's balance. A negative
// result is permitted and represents explicit debt; the transactional
// flows never drive a balance below zero on their own.
func (service *Service) AdjustCredits(ctx context.Context, userID UserID, delta int64) (Credits, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: zero delta", ErrInvalidCreditDelta)
	}
	var updated Credits
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		user, err := transactionStore.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		updated = user.Credits + Credits(delta)
		return transactionStore.UpdateUserCredits(ctx, userID, updated)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationCreditAdjust,
		UserID:    userID,
		Error:     operationError,
	})
	if operationError != nil {
		return 0, operationError
	}
	return updated, nil
}
