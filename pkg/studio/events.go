package studio

import (
	"context"
	"fmt"
	"time"
)

// EventType enumerates the ledger events mirrored to the external sink.
type EventType string

const (
	EventBooking       EventType = "BOOKING"
	EventCancel        EventType = "CANCEL"
	EventBookingUpdate EventType = "BOOKING_UPDATE"
	EventProfile       EventType = "PROFILE"
)

// Event is a flat key-value record describing one ledger event. It is a
// snapshot: the sink is not part of the consistency boundary and the
// payload is never re-derived from live state.
type Event struct {
	Type    EventType
	Payload map[string]string
}

// Notifier delivers events to the external mirror. Implementations are
// best-effort: Notify must never block the caller beyond a bounded send
// and must swallow delivery failures.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

func bookingEvent(booking Booking, class ClassSession) Event {
	startAt := time.Unix(booking.ClassStartUnixUTC, 0).UTC()
	return Event{
		Type: EventBooking,
		Payload: map[string]string{
			"classId":     booking.ClassID.String(),
			"classTitle":  booking.ClassTitle,
			"date":        startAt.Format("02/01/2006"),
			"time":        startAt.Format("15:04"),
			"location":    booking.Location,
			"price":       booking.PriceLabel,
			"capacity":    fmt.Sprintf("%d", class.MaxCapacity),
			"studentId":   booking.UserID.String(),
			"studentName": fmt.Sprintf("%s (%s)", booking.UserName, booking.PaymentMethod),
			"status":      booking.PaymentStatus.String(),
		},
	}
}

func cancelEvent(booking Booking) Event {
	return Event{
		Type: EventCancel,
		Payload: map[string]string{
			"classId":   booking.ClassID.String(),
			"bookingId": booking.BookingID.String(),
			"studentId": booking.UserID.String(),
		},
	}
}

func bookingUpdateEvent(booking Booking) Event {
	return Event{
		Type: EventBookingUpdate,
		Payload: map[string]string{
			"bookingId": booking.BookingID.String(),
			"classId":   booking.ClassID.String(),
			"studentId": booking.UserID.String(),
			"method":    booking.PaymentMethod.String(),
			"status":    booking.PaymentStatus.String(),
		},
	}
}

func profileEvent(user UserAccount) Event {
	return Event{
		Type: EventProfile,
		Payload: map[string]string{
			"id":               user.UserID.String(),
			"displayName":      user.DisplayName,
			"email":            user.Email,
			"credits":          fmt.Sprintf("%d", user.Credits.Int64()),
			"street":           user.Profile.Street,
			"zipCode":          user.Profile.ZipCode,
			"city":             user.Profile.City,
			"phone":            user.Profile.Phone,
			"emergencyContact": user.Profile.EmergencyContact,
			"emergencyPhone":   user.Profile.EmergencyPhone,
		},
	}
}
