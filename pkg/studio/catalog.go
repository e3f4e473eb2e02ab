package studio

import (
	"context"
	"fmt"
	"strings"
)

// ClassInput carries the admin-provided fields of a new or edited class.
type ClassInput struct {
	Title          string
	Description    string
	Instructor     string
	Location       string
	LocationAddr   string
	StartAtUnixUTC int64
	EndAtUnixUTC   int64
	PriceLabel     string
	MaxCapacity    int
}

// CreateClass registers a new class occurrence with an empty attendee
// list. A zero end time defaults to ninety minutes after the start.
func (service *Service) CreateClass(ctx context.Context, input ClassInput) (ClassSession, error) {
	classID, err := NewClassID(service.idFn())
	if err != nil {
		return ClassSession{}, err
	}
	endAt := input.EndAtUnixUTC
	if endAt == 0 {
		endAt = input.StartAtUnixUTC + DefaultClassLengthSeconds()
	}
	class := ClassSession{
		ClassID:        classID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Instructor:     input.Instructor,
		Location:       input.Location,
		LocationAddr:   input.LocationAddr,
		StartAtUnixUTC: input.StartAtUnixUTC,
		EndAtUnixUTC:   endAt,
		PriceLabel:     input.PriceLabel,
		MaxCapacity:    input.MaxCapacity,
		AttendeeCount:  0,
		AttendeeIDs:    []UserID{},
	}
	if err := class.Validate(); err != nil {
		return ClassSession{}, err
	}
	operationError := service.store.CreateClass(ctx, class)
	service.logOperation(ctx, OperationLog{
		Operation: operationClassCreate,
		ClassID:   classID,
		Error:     operationError,
	})
	if operationError != nil {
		return ClassSession{}, operationError
	}
	return class, nil
}

// UpdateClass applies admin edits to schedule, capacity, price, and
// location. It runs inside the same envelope mechanism as bookings so a
// capacity edit cannot interleave with a concurrent seat grab, and it
// refuses to shrink capacity below the current attendee count.
func (service *Service) UpdateClass(ctx context.Context, classID ClassID, input ClassInput) (ClassSession, error) {
	var updated ClassSession
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		if input.MaxCapacity < class.AttendeeCount {
			return fmt.Errorf("%w: capacity below current attendance", ErrInvalidClassSession)
		}
		endAt := input.EndAtUnixUTC
		if endAt == 0 {
			endAt = input.StartAtUnixUTC + DefaultClassLengthSeconds()
		}
		class.Title = strings.TrimSpace(input.Title)
		class.Description = input.Description
		class.Instructor = input.Instructor
		class.Location = input.Location
		class.LocationAddr = input.LocationAddr
		class.StartAtUnixUTC = input.StartAtUnixUTC
		class.EndAtUnixUTC = endAt
		class.PriceLabel = input.PriceLabel
		class.MaxCapacity = input.MaxCapacity
		if err := class.Validate(); err != nil {
			return err
		}
		updated = class
		return transactionStore.UpdateClass(ctx, class)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationClassUpdate,
		ClassID:   classID,
		Error:     operationError,
	})
	if operationError != nil {
		return ClassSession{}, operationError
	}
	return updated, nil
}

// DeleteClass removes an empty class occurrence. Deletion is refused
// while attendees remain so bookings are never orphaned; past classes
// with history are archived instead.
func (service *Service) DeleteClass(ctx context.Context, classID ClassID) error {
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		if class.AttendeeCount > 0 {
			return ErrClassNotEmpty
		}
		return transactionStore.DeleteClass(ctx, classID)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationClassDelete,
		ClassID:   classID,
		Error:     operationError,
	})
	return operationError
}

// ArchiveClass flags a past class for invoice bookkeeping.
func (service *Service) ArchiveClass(ctx context.Context, classID ClassID, archived bool) error {
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.GetClass(ctx, classID); err != nil {
			return err
		}
		return transactionStore.SetClassArchived(ctx, classID, archived)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationClassArchive,
		ClassID:   classID,
		Error:     operationError,
	})
	return operationError
}

// GetClass returns one class occurrence.
func (service *Service) GetClass(ctx context.Context, classID ClassID) (ClassSession, error) {
	return service.store.GetClass(ctx, classID)
}

// Catalog splits the schedule at the supplied instant: upcoming classes
// for the planning view, finished ones (most recent first) for archives.
type Catalog struct {
	Upcoming []ClassSession
	Past     []ClassSession
}

// ListCatalog loads all classes and splits them around now.
func (service *Service) ListCatalog(ctx context.Context) (Catalog, error) {
	classes, err := service.store.ListClasses(ctx)
	if err != nil {
		return Catalog{}, err
	}
	nowUnixUTC := service.nowFn()
	catalog := Catalog{Upcoming: []ClassSession{}, Past: []ClassSession{}}
	for _, class := range classes {
		if class.EndAtUnixUTC > nowUnixUTC {
			catalog.Upcoming = append(catalog.Upcoming, class)
		} else {
			catalog.Past = append(catalog.Past, class)
		}
	}
	for i, j := 0, len(catalog.Past)-1; i < j; i, j = i+1, j-1 {
		catalog.Past[i], catalog.Past[j] = catalog.Past[j], catalog.Past[i]
	}
	return catalog, nil
}

// ReconcileClassAttendance compares the denormalized seat counter and
// attendee list against the booking collection. The counter is the
// request-time source of truth; this is the periodic consistency check
// that catches drift introduced outside the transaction envelope.
func (service *Service) ReconcileClassAttendance(ctx context.Context, classID ClassID) (AttendanceDrift, error) {
	var drift AttendanceDrift
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		class, err := transactionStore.GetClass(ctx, classID)
		if err != nil {
			return err
		}
		bookings, err := transactionStore.ListClassBookings(ctx, classID)
		if err != nil {
			return err
		}
		booked := make(map[UserID]bool, len(bookings))
		for _, booking := range bookings {
			booked[booking.UserID] = true
		}
		missing := []UserID{}
		for _, attendee := range class.AttendeeIDs {
			if !booked[attendee] {
				missing = append(missing, attendee)
			}
		}
		drift = AttendanceDrift{
			ClassID:        classID,
			AttendeeCount:  class.AttendeeCount,
			BookingCount:   len(bookings),
			MissingFromIDs: missing,
		}
		return nil
	})
	if operationError != nil {
		return AttendanceDrift{}, operationError
	}
	return drift, nil
}
