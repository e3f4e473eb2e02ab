package studio

import (
	"context"
	"errors"
	"testing"
)

func TestCreateClassDefaultsEndTime(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store)

	class, err := service.CreateClass(context.Background(), ClassInput{
		Title:          "Pole Inter",
		Instructor:     "Ali",
		Location:       "Studio Picardia",
		StartAtUnixUTC: testNowUnixUTC + 7200,
		PriceLabel:     "15€",
		MaxCapacity:    12,
	})
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if class.EndAtUnixUTC != class.StartAtUnixUTC+DefaultClassLengthSeconds() {
		test.Fatalf("expected ninety-minute default, got %d", class.EndAtUnixUTC-class.StartAtUnixUTC)
	}
	if class.AttendeeCount != 0 || len(class.AttendeeIDs) != 0 {
		test.Fatalf("new class must start empty")
	}
}

func TestCreateClassValidation(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store)

	cases := []struct {
		name  string
		input ClassInput
	}{
		{"blank title", ClassInput{StartAtUnixUTC: 10, MaxCapacity: 5}},
		{"zero capacity", ClassInput{Title: "Pole", StartAtUnixUTC: 10, MaxCapacity: 0}},
		{"end before start", ClassInput{Title: "Pole", StartAtUnixUTC: 100, EndAtUnixUTC: 50, MaxCapacity: 5}},
	}
	for _, testCase := range cases {
		if _, err := service.CreateClass(context.Background(), testCase.input); !errors.Is(err, ErrInvalidClassSession) {
			test.Fatalf("%s: expected ErrInvalidClassSession, got %v", testCase.name, err)
		}
	}
}

func TestUpdateClassCannotShrinkBelowAttendance(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	classID := seedClass(test, store, "class-1", 3)
	first := seedUser(test, store, "user-1", 0)
	second := seedUser(test, store, "user-2", 0)
	service := mustNewService(test, store)

	for _, userID := range []UserID{first, second} {
		if _, err := service.AttemptBooking(context.Background(), userID, classID, PaymentCash); err != nil {
			test.Fatalf("booking: %v", err)
		}
	}
	_, err := service.UpdateClass(context.Background(), classID, ClassInput{
		Title:          "Pole Débutant",
		StartAtUnixUTC: testNowUnixUTC + 3600,
		MaxCapacity:    1,
	})
	if !errors.Is(err, ErrInvalidClassSession) {
		test.Fatalf("expected capacity shrink rejection, got %v", err)
	}
	if store.classes[classID].MaxCapacity != 3 {
		test.Fatalf("rejected edit must not persist")
	}
}

func TestUpdateClassDoesNotRewriteBookingSnapshots(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	classID := seedClass(test, store, "class-1", 3)
	userID := seedUser(test, store, "user-1", 0)
	service := mustNewService(test, store)

	booking, err := service.AttemptBooking(context.Background(), userID, classID, PaymentCash)
	if err != nil {
		test.Fatalf("booking: %v", err)
	}
	if _, err := service.UpdateClass(context.Background(), classID, ClassInput{
		Title:          "Renamed",
		StartAtUnixUTC: testNowUnixUTC + 9000,
		MaxCapacity:    3,
	}); err != nil {
		test.Fatalf("update: %v", err)
	}
	stored := store.bookings[booking.BookingID]
	if stored.ClassTitle != "Pole Débutant" {
		test.Fatalf("booking snapshot rewritten to %q", stored.ClassTitle)
	}
}

func TestDeleteClassRefusedWhileAttended(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	classID := seedClass(test, store, "class-1", 3)
	userID := seedUser(test, store, "user-1", 0)
	service := mustNewService(test, store)

	if _, err := service.AttemptBooking(context.Background(), userID, classID, PaymentCash); err != nil {
		test.Fatalf("booking: %v", err)
	}
	if err := service.DeleteClass(context.Background(), classID); !errors.Is(err, ErrClassNotEmpty) {
		test.Fatalf("expected ErrClassNotEmpty, got %v", err)
	}
	if err := service.CancelBooking(context.Background(), userID, classID); err != nil {
		test.Fatalf("cancel: %v", err)
	}
	if err := service.DeleteClass(context.Background(), classID); err != nil {
		test.Fatalf("delete of empty class: %v", err)
	}
}

func TestArchiveClassFlagsForBookkeeping(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	classID := seedClass(test, store, "class-1", 3)
	service := mustNewService(test, store)

	if err := service.ArchiveClass(context.Background(), classID, true); err != nil {
		test.Fatalf("archive: %v", err)
	}
	if !store.classes[classID].Archived {
		test.Fatalf("expected archived flag set")
	}
}

func TestListCatalogSplitsAroundNow(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	upcoming := seedClass(test, store, "future", 3)
	finished := mustClassID(test, "finished")
	store.classes[finished] = ClassSession{
		ClassID:        finished,
		Title:          "Past",
		StartAtUnixUTC: testNowUnixUTC - 7200,
		EndAtUnixUTC:   testNowUnixUTC - 1800,
		MaxCapacity:    5,
		AttendeeIDs:    []UserID{},
	}
	service := mustNewService(test, store)

	catalog, err := service.ListCatalog(context.Background())
	if err != nil {
		test.Fatalf("catalog: %v", err)
	}
	if len(catalog.Upcoming) != 1 || catalog.Upcoming[0].ClassID != upcoming {
		test.Fatalf("unexpected upcoming set: %+v", catalog.Upcoming)
	}
	if len(catalog.Past) != 1 || catalog.Past[0].ClassID != finished {
		test.Fatalf("unexpected past set: %+v", catalog.Past)
	}
}

func TestReconcileReportsDrift(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	classID := seedClass(test, store, "class-1", 5)
	userID := seedUser(test, store, "user-1", 0)
	service := mustNewService(test, store)

	if _, err := service.AttemptBooking(context.Background(), userID, classID, PaymentCash); err != nil {
		test.Fatalf("booking: %v", err)
	}
	drift, err := service.ReconcileClassAttendance(context.Background(), classID)
	if err != nil {
		test.Fatalf("reconcile: %v", err)
	}
	if !drift.InSync() {
		test.Fatalf("expected clean reconciliation, got %+v", drift)
	}

	// Inject drift the way an out-of-envelope write would: a ghost on the
	// attendee list with no backing booking.
	ghost := mustUserID(test, "ghost")
	class := store.classes[classID]
	class.AttendeeIDs = append(class.AttendeeIDs, ghost)
	class.AttendeeCount++
	store.classes[classID] = class

	drift, err = service.ReconcileClassAttendance(context.Background(), classID)
	if err != nil {
		test.Fatalf("reconcile: %v", err)
	}
	if drift.InSync() {
		test.Fatalf("expected drift report")
	}
	if drift.AttendeeCount != 2 || drift.BookingCount != 1 || len(drift.MissingFromIDs) != 1 {
		test.Fatalf("unexpected drift: %+v", drift)
	}
}
