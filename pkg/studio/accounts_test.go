package studio

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterUserCreatesAccountOnce(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	notifier := &recordingNotifier{}
	service := mustNewService(test, store, WithNotifier(notifier))
	userID := mustUserID(test, "user-1")

	account, err := service.RegisterUser(context.Background(), userID, "camille@example.fr", "Camille")
	if err != nil {
		test.Fatalf("register: %v", err)
	}
	if account.Credits != 0 || account.Role != RoleStudent || account.FormCompleted {
		test.Fatalf("first sign-in must start clean: %+v", account)
	}

	// A returning user keeps the existing account untouched.
	adjusted := store.users[userID]
	adjusted.Credits = 7
	store.users[userID] = adjusted
	again, err := service.RegisterUser(context.Background(), userID, "other@example.fr", "Other")
	if err != nil {
		test.Fatalf("second register: %v", err)
	}
	if again.Credits != 7 || again.Email != "camille@example.fr" {
		test.Fatalf("returning sign-in must not rewrite the account: %+v", again)
	}

	events := notifier.recorded()
	if len(events) != 1 || events[0].Type != EventProfile {
		test.Fatalf("expected a single PROFILE event on creation, got %+v", events)
	}
}

func TestUpdateProfileLiftsGate(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store)
	userID := seedUser(test, store, "user-1", 0)
	account := store.users[userID]
	account.FormCompleted = false
	store.users[userID] = account

	updated, err := service.UpdateProfile(context.Background(), userID, Profile{
		Phone:            "0600000000",
		EmergencyContact: "Dominique",
	})
	if err != nil {
		test.Fatalf("profile update: %v", err)
	}
	if !updated.FormCompleted {
		test.Fatalf("expected the booking gate lifted")
	}
	if !store.users[userID].FormCompleted {
		test.Fatalf("gate must persist")
	}
}

func TestUpdateProfileRequiresLiabilityFields(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store)
	userID := seedUser(test, store, "user-1", 0)

	if _, err := service.UpdateProfile(context.Background(), userID, Profile{EmergencyContact: "Dominique"}); !errors.Is(err, ErrProfileIncomplete) {
		test.Fatalf("expected missing phone rejection, got %v", err)
	}
	if _, err := service.UpdateProfile(context.Background(), userID, Profile{Phone: "0600000000"}); !errors.Is(err, ErrProfileIncomplete) {
		test.Fatalf("expected missing emergency contact rejection, got %v", err)
	}
}

func TestUpdateProfileUnknownUser(test *testing.T) {
	test.Parallel()
	store := newStubStore()
	service := mustNewService(test, store)

	if _, err := service.UpdateProfile(context.Background(), mustUserID(test, "ghost"), Profile{
		Phone:            "0600000000",
		EmergencyContact: "Dominique",
	}); !errors.Is(err, ErrUserNotFound) {
		test.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
