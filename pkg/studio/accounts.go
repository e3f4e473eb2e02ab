package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// RegisterUser creates the account on first external-identity sign-in
// with zero credits and the student role, and is a no-op for returning
// users. The identity itself is provisioned elsewhere; only the opaque
// identifier, email, and display name cross the boundary.
func (service *Service) RegisterUser(ctx context.Context, userID UserID, email string, displayName string) (UserAccount, error) {
	var account UserAccount
	var created bool
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		existing, err := transactionStore.GetUser(ctx, userID)
		if err == nil {
			account = existing
			return nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		account = UserAccount{
			UserID:      userID,
			Email:       strings.TrimSpace(email),
			DisplayName: strings.TrimSpace(displayName),
			Role:        RoleStudent,
			Credits:     0,
		}
		created = true
		return transactionStore.CreateUser(ctx, account)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationRegister,
		UserID:    userID,
		Error:     operationError,
	})
	if operationError != nil {
		return UserAccount{}, operationError
	}
	if created {
		service.notify(ctx, profileEvent(account))
	}
	return account, nil
}

// UpdateProfile stores the liability fields and lifts the booking gate.
func (service *Service) UpdateProfile(ctx context.Context, userID UserID, profile Profile) (UserAccount, error) {
	if strings.TrimSpace(profile.Phone) == "" {
		return UserAccount{}, fmt.Errorf("%w: phone is required", ErrProfileIncomplete)
	}
	if strings.TrimSpace(profile.EmergencyContact) == "" {
		return UserAccount{}, fmt.Errorf("%w: emergency contact is required", ErrProfileIncomplete)
	}
	var account UserAccount
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		user, err := transactionStore.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := transactionStore.UpdateUserProfile(ctx, userID, profile, true); err != nil {
			return err
		}
		user.Profile = profile
		user.FormCompleted = true
		account = user
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationProfileUpdate,
		UserID:    userID,
		Error:     operationError,
	})
	if operationError != nil {
		return UserAccount{}, operationError
	}
	service.notify(ctx, profileEvent(account))
	return account, nil
}

// GetUser returns one account.
func (service *Service) GetUser(ctx context.Context, userID UserID) (UserAccount, error) {
	return service.store.GetUser(ctx, userID)
}

// ListUsers returns every account, for the admin student roster.
func (service *Service) ListUsers(ctx context.Context) ([]UserAccount, error) {
	return service.store.ListUsers(ctx)
}

// ListUserBookings returns a user's booking history, newest first.
func (service *Service) ListUserBookings(ctx context.Context, userID UserID) ([]Booking, error) {
	return service.store.ListUserBookings(ctx, userID)
}

// ListClassAttendees returns the booking records behind a class roster.
func (service *Service) ListClassAttendees(ctx context.Context, classID ClassID) ([]Booking, error) {
	return service.store.ListClassBookings(ctx, classID)
}

// GetBooking returns one booking record.
func (service *Service) GetBooking(ctx context.Context, bookingID BookingID) (Booking, error) {
	return service.store.GetBooking(ctx, bookingID)
}
