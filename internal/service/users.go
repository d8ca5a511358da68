// Package service implements the application workflows over the document
// mappers. Services are stateless; every method takes the request's scope.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacentio/lattice/internal/auth"
	"github.com/jacentio/lattice/model"
	"github.com/jacentio/lattice/store"
)

var (
	// ErrEmailTaken is returned when an email is already registered to
	// another account.
	ErrEmailTaken = errors.New("service: email already registered")

	// ErrWrongPassword is returned when the current password does not match.
	ErrWrongPassword = errors.New("service: incorrect password")

	// ErrSamePassword is returned when the new password equals the current
	// one.
	ErrSamePassword = errors.New("service: new password equals current password")
)

// Users implements account workflows.
type Users struct {
	users *store.Mapper[model.User, *model.User]
	items *store.Mapper[model.Item, *model.Item]
}

// NewUsers creates the user service over the package-level mappers.
func NewUsers() *Users {
	return &Users{users: model.Users, items: model.Items}
}

// Get returns the user with the given identity, or nil when absent.
func (s *Users) Get(ctx context.Context, scope *store.Scope, id store.ID) (*model.User, error) {
	return s.users.FindOne(ctx, scope, store.ByID(id))
}

// GetByEmail returns the user with the given email, or nil when absent.
// The lookup canonicalizes the email the same way the persist hook does.
func (s *Users) GetByEmail(ctx context.Context, scope *store.Scope, email string) (*model.User, error) {
	return s.users.FindOne(ctx, scope, store.Eq("email", model.CanonicalEmail(email)))
}

// Authenticate resolves email and password to a user. Unknown email and
// wrong password both return (nil, nil); the caller must not distinguish
// them.
func (s *Users) Authenticate(ctx context.Context, scope *store.Scope, email, password string) (*model.User, error) {
	user, err := s.GetByEmail(ctx, scope, email)
	if err != nil || user == nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, nil
	}
	return user, nil
}

// CreateUserInput is the full account creation request.
type CreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

// Create registers a new account. A taken email fails with ErrEmailTaken,
// whether detected by the pre-check or by the unique index under a
// concurrent race.
func (s *Users) Create(ctx context.Context, scope *store.Scope, in CreateUserInput) (*model.User, error) {
	existing, err := s.GetByEmail(ctx, scope, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          in.Email,
		HashedPassword: hashed,
		IsActive:       in.IsActive,
		IsSuperuser:    in.IsSuperuser,
		FullName:       in.FullName,
	}
	if err := s.users.Save(ctx, scope, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Register is open signup: the account starts active and unprivileged.
func (s *Users) Register(ctx context.Context, scope *store.Scope, email, password, fullName string) (*model.User, error) {
	return s.Create(ctx, scope, CreateUserInput{
		Email:    email,
		Password: password,
		FullName: fullName,
		IsActive: true,
	})
}

// List returns one page of users and the total count.
func (s *Users) List(ctx context.Context, scope *store.Scope, skip, limit int64) ([]*model.User, int64, error) {
	count, err := s.users.Count(ctx, scope, store.MatchAll())
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.users.Find(ctx, scope, store.MatchAll().
		WithSort(store.Key{Field: "created_at", Order: store.Ascending}).
		WithSkip(skip).
		WithLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	users, err := cur.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// UpdateUserInput is a partial account patch; nil fields stay untouched.
type UpdateUserInput struct {
	Email       *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// Update patches the account and returns the updated user, or nil when the
// account does not exist. Patches bypass persist hooks, so hook-normalized
// fields are canonicalized here before they reach the patch.
func (s *Users) Update(ctx context.Context, scope *store.Scope, id store.ID, in UpdateUserInput) (*model.User, error) {
	patch := store.Patch{}
	if in.Email != nil {
		email := model.CanonicalEmail(*in.Email)
		existing, err := s.GetByEmail(ctx, scope, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailTaken
		}
		patch["email"] = email
	}
	if in.Password != nil {
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch["hashed_password"] = hashed
	}
	if in.FullName != nil {
		patch["full_name"] = *in.FullName
	}
	if in.IsActive != nil {
		patch["is_active"] = *in.IsActive
	}
	if in.IsSuperuser != nil {
		patch["is_superuser"] = *in.IsSuperuser
	}
	if len(patch) > 0 {
		if _, err := s.users.UpdateMany(ctx, scope, store.ByID(id), patch); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}
	return s.Get(ctx, scope, id)
}

// ChangePassword verifies the current password and stores a new digest.
func (s *Users) ChangePassword(ctx context.Context, scope *store.Scope, user *model.User, current, next string) error {
	if !auth.VerifyPassword(current, user.HashedPassword) {
		return ErrWrongPassword
	}
	if current == next {
		return ErrSamePassword
	}
	hashed, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.users.UpdateMany(ctx, scope, store.ByID(user.ID), store.Patch{"hashed_password": hashed})
	return err
}

// Delete removes the account and everything it owns. The store enforces no
// reference from items to users, so this is an explicit two-step workflow:
// dependents first, owner second. If the owner delete fails after the
// dependents were removed, re-issuing the call is safe; the dependent
// delete is idempotent.
func (s *Users) Delete(ctx context.Context, scope *store.Scope, id store.ID) error {
	if _, err := s.items.Delete(ctx, scope, store.EqID("owner_id", id)); err != nil {
		return fmt.Errorf("delete owned items: %w", err)
	}
	if _, err := s.users.Delete(ctx, scope, store.ByID(id)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
