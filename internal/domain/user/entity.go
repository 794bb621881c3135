package user

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInactive     = errors.New("user is inactive")
)

type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
	isActive     bool
}

func ReconstructUser(id uuid.UUID, email, passwordHash string, role Role, isActive bool) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     isActive,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
