package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidUserEmail = errors.New("user email is required")
	ErrInvalidUserRole  = errors.New("user role must be admin or user")
	ErrMissingPassword  = errors.New("user password is required")
)

// Role is the authorization level of an account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a stored account. PasswordHash is a bcrypt digest.
type User struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// SessionUser is the password-free projection kept as the current session
type SessionUser struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
}

// NewUser builds a user with a hashed password
func NewUser(name, surname, email, password string, role Role) (*User, error) {
	if password == "" {
		return nil, ErrMissingPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         name,
		Surname:      surname,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate performs business validation on the user
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrInvalidUserEmail
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return ErrInvalidUserRole
	}
	if u.PasswordHash == "" {
		return ErrMissingPassword
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Session projects the user without credentials
func (u *User) Session() SessionUser {
	return SessionUser{
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
	}
}

// IsAdmin reports whether the session may use the admin surface
func (s *SessionUser) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// HashPassword returns the bcrypt digest of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindUserByEmail returns the index of the user with the given email, or -1
func FindUserByEmail(users []User, email string) int {
	email = NormalizeEmail(email)
	for i := range users {
		if NormalizeEmail(users[i].Email) == email {
			return i
		}
	}
	return -1
}
