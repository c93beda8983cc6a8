package dto

import "github.com/mrops-br/storefront-api/internal/domain"

// Messages returned in AuthResult
const (
	MsgRegistered          = "Account created, you can sign in now."
	MsgEmailTaken          = "Email is already registered."
	MsgInvalidCredentials  = "Invalid credentials."
	MsgInvalidRegistration = "Name, surname, email and password are required."
	MsgLoggedIn            = "Signed in."
)

// AuthOutcome is the machine-readable result of register and login
type AuthOutcome string

const (
	OutcomeRegistered          AuthOutcome = "registered"
	OutcomeLoggedIn            AuthOutcome = "logged_in"
	OutcomeEmailTaken          AuthOutcome = "email_taken"
	OutcomeInvalidRegistration AuthOutcome = "invalid_registration"
	OutcomeInvalidCredentials  AuthOutcome = "invalid_credentials"
)

// RegisterRequest represents POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries business outcomes of register and login.
// A failed login or duplicate email is OK=false, not an error.
type AuthResult struct {
	OK      bool                `json:"ok"`
	Outcome AuthOutcome         `json:"outcome"`
	Message string              `json:"message"`
	User    *domain.SessionUser `json:"user,omitempty"`
}
