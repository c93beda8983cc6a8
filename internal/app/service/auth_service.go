package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// RegisterUser creates a customer account. Duplicate emails and incomplete
// data come back as a failed result and leave the users record untouched.
func (s *StoreService) RegisterUser(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.RegisterUser")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Surname) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.record(ctx, "register", "invalid")
		span.SetStatus(codes.Ok, "invalid registration")
		return &dto.AuthResult{OK: false, Outcome: dto.OutcomeInvalidRegistration, Message: dto.MsgInvalidRegistration}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	if domain.FindUserByEmail(users, req.Email) >= 0 {
		s.logger.InfoContext(ctx, "Registration rejected, email already registered")
		s.record(ctx, "register", "duplicate")
		span.SetStatus(codes.Ok, "duplicate email")
		return &dto.AuthResult{OK: false, Outcome: dto.OutcomeEmailTaken, Message: dto.MsgEmailTaken}, nil
	}

	user, err := domain.NewUser(strings.TrimSpace(req.Name), strings.TrimSpace(req.Surname), req.Email, req.Password, domain.RoleUser)
	if err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	users = append(users, *user)
	if err := s.users.SaveUsers(ctx, users); err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	s.usersRegistered.Add(ctx, 1)
	s.record(ctx, "register", "success")
	s.logger.InfoContext(ctx, "User registered",
		slog.Int("user_count", len(users)),
	)

	span.SetStatus(codes.Ok, "")
	return &dto.AuthResult{OK: true, Outcome: dto.OutcomeRegistered, Message: dto.MsgRegistered}, nil
}

// LoginUser checks credentials and stores the password-free projection of the
// account as the current session
func (s *StoreService) LoginUser(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.LoginUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "login", err)
	}

	i := domain.FindUserByEmail(users, req.Email)
	if i < 0 || !users[i].CheckPassword(req.Password) {
		s.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "failure")))
		s.logger.WarnContext(ctx, "Login rejected")
		span.SetStatus(codes.Ok, "invalid credentials")
		return &dto.AuthResult{OK: false, Outcome: dto.OutcomeInvalidCredentials, Message: dto.MsgInvalidCredentials}, nil
	}

	session := users[i].Session()
	if err := s.sessions.SetCurrentUser(ctx, &session); err != nil {
		return nil, s.fail(ctx, span, "login", err)
	}

	s.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))
	span.SetAttributes(attribute.String("user.role", string(session.Role)))
	s.logger.InfoContext(ctx, "User logged in",
		slog.String("role", string(session.Role)),
	)

	span.SetStatus(codes.Ok, "")
	return &dto.AuthResult{OK: true, Outcome: dto.OutcomeLoggedIn, Message: dto.MsgLoggedIn, User: &session}, nil
}

// LogoutUser clears the current session
func (s *StoreService) LogoutUser(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.LogoutUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.SetCurrentUser(ctx, nil); err != nil {
		return s.fail(ctx, span, "logout", err)
	}

	s.record(ctx, "logout", "success")
	span.SetStatus(codes.Ok, "")
	return nil
}

// CurrentUser returns the signed-in user, or nil when anonymous
func (s *StoreService) CurrentUser(ctx context.Context) (*domain.SessionUser, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.CurrentUser")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "session", err)
	}

	span.SetAttributes(attribute.Bool("session.authenticated", user != nil))
	span.SetStatus(codes.Ok, "")
	return user, nil
}
