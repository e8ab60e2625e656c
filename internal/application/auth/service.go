// Package auth runs staff registration, login and the approval workflow.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/BiharaCD/beverage-OS/internal/application"
	domuser "github.com/BiharaCD/beverage-OS/internal/domain/user"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

const authService = "auth-service"

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type RegisterCommand struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginCommand struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var authMessages = validation.Messages{
	"Name.required":     "Name is required",
	"Email.required":    "Email is required",
	"Email.email":       "Email must be a valid email address",
	"Password.required": "Password is required",
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

type Config struct {
	// AutoApproveOnLogin approves a pending account the first time it logs in.
	AutoApproveOnLogin bool
}

type Service struct {
	users     domuser.Repository
	hasher    Hasher
	tokens    TokenIssuer
	ids       application.IDGenerator
	now       application.Clock
	validator *validation.Validator
	cfg       Config
	in        *application.Instrument
}

func NewService(users domuser.Repository, hasher Hasher, tokens TokenIssuer, ids application.IDGenerator, clock application.Clock, v *validation.Validator, tel observability.Observability, cfg Config) *Service {
	if clock == nil {
		clock = application.SystemClock
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		ids:       ids,
		now:       clock,
		validator: v,
		cfg:       cfg,
		in:        application.NewInstrument(tel, authService),
	}
}

var errUserNotFound = &apperr.NotFoundError{Resource: "User", Message: "User not found"}

// Register creates a pending account.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (_ *domuser.User, err error) {
	ctx, run := s.in.Start(ctx, "auth.register", "Register")
	defer func() { run.End(err) }()

	cmd.Email = domuser.NormalizeEmail(cmd.Email)
	if err := s.validator.Struct(cmd, authMessages); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, apperr.Conflict("User already exists")
	} else if !errors.Is(err, domuser.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash: %w", err)
	}
	u := domuser.New(s.ids.NewID(), cmd.Name, cmd.Email, hash, s.now())
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domuser.ErrEmailTaken) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, err
	}
	run.Add(observability.F("user_id", u.ID))
	return u, nil
}

// Login checks credentials and issues a token. Pending accounts are approved here
// when AutoApproveOnLogin is set, after the password has been checked.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (_ *LoginResult, err error) {
	ctx, run := s.in.Start(ctx, "auth.login", "Login")
	defer func() { run.End(err) }()

	if err := s.validator.Struct(cmd, authMessages); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, cmd.Email)
	if errors.Is(err, domuser.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Add(observability.F("user_id", u.ID))

	ok, err := s.hasher.Compare(u.Password, cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: compare: %w", err)
	}
	if !ok {
		return nil, apperr.Validation("password", "Invalid credentials")
	}

	if !u.Approved && s.cfg.AutoApproveOnLogin {
		u.AutoApprove(s.now())
		if err := s.users.Save(ctx, u); err != nil {
			return nil, err
		}
		run.Event("auto_approved")
		run.Add(observability.F("auto_approved", true))
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

// Profile returns the account behind an authenticated request.
func (s *Service) Profile(ctx context.Context, userID string) (*domuser.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domuser.ErrNotFound) {
		return nil, errUserNotFound
	}
	return u, err
}

// Pending lists accounts awaiting approval, newest first.
func (s *Service) Pending(ctx context.Context) ([]*domuser.User, error) {
	return s.users.ListByApproval(ctx, false)
}

// Approved lists approved accounts, most recently approved first.
func (s *Service) Approved(ctx context.Context) ([]*domuser.User, error) {
	return s.users.ListByApproval(ctx, true)
}

// Approve lets an approved user approve a pending one.
func (s *Service) Approve(ctx context.Context, approverID, userID string) (_ *domuser.User, err error) {
	ctx, run := s.in.Start(ctx, "auth.approve", "ApproveUser", attribute.String("user.id", userID))
	defer func() { run.End(err) }()
	run.Add(observability.F("approver_id", approverID), observability.F("user_id", userID))

	if err := s.checkApprover(ctx, approverID, "You are not authorized to approve users"); err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domuser.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := u.Approve(approverID, s.now()); err != nil {
		if errors.Is(err, domuser.ErrAlreadyApproved) {
			return nil, apperr.Validation("userId", "User is already approved")
		}
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Reject lets an approved user delete another account.
func (s *Service) Reject(ctx context.Context, approverID, userID string) (_ *domuser.User, err error) {
	ctx, run := s.in.Start(ctx, "auth.reject", "RejectUser", attribute.String("user.id", userID))
	defer func() { run.End(err) }()
	run.Add(observability.F("approver_id", approverID), observability.F("user_id", userID))

	if err := s.checkApprover(ctx, approverID, "You are not authorized to reject users"); err != nil {
		return nil, err
	}

	u, err := s.users.Delete(ctx, userID)
	if errors.Is(err, domuser.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) checkApprover(ctx context.Context, approverID, message string) error {
	approver, err := s.users.Get(ctx, approverID)
	if errors.Is(err, domuser.ErrNotFound) {
		return apperr.Forbidden(message)
	}
	if err != nil {
		return err
	}
	if !approver.Approved {
		return apperr.Forbidden(message)
	}
	return nil
}
