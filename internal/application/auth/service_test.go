package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	domuser "github.com/BiharaCD/beverage-OS/internal/domain/user"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/id"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/memory"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/repository"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	issued []string
}

func (f *fakeTokens) Issue(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, userID)
	return "token-" + userID, nil
}

func newService(t *testing.T, autoApprove bool) (*Service, domuser.Repository) {
	t.Helper()
	users := repository.NewUserRepository(memory.NewCollection[domuser.User]("users", "email"))
	clock := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(users, plainHasher{}, &fakeTokens{}, id.NewUUIDGenerator(), func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}, validation.New("LK"), nil, Config{AutoApproveOnLogin: autoApprove})
	return svc, users
}

func mustRegister(t *testing.T, svc *Service, name, email string) *domuser.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterCommand{Name: name, Email: email, Password: "secret"})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return u
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t, true)
	u := mustRegister(t, svc, "Ayesha", "  Ayesha@Example.com ")
	if u.Email != "ayesha@example.com" || u.Approved || u.Password != "hashed:secret" {
		t.Errorf("unexpected user %+v", u)
	}

	_, err := svc.Register(context.Background(), RegisterCommand{Name: "Other", Email: "AYESHA@example.com", Password: "x"})
	var cerr *apperr.ConflictError
	if !errors.As(err, &cerr) || cerr.Message != "User already exists" {
		t.Errorf("expected duplicate rejected, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterCommand{Name: "No Mail", Password: "x"})
	if !apperr.IsValidation(err) || err.Error() != "Email is required" {
		t.Errorf("expected email required, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users := newService(t, true)
	ctx := context.Background()
	u := mustRegister(t, svc, "Ayesha", "ayesha@example.com")

	if _, err := svc.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "secret"}); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err := svc.Login(ctx, LoginCommand{Email: "ayesha@example.com", Password: "wrong"})
	if !apperr.IsValidation(err) || err.Error() != "Invalid credentials" {
		t.Errorf("expected invalid credentials, got %v", err)
	}
	stored, _ := users.Get(ctx, u.ID)
	if stored.Approved {
		t.Errorf("failed login must not approve the account")
	}

	res, err := svc.Login(ctx, LoginCommand{Email: "AYESHA@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "token-"+u.ID || !res.User.Approved || res.User.ApprovedBy != nil {
		t.Errorf("unexpected login result %+v %+v", res, res.User)
	}
}

func TestLogin_WithoutAutoApprove(t *testing.T) {
	svc, _ := newService(t, false)
	mustRegister(t, svc, "Ayesha", "ayesha@example.com")

	res, err := svc.Login(context.Background(), LoginCommand{Email: "ayesha@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Approved {
		t.Errorf("account approved with auto-approve disabled")
	}
}

func TestApproveAndReject(t *testing.T) {
	svc, users := newService(t, false)
	ctx := context.Background()
	admin := mustRegister(t, svc, "Admin", "admin@example.com")
	pending := mustRegister(t, svc, "New", "new@example.com")
	other := mustRegister(t, svc, "Other", "other@example.com")

	_, err := svc.Approve(ctx, pending.ID, other.ID)
	var uerr *apperr.UnauthorizedError
	if !errors.As(err, &uerr) || !uerr.Forbidden || uerr.Message != "You are not authorized to approve users" {
		t.Fatalf("expected forbidden for unapproved approver, got %v", err)
	}

	admin.AutoApprove(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := users.Save(ctx, admin); err != nil {
		t.Fatalf("Save: %v", err)
	}

	approved, err := svc.Approve(ctx, admin.ID, pending.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !approved.Approved || approved.ApprovedBy == nil || *approved.ApprovedBy != admin.ID || approved.ApprovedAt == nil {
		t.Errorf("unexpected approved user %+v", approved)
	}
	if _, err := svc.Approve(ctx, admin.ID, pending.ID); !apperr.IsValidation(err) {
		t.Errorf("expected already approved, got %v", err)
	}
	if _, err := svc.Approve(ctx, admin.ID, "missing"); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	list, err := svc.Approved(ctx)
	if err != nil || len(list) != 2 || list[0].ID != pending.ID {
		t.Errorf("approved list should put the latest approval first: %v %v", list, err)
	}
	pendingList, _ := svc.Pending(ctx)
	if len(pendingList) != 1 || pendingList[0].ID != other.ID {
		t.Errorf("unexpected pending list %v", pendingList)
	}

	if _, err := svc.Reject(ctx, other.ID, pending.ID); err == nil || !strings.Contains(err.Error(), "reject users") {
		t.Errorf("expected forbidden reject, got %v", err)
	}
	removed, err := svc.Reject(ctx, admin.ID, other.ID)
	if err != nil || removed.ID != other.ID {
		t.Fatalf("Reject: %+v %v", removed, err)
	}
	if _, err := svc.Reject(ctx, admin.ID, other.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found after removal, got %v", err)
	}
	if _, err := svc.Profile(ctx, other.ID); !apperr.IsNotFound(err) {
		t.Errorf("rejected user still has a profile: %v", err)
	}
}
