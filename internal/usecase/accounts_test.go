package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/repository"
)

type memUserStore struct {
	nextID uint
	users  map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[string]*models.User)}
}

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	u.ID = s.nextID
	s.nextID++
	s.users[u.Username] = u
	return nil
}

func (s *memUserStore) ByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) ByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) All(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func TestRegisterLoginVerifyRoundTrip(t *testing.T) {
	uc := NewAccountUseCase(newMemUserStore(), "test-secret", time.Hour)
	ctx := context.Background()

	u, err := uc.Register(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.PasswordHash == "hunter22" {
		t.Fatalf("password stored in plain text")
	}

	if _, err := uc.Register(ctx, "alice", "other"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected username-taken, got %v", err)
	}

	token, logged, err := uc.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("login returned wrong user: %d vs %d", logged.ID, u.ID)
	}

	id, err := uc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != u.ID {
		t.Fatalf("token carries user %d, want %d", id, u.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc := NewAccountUseCase(newMemUserStore(), "test-secret", time.Hour)
	ctx := context.Background()

	if _, _, err := uc.Login(ctx, "ghost", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid-credentials for unknown user, got %v", err)
	}

	if _, err := uc.Register(ctx, "bob", "correct"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := uc.Login(ctx, "bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid-credentials for wrong password, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	uc := NewAccountUseCase(newMemUserStore(), "secret-a", time.Hour)
	other := NewAccountUseCase(newMemUserStore(), "secret-b", time.Hour)
	ctx := context.Background()

	if _, err := uc.Register(ctx, "carol", "pw123456"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := uc.Login(ctx, "carol", "pw123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := other.VerifyToken(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("token signed with another secret must be rejected, got %v", err)
	}
}
