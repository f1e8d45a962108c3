package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tnwnrrl/schedule/internal/pkg/jwt"
	"github.com/tnwnrrl/schedule/internal/pkg/password"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) LinkActor(ctx context.Context, userID, actorID uuid.UUID) error { return nil }
func (f *fakeUserRepo) UnlinkActor(ctx context.Context, actorID uuid.UUID) error       { return nil }
func (f *fakeUserRepo) UpdateEmailByActor(ctx context.Context, actorID uuid.UUID, email string) error {
	return nil
}

func TestLoginReportsAccessTokenLifetime(t *testing.T) {
	hash, err := password.Hash("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		Name:         "관리자",
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	repo := &fakeUserRepo{users: map[uuid.UUID]*User{u.ID: u}}

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 720*time.Hour)
	svc := NewService(repo, jwtService, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "admin@example.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("login must issue both tokens")
	}
	if resp.Tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Fatalf("expires_in = %d, want the access token lifetime", resp.Tokens.ExpiresIn)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := password.Hash("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &User{ID: uuid.New(), Email: "admin@example.com", PasswordHash: hash, Role: RoleAdmin}
	repo := &fakeUserRepo{users: map[uuid.UUID]*User{u.ID: u}}

	svc := NewService(repo, jwt.NewService("test-secret", 15*time.Minute, 720*time.Hour), nil)

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
