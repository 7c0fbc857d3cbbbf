package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/internal/access"
	"github.com/mussa52/madalali-tz/internal/users"
	pkgAuth "github.com/mussa52/madalali-tz/pkg/auth"
	"github.com/mussa52/madalali-tz/pkg/config"
	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
	"github.com/mussa52/madalali-tz/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "madalali-tz", ExpirationHours: 1}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1}
}

func buildTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := buildTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Asha",
		Email:    "asha@x.tz",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.UserRoleClient {
		t.Fatalf("expected client default role, got %s", resp.User.Role)
	}
	if resp.Token == "" {
		t.Fatalf("expected token")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("token subject mismatch")
	}

	login, err := svc.Login(context.Background(), LoginRequest{Email: "Asha@X.TZ", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Fatalf("expected matching user id")
	}
}

func TestRegisterForcesSafeRole(t *testing.T) {
	svc := buildTestService(t, newStubUserRepo())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Sneaky", Email: "sneaky@x.tz", Password: "secret1", Role: "admin",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != enums.UserRoleClient {
		t.Fatalf("admin self-registration must fall back to client, got %s", resp.User.Role)
	}

	agent, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Agent", Email: "agent@x.tz", Password: "secret1", Role: "agent",
	})
	if err != nil {
		t.Fatalf("register agent: %v", err)
	}
	if agent.User.Role != enums.UserRoleAgent {
		t.Fatalf("expected agent role, got %s", agent.User.Role)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := buildTestService(t, repo)

	if _, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "dup@x.tz", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "B", Email: "DUP@x.tz", Password: "secret2"})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginNeverRevealsWhichFieldFailed(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&models.User{
		ID:           uuid.New(),
		Email:        "known@x.tz",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusActive,
	})
	svc := buildTestService(t, repo)

	for _, req := range []LoginRequest{
		{Email: "missing@x.tz", Password: "whatever"},
		{Email: "known@x.tz", Password: "wrong-password"},
	} {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %s, got %v", req.Email, err)
		}
		if typed.Message() != invalidCredentialsMessage {
			t.Fatalf("expected uniform message, got %q", typed.Message())
		}
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&models.User{
		ID:           uuid.New(),
		Email:        "frozen@x.tz",
		PasswordHash: mustHashPassword(t, "secret1"),
		Role:         enums.UserRoleAgent,
		Status:       enums.UserStatusSuspended,
	})
	svc := buildTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "frozen@x.tz", Password: "secret1"})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for suspended account, got %v", err)
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "change@x.tz",
		PasswordHash: mustHashPassword(t, "old-password"),
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusActive,
	}
	repo.add(user)
	svc := buildTestService(t, repo)
	p := &access.Principal{ID: user.ID, Email: user.Email, Role: user.Role}

	err := svc.ChangePassword(context.Background(), p, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password",
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), p, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "new-password"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateProfileKeepsOwnEmail(t *testing.T) {
	repo := newStubUserRepo()
	user := &models.User{
		ID:     uuid.New(),
		Name:   "Keep",
		Email:  "keep@x.tz",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	repo.add(user)
	svc := buildTestService(t, repo)
	p := &access.Principal{ID: user.ID, Email: user.Email, Role: user.Role}

	email := "keep@x.tz"
	name := "Kept"
	dto, err := svc.UpdateProfile(context.Background(), p, UpdateProfileRequest{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.Name != "Kept" || dto.Email != "keep@x.tz" {
		t.Fatalf("unexpected profile %+v", dto)
	}
}

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubUserRepo) add(u *models.User) {
	s.users[u.ID] = u
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for key, value := range values {
		switch key {
		case "name":
			u.Name = value.(string)
		case "email":
			u.Email = value.(string)
		case "phone":
			phone := value.(string)
			u.Phone = &phone
		case "password_hash":
			u.PasswordHash = value.(string)
		}
	}
	return u, nil
}
