package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/internal/access"
	"github.com/mussa52/madalali-tz/pkg/config"
	dbpkg "github.com/mussa52/madalali-tz/pkg/db"
	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
	"github.com/mussa52/madalali-tz/pkg/security"
)

const emailTakenMessage = "Email already registered"

// CreateRequest is the admin payload for provisioning an account of any role.
type CreateRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role" validate:"required"`
	Status   string  `json:"status,omitempty"`
}

// UpdateRequest carries a partial account update. Nil fields stay untouched.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Service defines the admin-facing account administration behavior.
type Service interface {
	Create(ctx context.Context, p *access.Principal, req CreateRequest) (*UserDTO, error)
	List(ctx context.Context, p *access.Principal, filter ListFilter) ([]UserDTO, error)
	Get(ctx context.Context, p *access.Principal, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, p *access.Principal, id uuid.UUID, req UpdateRequest) (*UserDTO, error)
	Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error
	Statistics(ctx context.Context, p *access.Principal) (*Statistics, error)
}

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filter ListFilter) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) ([]RoleCount, error)
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build the users service.
type ServiceParams struct {
	Repo           userRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs a user administration service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: params.Repo, passwordCfg: params.PasswordConfig}, nil
}

func (s *service) Create(ctx context.Context, p *access.Principal, req CreateRequest) (*UserDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}

	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	status := enums.UserStatusActive
	if req.Status != "" {
		status, err = enums.ParseUserStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, p *access.Principal, filter ListFilter) ([]UserDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(list), nil
}

func (s *service) Get(ctx context.Context, p *access.Principal, id uuid.UUID) (*UserDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, p *access.Principal, id uuid.UUID, req UpdateRequest) (*UserDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Phone != nil {
		values["phone"] = *req.Phone
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := s.ensureEmailAvailable(ctx, email, id); err != nil {
			return nil, err
		}
		values["email"] = email
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		values["password_hash"] = hash
	}
	if req.Role != nil {
		role, err := enums.ParseUserRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		values["role"] = role
	}
	if req.Status != nil {
		status, err := enums.ParseUserStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		values["status"] = status
	}

	user, err := s.repo.Update(ctx, id, values)
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return err
	}
	if p.ID == id {
		return pkgerrors.New(pkgerrors.CodeDomainRule, "you cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) Statistics(ctx context.Context, p *access.Principal) (*Statistics, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	stats := &Statistics{ByRole: counts}
	for _, row := range counts {
		stats.Total += row.Count
	}
	return stats, nil
}

// ensureEmailAvailable rejects an email already registered to another account.
func (s *service) ensureEmailAvailable(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
