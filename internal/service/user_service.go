package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/util"
)

// UserService defines the interface for user administration
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	// HasPermission reports whether an active user holds the permission key
	HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error)
}

// userServiceImpl is the implementation of UserService
type userServiceImpl struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch users", err)
	}
	return users, nil
}

// CreateUser adds a user on behalf of an administrator. Without explicit
// permissions the role defaults apply.
func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error) {
	if !req.Role.IsValid() {
		return nil, response.NewValidationError("Invalid role", string(req.Role))
	}
	if err := emailFree(ctx, s.userRepo, req.Email); err != nil {
		return nil, err
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("Failed to hash password", err)
	}

	perms := domain.DefaultPermissions(req.Role == domain.RoleAdmin)
	for k, v := range req.Permissions {
		perms[k] = v
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
		Permissions:  datatypes.NewJSONType(perms),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, internalError("Failed to create user", err)
	}

	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, response.NewValidationError("Invalid role", string(*req.Role))
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hash, err := util.HashPassword(*req.Password)
		if err != nil {
			return nil, internalError("Failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	if req.Permissions != nil {
		perms := domain.Permissions{}
		for k, v := range user.Permissions.Data() {
			perms[k] = v
		}
		for k, v := range req.Permissions {
			perms[k] = v
		}
		user.Permissions = datatypes.NewJSONType(perms)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("Failed to update user", err)
	}
	return user, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return lookupError(err, "User")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return internalError("Failed to delete user", err)
	}
	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

func (s *userServiceImpl) HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, lookupError(err, "User")
	}
	return user.HasPermission(key), nil
}
