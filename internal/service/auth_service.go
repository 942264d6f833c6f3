package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/util"
)

// AuthService handles registration, login and token validation
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	// ValidateToken resolves a bearer token to an active user's ID
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

// authServiceImpl is the implementation of AuthService
type authServiceImpl struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a user and signs them in. The first user ever registered
// becomes Administrador with every permission; later self-registrations may
// not claim that role.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleService
	}
	if !role.IsValid() {
		return nil, response.NewValidationError("Invalid role", string(role))
	}

	if err := emailFree(ctx, s.userRepo, req.Email); err != nil {
		return nil, err
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, internalError("Failed to count users", err)
	}
	first := count == 0
	if first {
		role = domain.RoleAdmin
	} else if role == domain.RoleAdmin {
		return nil, response.NewForbiddenError("Administrador role can only be granted by an administrator", "")
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("Failed to hash password", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		Permissions:  datatypes.NewJSONType(domain.DefaultPermissions(first)),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, internalError("Failed to create user", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.Bool("first_user", first),
	)
	return s.issue(user)
}

// Login checks credentials and issues a token. Inactive users are refused.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorizedError("Invalid email or password", "")
		}
		return nil, internalError("Failed to load user", err)
	}
	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, response.NewUnauthorizedError("Invalid email or password", "")
	}
	if !user.Active {
		return nil, response.NewForbiddenError("User is inactive", "")
	}
	return s.issue(user)
}

// CurrentUser retrieves the signed-in user
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}
	return user, nil
}

func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	claims, err := util.ParseToken(tokenStr, s.jwtSecret)
	if err != nil {
		return uuid.Nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return uuid.Nil, util.ErrInvalidToken
	}
	if !user.Active {
		return uuid.Nil, util.ErrInvalidToken
	}
	return user.ID, nil
}

func (s *authServiceImpl) issue(user *domain.User) (*dto.AuthResponse, error) {
	token, err := util.GenerateToken(util.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	}, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, internalError("Failed to issue token", err)
	}
	return &dto.AuthResponse{Token: token, TokenType: "bearer", User: user}, nil
}

// emailFree returns ALREADY_EXISTS when the address is registered
func emailFree(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return response.NewAlreadyExistsError("Email already registered", email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return internalError("Failed to check email", err)
	}
}
