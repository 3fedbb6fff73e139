package service

import (
	"context"
	"strings"
	"time"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
	"github.com/uzima/reimbursement/pkg/auth"
	"github.com/uzima/reimbursement/pkg/utils"
)

// RegisterInput carries a new account registration.
type RegisterInput struct {
	FullName     string
	Email        string
	Password     string
	EmployeeID   string
	DepartmentID *int64
}

// AuthResult is returned on successful login, registration or refresh.
type AuthResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *entity.User `json:"user"`
}

// AuthService handles registration, login and token refresh. New accounts
// always start as Employee; role changes are an admin operation.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

type authServiceImpl struct {
	userRepo   port.UserRepository
	jwtManager *auth.JWTManager
	logger     Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo port.UserRepository, jwtManager *auth.JWTManager, logger Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a new Employee account.
func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperror.Validation("full name is required")
	}
	if err := utils.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Validation("invalid email address")
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Validation("%v", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("an account with this email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.System("hash password", err)
	}

	user := &entity.User{
		EmployeeID:   in.EmployeeID,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        in.Email,
		Password:     hash,
		DepartmentID: in.DepartmentID,
		Role:         entity.RoleEmployee,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "id", user.ID, "email", user.Email)
	return s.issueTokens(user)
}

// Login verifies credentials and issues tokens. Inactive accounts are
// rejected with the same generic error as bad credentials.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !auth.CheckPasswordHash(password, user.Password) {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := s.userRepo.SetLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.logger.Error("Failed to record last login", "error", err, "user_id", user.ID)
	}

	s.logger.Info("User logged in", "id", user.ID, "role", user.Role.String())
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	return s.issueTokens(user)
}

func (s *authServiceImpl) issueTokens(user *entity.User) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Role.String(), user.DepartmentID)
	if err != nil {
		return nil, apperror.System("issue access token", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.System("issue refresh token", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.TokenDuration().Seconds()),
		User:         user,
	}, nil
}
