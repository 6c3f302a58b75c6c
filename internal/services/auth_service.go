package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

// AuthConfig carries token signing parameters.
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	config    AuthConfig
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, config AuthConfig) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.TokenExpiry == 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		config:    config,
	}
}

// Register creates a user and its role record in one transaction.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, user); err != nil {
			if repositories.IsConstraintViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return s.createRoleRecord(ctx, txRepo, user, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return s.issueToken(user)
}

// createRoleRecord writes the role-specific row for a freshly created user.
// Shared with the composite creation path.
func (s *authService) createRoleRecord(ctx context.Context, txRepo repositories.Repository, user *models.User, req *RegisterRequest) error {
	switch req.Role {
	case models.RoleManager:
		m := &models.Manager{UserID: user.ID, Department: req.Department}
		if err := txRepo.User().CreateManager(ctx, m); err != nil {
			return fmt.Errorf("failed to create manager record: %w", err)
		}
		user.Manager = m

	case models.RoleFacilitator:
		f := &models.Facilitator{
			UserID:         user.ID,
			EmployeeID:     req.EmployeeID,
			Specialization: req.Specialization,
		}
		if err := txRepo.User().CreateFacilitator(ctx, f); err != nil {
			return fmt.Errorf("failed to create facilitator record: %w", err)
		}
		user.Facilitator = f

	case models.RoleStudent:
		// Cohort must exist before the student row references it.
		if _, err := txRepo.Catalog().GetCohort(ctx, *req.CohortID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCohortNotFound
			}
			return fmt.Errorf("failed to check cohort: %w", err)
		}
		st := &models.Student{
			UserID:    user.ID,
			StudentID: *req.StudentID,
			CohortID:  *req.CohortID,
			Status:    models.StudentActive,
		}
		if err := txRepo.User().CreateStudent(ctx, st); err != nil {
			return fmt.Errorf("failed to create student record: %w", err)
		}
		user.Student = st
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.User().Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return s.issueToken(user)
}

// VerifyToken parses and validates a bearer token, then resolves the
// actor behind it so deactivated accounts lose access immediately.
func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return s.ResolveActor(ctx, claims.UserID)
}

func (s *authService) ResolveActor(ctx context.Context, userID uint) (*Actor, error) {
	return resolveActor(ctx, s.repo, userID)
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.config.TokenExpiry)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
