package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-timesheet/internal/auth/errors"
	"go-timesheet/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo   Repository
	rbac   rbac.Service
	secret []byte
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, rbacService rbac.Service, jwtSecret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:   repo,
		rbac:   rbacService,
		secret: []byte(jwtSecret),
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login unknown email")
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("login wrong password", zap.String("user_id", user.ID.String()))
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenResponse{}, autherrors.ErrUserInactive
	}

	resp, err := s.issue(user)
	if err != nil {
		return TokenResponse{}, err
	}
	s.logger.Info("login success", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["token_type"].(string); typ != tokenTypeRefresh {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return TokenResponse{}, autherrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return TokenResponse{}, autherrors.ErrUserInactive
	}
	return s.issue(user)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := s.toResponse(u)
	return &resp, nil
}

// Register creates an account in the caller's company.
func (s *service) Register(ctx context.Context, companyID string, req RegisterRequest) (AuthResponse, error) {
	cID, err := uuid.Parse(companyID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}
	eID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidEmployeeID
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = rbac.RoleEmployee
	}
	if !rbac.ValidRole(role) {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := &User{
		ID:           uuid.New(),
		CompanyID:    cID,
		EmployeeID:   eID,
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     string(hashed),
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, autherrors.ErrEmailAlreadyRegistered) {
			s.logger.Error("register user failed", zap.Error(err))
		}
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", companyID),
		zap.String("role", role),
	)
	return s.toResponse(user), nil
}

func (s *service) issue(user *User) (TokenResponse, error) {
	access, err := s.generateToken(user, tokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(user, tokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return TokenResponse{User: s.toResponse(user), AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) toResponse(u *User) AuthResponse {
	resp := AuthResponse{
		ID:           u.ID.String(),
		CompanyID:    u.CompanyID.String(),
		EmployeeID:   u.EmployeeID.String(),
		EmployeeName: u.EmployeeName,
		Email:        u.Email,
		Role:         u.Role,
	}
	if s.rbac != nil {
		perms, err := s.rbac.Permissions(u.Role)
		if err != nil {
			s.logger.Warn("load permissions failed", zap.String("role", u.Role), zap.Error(err))
		}
		resp.Permissions = perms
	}
	return resp
}

func (s *service) generateToken(u *User, tokenType string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       u.ID.String(),
		"employee_id":   u.EmployeeID.String(),
		"employee_name": u.EmployeeName,
		"company_id":    u.CompanyID.String(),
		"role":          u.Role,
		"token_type":    tokenType,
		"exp":           s.now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
