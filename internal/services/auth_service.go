package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/utils"
)

// TokenTTL matches the lifetime of panel-issued tokens. Tokens are
// stateless: no refresh, no revocation list.
const TokenTTL = 30 * 24 * time.Hour

// AuthClaims is the token payload the access gate verifies: the user id and
// the app-level role.
type AuthClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	users  mysqlrepo.UserRepository
	secret []byte
	log    *logrus.Logger
}

func NewAuthService(users mysqlrepo.UserRepository, secret string, log *logrus.Logger) AuthService {
	return &authService{users: users, secret: []byte(secret), log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	const op = "AuthService.Login"

	if email == "" || password == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", err)
		}
		return "", nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", err)
	}

	now := time.Now().UTC()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: u.ID,
		Role:   string(u.Role),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}

	if err := s.users.TouchLastSignIn(ctx, u.ID, now); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("failed to record last sign-in")
	}
	u.LastSignInAt = &now

	return token, u, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist
// yet. A blank email disables bootstrapping.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	const op = "AuthService.EnsureAdmin"

	if email == "" {
		return nil
	}
	if password == "" {
		return utils.E(utils.CodeInvalidArgument, op, "bootstrap admin password is required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to check admin account", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to hash admin password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create admin account", err)
	}
	s.log.WithField("email", email).Info("bootstrap admin account created")
	return nil
}
