package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/database"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/utils"
	"github.com/parkeasy/parkeasy-backend/pkg/jwt"
	"github.com/parkeasy/parkeasy-backend/pkg/validator"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Auth error codes
const (
	AuthUserNotFound        = "user-not-found"
	AuthWrongPassword       = "wrong-password"
	AuthInvalidCredential   = "invalid-credential"
	AuthEmailInUse          = "email-already-in-use"
	AuthWeakPassword        = "weak-password"
	AuthInvalidEmail        = "invalid-email"
	AuthUserDisabled        = "user-disabled"
	AuthTooManyRequests     = "too-many-requests"
	AuthNetworkFailed       = "network-request-failed"
	AuthOperationNotAllowed = "operation-not-allowed"
	AuthInvalidToken        = "invalid-token"
)

// AuthMessage maps an auth error code to the message shown to the user
func AuthMessage(code string) string {
	switch code {
	case AuthUserNotFound, AuthWrongPassword, AuthInvalidCredential:
		return "Incorrect email or password. Please try again."
	case AuthEmailInUse:
		return "An account with this email already exists. Please sign in instead."
	case AuthWeakPassword:
		return "Password is too weak. Use at least 6 characters."
	case AuthInvalidEmail:
		return "Please enter a valid email address."
	case AuthUserDisabled:
		return "This account has been disabled. Please contact support."
	case AuthTooManyRequests:
		return "Too many attempts. Please wait a few minutes and try again."
	case AuthNetworkFailed:
		return "Network error. Please check your connection and try again."
	case AuthOperationNotAllowed:
		return "Email/password sign-in is not enabled. Please contact support."
	case AuthInvalidToken:
		return "Your session has expired. Please sign in again."
	default:
		return "Something went wrong. Please try again."
	}
}

// AuthError is a sign-in failure with a user-facing code
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message for the error
func (e *AuthError) Message() string {
	return AuthMessage(e.Code)
}

// AccountStore is the account storage used by AuthService
type AccountStore interface {
	CreateAccount(email, passwordHash, displayName string) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByID(id uuid.UUID) (*models.Account, error)
	UpdateLastLogin(id uuid.UUID) error
}

// TokenStore is the refresh token storage used by AuthService
type TokenStore interface {
	Issue(accountID uuid.UUID, token string, device models.TokenDevice, expiresAt time.Time) error
	Rotate(current, next string, device models.TokenDevice, expiresAt time.Time) (uuid.UUID, error)
	Revoke(token string) error
	RevokeAccount(accountID uuid.UUID) (int64, error)
}

// LoginLimiter tracks failed sign-in attempts
type LoginLimiter interface {
	CheckLoginRateLimit(email, ip string) error
	RecordFailedLogin(email, ip string) error
	ClearEmailAttempts(email string) error
}

// ClientMeta describes the device making an auth request
type ClientMeta struct {
	IP        string
	UserAgent string
}

// AuthResult is returned on successful sign-in
type AuthResult struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	TokenType    string             `json:"token_type"`
	ExpiresIn    int                `json:"expires_in"`
	User         models.SessionUser `json:"user"`
}

// AuthService handles sign-up, sign-in, guest entry and token rotation
type AuthService struct {
	accounts   AccountStore
	tokens     TokenStore
	limiter    LoginLimiter
	jwt        *jwt.Service
	validator  *validator.CredentialsValidator
	bridge     *PersistenceBridge
	sessions   *SessionService
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	accounts AccountStore,
	tokens TokenStore,
	limiter LoginLimiter,
	jwtService *jwt.Service,
	bridge *PersistenceBridge,
	sessions *SessionService,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		accounts:   accounts,
		tokens:     tokens,
		limiter:    limiter,
		jwt:        jwtService,
		validator:  validator.NewCredentialsValidator(),
		bridge:     bridge,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup creates an account and its user document, then signs in
func (s *AuthService) Signup(ctx context.Context, email, password, name string, meta ClientMeta) (*AuthResult, error) {
	email, err := s.validator.ValidateSignup(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accounts.CreateAccount(email, string(hash), s.validator.DisplayName(name, email))
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, &AuthError{Code: AuthEmailInUse, Err: err}
		}
		return nil, err
	}

	user := sessionUserOf(account)
	// The account exists; a missing document is recreated on the first write.
	_ = s.bridge.CreateDocument(ctx, user)

	s.logger.WithFields(logrus.Fields{
		"user_id": account.ID,
		"ip":      meta.IP,
	}).Info("Account created")

	return s.signIn(ctx, user, meta)
}

// Login verifies credentials and signs in
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	email, err := s.validator.ValidateLogin(email, password)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.CheckLoginRateLimit(email, meta.IP); err != nil {
		var rle *RateLimitError
		if errors.As(err, &rle) {
			return nil, &AuthError{Code: AuthTooManyRequests, Err: err}
		}
		return nil, err
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.recordFailure(email, meta.IP)
		return nil, &AuthError{Code: AuthInvalidCredential}
	}
	if account.Disabled {
		return nil, &AuthError{Code: AuthUserDisabled}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(email, meta.IP)
		return nil, &AuthError{Code: AuthInvalidCredential}
	}

	if err := s.limiter.ClearEmailAttempts(email); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to clear login attempts")
	}
	if err := s.accounts.UpdateLastLogin(account.ID); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to update last login")
	}

	return s.signIn(ctx, sessionUserOf(account), meta)
}

// Guest starts a guest session. Guests get no refresh token.
func (s *AuthService) Guest(ctx context.Context) (*AuthResult, error) {
	user := models.GuestUser(uuid.New())

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Name, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	if _, err := s.sessions.Begin(ctx, user); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.AccessTokenExpiry().Seconds()),
		User:        user,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token can be
// exchanged once; replaying a spent token fails with invalid-token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, &AuthError{Code: AuthInvalidToken, Err: err}
	}

	account, err := s.accounts.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &AuthError{Code: AuthUserNotFound}
	}
	if account.Disabled {
		return nil, &AuthError{Code: AuthUserDisabled}
	}

	user := sessionUserOf(account)
	next, expiresAt, err := s.newRefreshToken(user)
	if err != nil {
		return nil, err
	}

	owner, err := s.tokens.Rotate(refreshToken, next, deviceOf(meta), expiresAt)
	if err != nil {
		if errors.Is(err, database.ErrRefreshTokenSpent) {
			s.logger.WithFields(logrus.Fields{
				"user_id": account.ID,
				"ip":      meta.IP,
			}).Warn("Refresh with spent token")
			return nil, &AuthError{Code: AuthInvalidToken, Err: err}
		}
		return nil, err
	}
	if owner != account.ID {
		return nil, &AuthError{Code: AuthInvalidToken}
	}

	return s.openSession(ctx, user, next)
}

// Logout revokes the given refresh token, or every token of the user when all
// is set, and drops the session. Guests hold no refresh tokens.
func (s *AuthService) Logout(ctx context.Context, user models.SessionUser, refreshToken string, all bool) error {
	if !user.IsGuest() {
		switch {
		case all:
			n, err := s.tokens.RevokeAccount(user.ID)
			if err != nil {
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"user_id": user.ID,
				"revoked": n,
			}).Info("Signed out of all devices")
		case refreshToken != "":
			if err := s.tokens.Revoke(refreshToken); err != nil {
				s.logger.WithFields(logrus.Fields{
					"user_id": user.ID,
					"error":   err.Error(),
				}).Warn("Failed to revoke refresh token on logout")
			}
		}
	}
	s.sessions.End(user.ID)
	return nil
}

func deviceOf(meta ClientMeta) models.TokenDevice {
	return models.TokenDevice{
		Type:      utils.ParseUserAgent(meta.UserAgent).DeviceType,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
}

func (s *AuthService) newRefreshToken(user models.SessionUser) (string, time.Time, error) {
	token, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return token, time.Now().Add(s.jwt.RefreshTokenExpiry()), nil
}

// signIn issues a fresh refresh token for an account and opens its session
func (s *AuthService) signIn(ctx context.Context, user models.SessionUser, meta ClientMeta) (*AuthResult, error) {
	refreshToken, expiresAt, err := s.newRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Issue(user.ID, refreshToken, deviceOf(meta), expiresAt); err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, refreshToken)
}

func (s *AuthService) openSession(ctx context.Context, user models.SessionUser, refreshToken string) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Name, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	if _, err := s.sessions.Begin(ctx, user); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwt.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}

func (s *AuthService) recordFailure(email, ip string) {
	if err := s.limiter.RecordFailedLogin(email, ip); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to record failed login")
	}
}

func sessionUserOf(a *models.Account) models.SessionUser {
	return models.SessionUser{ID: a.ID, Name: a.DisplayName, Email: a.Email}
}
