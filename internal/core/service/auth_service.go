package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost = 10
	issuer     = "inkwell"
)

var ErrSessionRevoked = errors.New("session revoked")

type AuthService struct {
	userRepo    repository.UserRepository
	revocations repository.RevocationStore
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewAuthService wires the credential store and the session signing key.
// revocations may be nil, in which case logout only clears the cookie.
func NewAuthService(
	userRepo repository.UserRepository,
	revocations repository.RevocationStore,
	secret string,
	sessionTTL time.Duration,
	rememberTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revocations: revocations,
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}
}

// HashPassword hashes a password using bcrypt. Passwords of any length are
// accepted; see bcryptInput.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	return err == nil
}

// bcryptInput condenses password to a fixed 44 byte SHA-256 digest so bcrypt
// never sees more than its 72 byte limit and long passwords are not
// silently truncated.
func bcryptInput(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Register stores a new account with a hashed password. Uniqueness races
// surface as domain.ErrUsernameTaken or domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, email, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password both return domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.VerifyPassword(password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// UpdatePassword replaces the password of the account registered with email.
func (s *AuthService) UpdatePassword(ctx context.Context, email, password string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user.Password = hash
	user.UpdatedAt = time.Now().UTC()
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// IssueToken signs a session token for user. A remembered session lives for
// the remember TTL, otherwise for the session TTL.
func (s *AuthService) IssueToken(user *domain.User, remember bool) (string, *SessionClaims, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}

	now := time.Now()
	claims := &SessionClaims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims, nil
}

// ValidateToken verifies signature, expiry and revocation of a session token.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return nil, ErrSessionRevoked
		}
	}

	return claims, nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *SessionClaims) error {
	if s.revocations == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// CurrentUser resolves the account a validated token belongs to.
func (s *AuthService) CurrentUser(ctx context.Context, claims *SessionClaims) (*domain.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

// SessionClaims represents the session JWT claims
type SessionClaims struct {
	Remember bool `json:"remember"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return id, nil
}
