package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// Service authenticates editors and issues session tokens. Tokens are
// stateless JWTs; sign-out is client-side discard.
type Service struct {
	users    UserRepository
	tokens   *jwtauth.JWTAuth
	tokenTTL time.Duration
	logger   *slog.Logger
}

// Option represents a functional option for configuring the auth service
type Option func(*Service)

// WithTokenTTL overrides the session token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.tokenTTL = ttl
	}
}

// WithLogger sets the structured logger for the auth service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates an auth service signing session tokens with the given secret.
func New(users UserRepository, secret []byte, options ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}

	s := &Service{
		users:    users,
		tokens:   jwtauth.New("HS256", secret, nil),
		tokenTTL: defaultTokenTTL,
	}

	for _, option := range options {
		option(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// SignUpResult carries the confirmation code the operator must deliver to
// the new editor out of band.
type SignUpResult struct {
	UserID           uuid.UUID
	ConfirmationCode string
}

// SignUp registers a new unconfirmed account.
func (s *Service) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := confirmationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation code: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     string(hash),
		Confirmed:        false,
		ConfirmationCode: code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "email", email, "id", user.ID)
	return &SignUpResult{UserID: user.ID, ConfirmationCode: code}, nil
}

// ConfirmSignUp completes registration with the delivered code.
func (s *Service) ConfirmSignUp(ctx context.Context, email, code string) error {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.Confirmed {
		return nil
	}
	if code == "" || user.ConfirmationCode != code {
		return ErrInvalidConfirmationCode
	}

	user.Confirmed = true
	user.ConfirmationCode = ""
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user confirmed", "email", user.Email)
	return nil
}

// SignIn verifies credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *Identity, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if !user.Confirmed {
		return "", nil, ErrUserNotConfirmed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrWrongCredentials
	}

	claims := map[string]interface{}{
		"user_id":  user.ID.String(),
		"login_id": user.Email,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, s.tokenTTL)

	_, token, err := s.tokens.Encode(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("user signed in", "email", user.Email)
	return token, &Identity{ID: user.ID, LoginID: user.Email}, nil
}

// CurrentUser resolves the authenticated identity from verified token
// claims in the request context.
func (s *Service) CurrentUser(ctx context.Context) (*Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, ErrNoSession
	}

	idStr, _ := claims["user_id"].(string)
	loginID, _ := claims["login_id"].(string)

	id, err := uuid.Parse(idStr)
	if err != nil || loginID == "" {
		return nil, ErrNoSession
	}

	return &Identity{ID: id, LoginID: loginID}, nil
}

// Verifier returns the middleware that extracts and validates session
// tokens from incoming requests.
func (s *Service) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(s.tokens)
}

// Authenticator returns the middleware that rejects requests without a
// valid verified token.
func (s *Service) Authenticator() func(http.Handler) http.Handler {
	return jwtauth.Authenticator
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func confirmationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
