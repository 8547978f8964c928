package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"typist/internal/cache"
	"typist/internal/model"
	"typist/internal/pkg/jwtutil"
	"typist/internal/repository"
)

const MinPasswordLength = 8

// Authenticatable is what the login flow needs from an account.
type Authenticatable interface {
	AuthID() uint
	PasswordDigest() string
	CanAdminister() bool
}

var _ Authenticatable = (*model.User)(nil)

type SessionStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Get(ctx context.Context, id string) (uint, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}

type AuthService struct {
	userRepo  *repository.UserRepository
	sessions  SessionStore
	secretKey string
	log       logrus.FieldLogger
	verify    func(plaintext, hash string) bool
}

type RegisterInput struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
	ImgURL    string
	IsAdmin   bool
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *model.User
}

func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, secretKey string, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		secretKey: secretKey,
		log:       log,
		verify:    VerifyPassword,
	}
}

var (
	placeholderOnce sync.Once
	placeholderHash string
)

// placeholderDigest is compared against when the account does not exist, so
// unknown emails cost the same bcrypt work as wrong passwords.
func placeholderDigest() string {
	placeholderOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("typist-placeholder-password"), bcrypt.DefaultCost)
		if err == nil {
			placeholderHash = string(hash)
		}
	})
	return placeholderHash
}

type unknownAccount struct{}

func (unknownAccount) AuthID() uint           { return 0 }
func (unknownAccount) PasswordDigest() string { return placeholderDigest() }
func (unknownAccount) CanAdminister() bool    { return false }

// HashPassword derives a salted bcrypt digest; the plaintext is never stored.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}

func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := NormalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserName:     strings.TrimSpace(input.UserName),
		Email:        email,
		PasswordHash: hash,
		ImgURL:       strings.TrimSpace(input.ImgURL),
		IsAdmin:      input.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "admin": user.IsAdmin}).Info("user registered")
	return user, nil
}

// Login checks the credentials and opens a session. Unknown accounts and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.authenticate(unknownAccount{}, input.Password)
		s.log.WithField("email", email).Warn("login for unknown account")
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}

	if !s.authenticate(user, input.Password) {
		s.log.WithField("user_id", user.ID).Warn("login with wrong password")
		return nil, ErrInvalidCredential
	}

	sessionID, err := s.sessions.Create(ctx, user.AuthID())
	if err != nil {
		return nil, err
	}
	ttl := s.sessions.TTL()
	token, err := jwtutil.GenerateToken(s.secretKey, ttl, sessionID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return &LoginResult{Token: token, ExpiresIn: ttl, User: user}, nil
}

func (s *AuthService) authenticate(account Authenticatable, password string) bool {
	return s.verify(password, account.PasswordDigest())
}

// CurrentUser resolves a session token to its user. It returns (nil, nil)
// when the token does not identify a live session.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	sessionID, err := jwtutil.ParseToken(s.secretKey, token)
	if err != nil {
		return nil, nil
	}
	userID, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout invalidates the session behind token. Unknown or malformed tokens
// are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, err := jwtutil.ParseToken(s.secretKey, token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
}
