package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"typist/internal/model"
	"typist/internal/repository"
)

// UserAdminService backs the admin console's user pages.
type UserAdminService struct {
	auth     *AuthService
	userRepo *repository.UserRepository
	log      logrus.FieldLogger
}

// UserUpdate leaves a field untouched when it is nil.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	UserName  *string
	Email     *string
	Password  *string
	ImgURL    *string
	IsAdmin   *bool
}

func NewUserAdminService(auth *AuthService, userRepo *repository.UserRepository, log logrus.FieldLogger) *UserAdminService {
	return &UserAdminService{auth: auth, userRepo: userRepo, log: log}
}

func (s *UserAdminService) List(ctx context.Context, page repository.Page) ([]model.User, error) {
	return s.userRepo.List(ctx, page)
}

func (s *UserAdminService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserAdminService) Create(ctx context.Context, input RegisterInput) (*model.User, error) {
	return s.auth.Register(ctx, input)
}

func (s *UserAdminService) Update(ctx context.Context, id uint, upd UserUpdate) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := NormalizeEmail(*upd.Email)
		if _, err := mail.ParseAddress(email); err != nil || email == "" {
			return nil, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		user.Email = email
	}
	if upd.Password != nil {
		if len(*upd.Password) < MinPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
		}
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if upd.FirstName != nil {
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.UserName != nil {
		user.UserName = strings.TrimSpace(*upd.UserName)
		if user.UserName == "" {
			user.UserName = model.DefaultUserName
		}
	}
	if upd.ImgURL != nil {
		user.ImgURL = strings.TrimSpace(*upd.ImgURL)
		if user.ImgURL == "" {
			user.ImgURL = model.DefaultImgURL
		}
	}
	if upd.IsAdmin != nil {
		user.IsAdmin = *upd.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user updated")
	return user, nil
}

func (s *UserAdminService) Delete(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}
