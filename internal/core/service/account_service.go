package service

import (
	"context"
	"io"
	"time"

	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
)

// AvatarUpload is a picture submitted with a profile update.
type AvatarUpload struct {
	Filename string
	Content  io.Reader
}

type AccountService struct {
	userRepo repository.UserRepository
	avatars  *AvatarService
}

func NewAccountService(userRepo repository.UserRepository, avatars *AvatarService) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		avatars:  avatars,
	}
}

// UpdateProfile applies new username and email and, when picture is set,
// a freshly stored avatar. user is only modified once the store accepted
// the change. The previous avatar file is left in place.
func (s *AccountService) UpdateProfile(ctx context.Context, user *domain.User, username, email string, picture *AvatarUpload) error {
	updated := *user
	updated.Username = username
	updated.Email = email
	updated.UpdatedAt = time.Now().UTC()

	if picture != nil {
		// Check the new names first so a rejected update stores no file. A
		// uniqueness race lost at Update still leaves the stored avatar
		// unreferenced, like any replaced avatar.
		if err := s.checkAvailable(ctx, user, username, email); err != nil {
			return err
		}

		name, err := s.avatars.Store(ctx, picture.Filename, picture.Content)
		if err != nil {
			return err
		}
		updated.ImageFile = name
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return err
	}

	*user = updated
	return nil
}

func (s *AccountService) checkAvailable(ctx context.Context, user *domain.User, username, email string) error {
	if username != user.Username {
		taken, err := s.IsUsernameTaken(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}
	}
	if email != user.Email {
		taken, err := s.IsEmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
	}
	return nil
}

// IsUsernameTaken reports whether another account already uses username.
func (s *AccountService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(s.userRepo.FindByUsername(ctx, username))
}

// IsEmailTaken reports whether another account already uses email.
func (s *AccountService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(s.userRepo.FindByEmail(ctx, email))
}
