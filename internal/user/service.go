// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/pollhub/internal/auth"
	"github.com/carterperez-dev/pollhub/internal/core"
)

const minimumAgeYears = 13

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial profile update. Length limits are
// enforced by the DTO validator; the birthday rules (past date, at
// least 13 years old) live here because they need a clock.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if len(trimmed) < 2 || len(trimmed) > 50 {
			return nil, fmt.Errorf(
				"update profile: name must be between 2 and 50 characters: %w",
				core.ErrInvalidInput,
			)
		}
		user.Name = trimmed
	}

	if req.Bio != nil {
		user.Bio = normalizeOptional(*req.Bio)
	}
	if req.Location != nil {
		user.Location = normalizeOptional(*req.Location)
	}
	if req.Website != nil {
		user.Website = normalizeOptional(*req.Website)
	}

	if req.Birthday != nil {
		birthday, parseErr := time.Parse("2006-01-02", *req.Birthday)
		if parseErr != nil {
			return nil, fmt.Errorf(
				"update profile: invalid birthday: %w",
				core.ErrInvalidInput,
			)
		}

		if err := validateBirthday(birthday, time.Now()); err != nil {
			return nil, err
		}

		user.Birthday = &birthday
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func validateBirthday(birthday, now time.Time) error {
	if birthday.After(now) {
		return fmt.Errorf(
			"update profile: birthday cannot be in the future: %w",
			core.ErrInvalidInput,
		)
	}

	if birthday.AddDate(minimumAgeYears, 0, 0).After(now) {
		return fmt.Errorf(
			"update profile: must be at least %d years old: %w",
			minimumAgeYears,
			core.ErrInvalidInput,
		)
	}

	return nil
}

// Promote sets role to admin. Promoting an admin is a no-op; there is
// no demotion counterpart.
func (s *Service) Promote(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.IsAdmin() {
		return u, nil
	}

	if err := s.repo.UpdateRole(ctx, userID, RoleAdmin); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func normalizeOptional(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
