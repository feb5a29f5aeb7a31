// Package profile backs the profile screen: the current user comes from the
// session claims, not from a fetch, and password changes are validated
// locally before the backend is asked to do anything.
package profile

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"classtrack/internal/auth"
	"classtrack/internal/model"
	"classtrack/internal/notify"
	"classtrack/internal/query"
)

// PasswordChanger is the external change-password action. The users API
// satisfies it.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, id, current, next string) error
}

// Validation failures reported before any backend call is made.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Draft holds the locally editable profile fields.
type Draft struct {
	Name       string `validate:"required"`
	Department string
	Phone      string `validate:"omitempty,e164|numeric"`
}

// Stats is the teaching summary shown on a lecturer's profile.
type Stats struct {
	Courses        int
	SessionsToday  int
	CheckinsToday  int
	AttendanceRate float64
}

// Service drives the profile screen for one signed-in user.
type Service struct {
	user      model.User
	passwords PasswordChanger
	data      *query.Service
	notifier  notify.Notifier
	validate  *validator.Validate

	editing bool
	draft   Draft
}

// NewService builds the profile service from the session's user record.
func NewService(claims auth.Claims, passwords PasswordChanger, data *query.Service, notifier notify.Notifier) *Service {
	return &Service{
		user: model.User{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		},
		passwords: passwords,
		data:      data,
		notifier:  notifier,
		validate:  validator.New(),
	}
}

// User returns the session's user record.
func (s *Service) User() model.User { return s.user }

// Editing reports whether edit mode is active.
func (s *Service) Editing() bool { return s.editing }

// BeginEdit copies the current profile fields into the draft and enables
// the form.
func (s *Service) BeginEdit() {
	s.draft = Draft{Name: s.user.Name}
	if s.user.Department != nil {
		s.draft.Department = *s.user.Department
	}
	if s.user.Phone != nil {
		s.draft.Phone = *s.user.Phone
	}
	s.editing = true
}

// Draft returns the editable copy.
func (s *Service) Draft() *Draft { return &s.draft }

// Save validates the draft and leaves edit mode. Persistence is not wired
// to this action; the draft is discarded.
// TODO: call UpdateUser once the product decides what Save should persist.
func (s *Service) Save() error {
	if !s.editing {
		return errors.New("not editing")
	}
	if err := s.validate.Struct(s.draft); err != nil {
		s.notifier.Notify(notify.Notification{
			Title:       "Invalid profile",
			Description: err.Error(),
			Variant:     notify.VariantDestructive,
		})
		return err
	}
	s.editing = false
	s.notifier.Notify(notify.Notification{
		Title:       "Changes not saved",
		Description: "Profile editing is not wired to the backend yet.",
		Variant:     notify.VariantDefault,
	})
	return nil
}

// CancelEdit discards the draft.
func (s *Service) CancelEdit() { s.editing = false }

// ChangePassword checks the new password locally and, only when both checks
// pass, invokes the external change-password action. Each local failure
// emits exactly one notification and never reaches the backend.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		s.notifier.Notify(notify.Notification{
			Title:       "Password change failed",
			Description: ErrPasswordMismatch.Error(),
			Variant:     notify.VariantDestructive,
		})
		return ErrPasswordMismatch
	}
	if len(next) < 6 {
		s.notifier.Notify(notify.Notification{
			Title:       "Password change failed",
			Description: ErrPasswordTooShort.Error(),
			Variant:     notify.VariantDestructive,
		})
		return ErrPasswordTooShort
	}

	if err := s.passwords.ChangePassword(ctx, s.user.ID, current, next); err != nil {
		s.notifier.Notify(notify.Notification{
			Title:       "Password change failed",
			Description: err.Error(),
			Variant:     notify.VariantDestructive,
		})
		return err
	}
	s.notifier.Notify(notify.Notification{
		Title:   "Password changed",
		Variant: notify.VariantSuccess,
	})
	return nil
}

// TeachingStats assembles the profile summary from the cached data layer.
func (s *Service) TeachingStats(ctx context.Context) (Stats, error) {
	summary, err := s.data.DashboardSummary(ctx, s.user.ID)
	if err != nil {
		return Stats{}, err
	}
	courses, err := s.data.CoursesByInstructor(ctx, s.user.ID)
	if err != nil && !errors.Is(err, query.ErrNotReady) {
		return Stats{}, err
	}
	return Stats{
		Courses:        len(courses),
		SessionsToday:  summary.SessionsToday,
		CheckinsToday:  summary.CheckinsToday,
		AttendanceRate: summary.AttendanceRate,
	}, nil
}
