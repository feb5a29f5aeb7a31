package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/auth"
	"classtrack/internal/notify"
)

type fakeChanger struct {
	calls   int
	id      string
	current string
	next    string
	err     error
}

func (f *fakeChanger) ChangePassword(_ context.Context, id, current, next string) error {
	f.calls++
	f.id, f.current, f.next = id, current, next
	return f.err
}

func testClaims() auth.Claims {
	return auth.Claims{
		Subject: "u1",
		Email:   "ada@uni.edu",
		Name:    "Ada",
		Role:    "lecturer",
	}
}

func TestChangePasswordMismatch(t *testing.T) {
	changer := &fakeChanger{}
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), changer, nil, rec)

	err := svc.ChangePassword(context.Background(), "old-pass", "abcdef", "ghijkl")
	require.ErrorIs(t, err, ErrPasswordMismatch)

	assert.Equal(t, 0, changer.calls)
	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, notify.VariantDestructive, got[0].Variant)
	assert.Contains(t, got[0].Description, "do not match")
}

func TestChangePasswordTooShort(t *testing.T) {
	changer := &fakeChanger{}
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), changer, nil, rec)

	// Matching pair, but below the minimum length. The mismatch check runs
	// first, so this must fall through to the length check.
	err := svc.ChangePassword(context.Background(), "old-pass", "abc12", "abc12")
	require.ErrorIs(t, err, ErrPasswordTooShort)

	assert.Equal(t, 0, changer.calls)
	require.Len(t, rec.All(), 1)
}

func TestChangePasswordSuccess(t *testing.T) {
	changer := &fakeChanger{}
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), changer, nil, rec)

	require.NoError(t, svc.ChangePassword(context.Background(), "old-pass", "abcdef", "abcdef"))

	assert.Equal(t, 1, changer.calls)
	assert.Equal(t, "u1", changer.id)
	assert.Equal(t, "old-pass", changer.current)
	assert.Equal(t, "abcdef", changer.next)

	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, notify.VariantSuccess, got[0].Variant)
}

func TestChangePasswordBackendFailure(t *testing.T) {
	changer := &fakeChanger{err: errors.New("current password incorrect")}
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), changer, nil, rec)

	err := svc.ChangePassword(context.Background(), "wrong", "abcdef", "abcdef")
	require.Error(t, err)

	assert.Equal(t, 1, changer.calls)
	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, notify.VariantDestructive, got[0].Variant)
}

func TestBeginEditCopiesUser(t *testing.T) {
	svc := NewService(testClaims(), &fakeChanger{}, nil, &notify.Recorder{})

	assert.False(t, svc.Editing())
	svc.BeginEdit()
	assert.True(t, svc.Editing())
	assert.Equal(t, "Ada", svc.Draft().Name)

	// Edits to the draft do not touch the session record.
	svc.Draft().Name = "Someone Else"
	assert.Equal(t, "Ada", svc.User().Name)
}

func TestSaveDoesNotPersist(t *testing.T) {
	changer := &fakeChanger{}
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), changer, nil, rec)

	svc.BeginEdit()
	svc.Draft().Department = "Computer Science"
	require.NoError(t, svc.Save())

	assert.False(t, svc.Editing())
	assert.Equal(t, 0, changer.calls)
	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, "Changes not saved", got[0].Title)
}

func TestSaveRejectsEmptyName(t *testing.T) {
	rec := &notify.Recorder{}
	svc := NewService(testClaims(), &fakeChanger{}, nil, rec)

	svc.BeginEdit()
	svc.Draft().Name = ""
	require.Error(t, svc.Save())

	// Still editing; the one notification is the validation failure.
	assert.True(t, svc.Editing())
	got := rec.All()
	require.Len(t, got, 1)
	assert.Equal(t, notify.VariantDestructive, got[0].Variant)
}

func TestSaveOutsideEditMode(t *testing.T) {
	svc := NewService(testClaims(), &fakeChanger{}, nil, &notify.Recorder{})
	assert.Error(t, svc.Save())
}

func TestCancelEditDiscards(t *testing.T) {
	svc := NewService(testClaims(), &fakeChanger{}, nil, &notify.Recorder{})
	svc.BeginEdit()
	svc.CancelEdit()
	assert.False(t, svc.Editing())
}
