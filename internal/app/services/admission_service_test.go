package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

func TestAdmissionSubmitAndGet(t *testing.T) {
	svc := NewAdmissionService(newFakeAdmissionRepo(), zerolog.Nop())
	ctx := context.Background()

	identity := models.Identity{ID: 7, Name: "A", Email: "a@x.com"}

	form, err := svc.Submit(ctx, identity, "CS", "1 Main St", "555-0100")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, form.UserID)
	assert.Equal(t, identity.Name, form.Name, "identity name snapshotted")
	assert.Equal(t, identity.Email, form.Email, "identity email snapshotted")
	assert.False(t, form.SubmittedAt.IsZero())

	got, err := svc.GetByUserID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, form.ID, got.ID)
	assert.Equal(t, "CS", got.Course)
}

func TestAdmissionSubmitOnlyOnce(t *testing.T) {
	svc := NewAdmissionService(newFakeAdmissionRepo(), zerolog.Nop())
	ctx := context.Background()

	identity := models.Identity{ID: 7, Name: "A", Email: "a@x.com"}

	_, err := svc.Submit(ctx, identity, "CS", "1 Main St", "555-0100")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, identity, "Math", "2 Main St", "555-0200")
	assert.ErrorIs(t, err, apperrors.ErrAdmissionExists)

	// The original record is untouched
	got, err := svc.GetByUserID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS", got.Course)
}

func TestAdmissionGetAbsent(t *testing.T) {
	svc := NewAdmissionService(newFakeAdmissionRepo(), zerolog.Nop())

	_, err := svc.GetByUserID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrAdmissionNotFound)
}
