package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// IAdmissionRepository defines the interface for admission record operations
type IAdmissionRepository interface {
	Create(ctx context.Context, form *models.AdmissionForm) error
	GetByUserID(ctx context.Context, userID int64) (*models.AdmissionForm, error)
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
}

// AdmissionRepository manages admission records in the database
type AdmissionRepository struct {
	db *pgxpool.Pool
}

// NewAdmissionRepository creates a new AdmissionRepository
func NewAdmissionRepository(db *pgxpool.Pool) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// Create inserts the user's admission record. The unique constraint on
// user_id makes concurrent submissions lose with ErrAdmissionExists instead
// of producing a second record.
func (r *AdmissionRepository) Create(ctx context.Context, form *models.AdmissionForm) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO admission_forms (user_id, name, email, course, address, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, submitted_at`,
		form.UserID, form.Name, form.Email, form.Course, form.Address, form.Phone).
		Scan(&form.ID, &form.SubmittedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAdmissionExists
		}
		return fmt.Errorf("error creating admission record: %w", err)
	}

	return nil
}

// GetByUserID retrieves the one admission record for a user
func (r *AdmissionRepository) GetByUserID(ctx context.Context, userID int64) (*models.AdmissionForm, error) {
	form := &models.AdmissionForm{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, email, course, address, phone, submitted_at
		FROM admission_forms
		WHERE user_id = $1`,
		userID).Scan(
		&form.ID, &form.UserID, &form.Name, &form.Email,
		&form.Course, &form.Address, &form.Phone, &form.SubmittedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving admission record: %w", err)
	}

	return form, nil
}

// ExistsByUserID checks whether a user already has an admission record
func (r *AdmissionRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM admission_forms WHERE user_id = $1)`,
		userID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking admission record: %w", err)
	}

	return exists, nil
}
