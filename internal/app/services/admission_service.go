package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models"
	"github.com/unionhq/union/internal/app/repositories"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// AdmissionService manages the single admission record per account
type AdmissionService struct {
	admissionRepo repositories.IAdmissionRepository
	logger        zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(admissionRepo repositories.IAdmissionRepository, logger zerolog.Logger) *AdmissionService {
	return &AdmissionService{
		admissionRepo: admissionRepo,
		logger:        logger,
	}
}

// Submit creates the admission record for the session's identity. The name
// and email are snapshotted from the identity at submission time. A second
// submission, concurrent or not, returns apperrors.ErrAdmissionExists.
func (s *AdmissionService) Submit(ctx context.Context, identity models.Identity, course, address, phone string) (*models.AdmissionForm, error) {
	form := &models.AdmissionForm{
		UserID:  identity.ID,
		Name:    identity.Name,
		Email:   identity.Email,
		Course:  course,
		Address: address,
		Phone:   phone,
	}

	if err := s.admissionRepo.Create(ctx, form); err != nil {
		if errors.Is(err, apperrors.ErrAdmissionExists) {
			return nil, apperrors.ErrAdmissionExists
		}
		return nil, fmt.Errorf("admission record creation error: %w", err)
	}

	s.logger.Info().Int64("userID", identity.ID).Str("course", course).Msg("Admission form submitted")
	return form, nil
}

// GetByUserID retrieves the user's admission record, or
// apperrors.ErrAdmissionNotFound when none has been submitted.
func (s *AdmissionService) GetByUserID(ctx context.Context, userID int64) (*models.AdmissionForm, error) {
	form, err := s.admissionRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdmissionNotFound) {
			return nil, apperrors.ErrAdmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving admission record: %w", err)
	}

	return form, nil
}
