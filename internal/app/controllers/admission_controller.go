package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/unionhq/union/internal/app/models/dto"
	"github.com/unionhq/union/internal/app/services"
	"github.com/unionhq/union/internal/middleware"
	"github.com/unionhq/union/internal/pkg/apperrors"
)

// AdmissionController handles the admission-form workflow. All of its routes
// sit behind the session guard, so an identity is always present.
type AdmissionController struct {
	admissionService *services.AdmissionService
	logger           zerolog.Logger
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissionService *services.AdmissionService, logger zerolog.Logger) *AdmissionController {
	return &AdmissionController{
		admissionService: admissionService,
		logger:           logger,
	}
}

// ShowForm renders the admission form for the signed-in user
func (c *AdmissionController) ShowForm(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/signin")
		return
	}

	ctx.HTML(http.StatusOK, "admission-form.tmpl", gin.H{"user": identity, "error": nil})
}

// Submit creates the user's admission record from the form plus the session
// identity, then redirects to the submission view. A user who already has a
// record is sent to the view instead of getting a duplicate.
func (c *AdmissionController) Submit(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/signin")
		return
	}

	var req dto.AdmissionFormRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid admission form")
		ctx.HTML(http.StatusBadRequest, "admission-form.tmpl", gin.H{
			"user":  identity,
			"error": dto.BindingErrorMessage(err, "Course, address and phone are required!"),
		})
		return
	}

	_, err := c.admissionService.Submit(ctx.Request.Context(), identity, req.Course, req.Address, req.Phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdmissionExists) {
			ctx.Redirect(http.StatusSeeOther, "/submission-data")
			return
		}
		c.logger.Error().Err(err).Int64("userID", identity.ID).Msg("Error submitting admission form")
		ctx.HTML(http.StatusInternalServerError, "admission-form.tmpl", gin.H{
			"user":  identity,
			"error": "An error occurred while submitting the form!",
		})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/submission-data")
}

// ViewSubmission renders the user's admission record, or the "no submission"
// state when none exists. Absence is not an error.
func (c *AdmissionController) ViewSubmission(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/signin")
		return
	}

	form, err := c.admissionService.GetByUserID(ctx.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdmissionNotFound) {
			ctx.HTML(http.StatusOK, "submission-data.tmpl", gin.H{"message": "No submission found!"})
			return
		}
		c.logger.Error().Err(err).Int64("userID", identity.ID).Msg("Error fetching submission data")
		ctx.HTML(http.StatusInternalServerError, "submission-data.tmpl", gin.H{"error": "An error occurred while fetching your submission!"})
		return
	}

	ctx.HTML(http.StatusOK, "submission-data.tmpl", gin.H{"admission": form})
}
