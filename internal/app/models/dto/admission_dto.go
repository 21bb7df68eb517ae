package dto

// AdmissionFormRequest represents the admission form fields. The owning
// user's id, name and email come from the session, not the form.
type AdmissionFormRequest struct {
	Course  string `form:"course" binding:"required"`
	Address string `form:"address" binding:"required"`
	Phone   string `form:"phone" binding:"required"`
}
