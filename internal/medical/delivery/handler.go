package delivery

import (
	"errors"
	"net/http"

	authdelivery "medbot-backend/internal/auth/delivery"
	authrepo "medbot-backend/internal/auth/repository"
	"medbot-backend/internal/medical/domain"
	"medbot-backend/internal/medical/dto"
	"medbot-backend/internal/medical/usecase"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MedicalHandler serves the intake form endpoints
type MedicalHandler struct {
	medicalUsecase usecase.MedicalUsecase
}

func NewMedicalHandler(medicalUsecase usecase.MedicalUsecase) *MedicalHandler {
	return &MedicalHandler{
		medicalUsecase: medicalUsecase,
	}
}

var fieldMessages = map[string]string{
	"Email":             "A valid email is required",
	"Age":               "Invalid age",
	"Gender":            "Gender must be Male, Female or Other",
	"MedicalConditions": "Medical conditions are too long",
	"Allergies":         "Allergies are too long",
	"Medications":       "Medications are too long",
}

// bindingMessage turns a bind error into the message the form shows
func bindingMessage(err error) string {
	if errors.Is(err, dto.ErrNotWholeNumber) {
		return fieldMessages["Age"]
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].Field()]; ok {
			return msg
		}
	}
	return "Invalid medical details: " + err.Error()
}

// Save replaces the caller's medical details
// POST /medical/save
func (h *MedicalHandler) Save(c *gin.Context) {
	var req dto.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	profile, err := h.medicalUsecase.Save(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save medical details."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Medical details saved successfully",
		"profile": profile,
	})
}

// Get returns the caller's own medical details. Requires AuthMiddleware.
// GET /medical/:email
func (h *MedicalHandler) Get(c *gin.Context) {
	user, ok := authdelivery.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	email := c.Param("email")
	if authrepo.NormalizeEmail(email) != authrepo.NormalizeEmail(user.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own medical details"})
		return
	}

	profile, err := h.medicalUsecase.GetByEmail(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Medical details not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load medical details."})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Status reports whether a user already submitted the form
// GET /medical/:email/status
func (h *MedicalHandler) Status(c *gin.Context) {
	exists, err := h.medicalUsecase.Exists(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check medical details."})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Exists: exists})
}
