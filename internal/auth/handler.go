package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/utils"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	FullName    string `json:"fullName" binding:"required,max=100" example:"Asha Rao"`
	Email       string `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password    string `json:"password" binding:"required,min=6" example:"secret123"`
	Department  string `json:"department" example:"Computer Science"`
	Year        string `json:"year" example:"3"`
	StudentID   string `json:"studentId" example:"CS2021-044"`
	PhoneNumber string `json:"phoneNumber" example:"9876543210"`
}

// Register godoc
// @Summary Create a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "account"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	tokens, user, err := h.service.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ register %s: %v", req.Email, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	})
}

// ===============================
// Login
// ===============================

type loginReq struct {
	Email    string `json:"email" binding:"required,email" example:"admin@eventapp.com"`
	Password string `json:"password" binding:"required" example:"Admin@123"`
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginReq true "credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), LoginInput(req))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ login %s: %v", req.Email, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	})
}

// ===============================
// Refresh
// ===============================

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidation(c, utils.BindingErrors(err))
		return
	}

	token, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ===============================
// Me
// ===============================

// Me returns the user resolved by the auth middleware.
func (h *Handler) Me(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
