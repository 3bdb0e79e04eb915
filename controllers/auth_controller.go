package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type AuthController struct {
	Staff     *services.StaffService
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthController(staff *services.StaffService, jwtSecret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{Staff: staff, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type pushTokenPayload struct {
	Token string `json:"token"`
}

func (a *AuthController) Register(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	profile, err := a.Staff.Register(c.Request.Context(), payload.Email, payload.Name, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, profile)
}

func (a *AuthController) Login(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	profile, err := a.Staff.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateStaffToken(profile.Email, profile.Name, a.JWTSecret, a.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "name": profile.Name, "email": profile.Email})
}

type profilePayload struct {
	Name string `json:"name"`
}

// UpdateProfile changes the caller's display name. Provenance already
// stamped on rooms and requests keeps the old name.
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	profile, err := a.Staff.UpdateName(c.Request.Context(), middleware.Email(c), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, profile)
}

func (a *AuthController) SavePushToken(c *gin.Context) {
	var payload pushTokenPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Token == "" {
		utils.JSONError(c, http.StatusBadRequest, "push token required")
		return
	}

	if err := a.Staff.SavePushToken(c.Request.Context(), middleware.Email(c), payload.Token); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"saved": true})
}
