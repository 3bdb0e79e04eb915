package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/services"
	"hotelops-backend/store"
	"hotelops-backend/utils"
)

// respondError maps engine errors onto the HTTP surface. Expected
// failure modes (validation, authorization, bad transitions) carry
// their own message; anything else is a generic backend failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrNotElevated):
		utils.JSONError(c, http.StatusForbidden, "elevated mode required")
	case errors.Is(err, services.ErrBadSecret):
		utils.JSONError(c, http.StatusUnauthorized, "admin secret mismatch")
	case errors.Is(err, services.ErrNotHandler),
		errors.Is(err, services.ErrNotParticipant):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrRoomNotOccupied),
		errors.Is(err, services.ErrHousekeepingUnset):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPeopleCountRequired),
		errors.Is(err, services.ErrRoomNameRequired),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrNameRequired):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrStaffExists):
		utils.JSONError(c, http.StatusConflict, "staff account already exists")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "backend error")
	}
}
