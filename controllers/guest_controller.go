package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(guests *services.GuestService) *GuestController {
	return &GuestController{Guests: guests}
}

// GetGuests returns the guest list, name-sorted, with the request
// types each entry's status allows.
func (gc *GuestController) GetGuests(c *gin.Context) {
	entries, err := gc.Guests.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	type guestView struct {
		Entry           any      `json:"entry"`
		AllowedContents []string `json:"allowedContents"`
	}
	views := make([]guestView, 0, len(entries))
	for _, e := range entries {
		contents := e.AllowedContents()
		labels := make([]string, len(contents))
		for i, ct := range contents {
			labels[i] = string(ct)
		}
		views = append(views, guestView{Entry: e, AllowedContents: labels})
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}
