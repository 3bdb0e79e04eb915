package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

// GetRooms lists rooms, optionally filtered to one floor section via
// ?section=.
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.Rooms(c.Request.Context(), c.Query("section"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"rooms": rooms, "sections": utils.FloorSections})
}

type checkoutPayload struct {
	WithPickup  bool   `json:"withPickup"`
	PeopleCount string `json:"peopleCount"`
}

func (rc *RoomController) Checkout(c *gin.Context) {
	// Body is optional; a bare checkout clears the room with no pickup.
	var payload checkoutPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	result, err := rc.Rooms.Checkout(c.Request.Context(), middleware.Session(c), c.Param("id"), services.CheckoutOptions{
		WithPickup:  payload.WithPickup,
		PeopleCount: payload.PeopleCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

func (rc *RoomController) AdvanceHousekeeping(c *gin.Context) {
	next, err := rc.Rooms.AdvanceHousekeeping(c.Request.Context(), middleware.Email(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"clean": next})
}
