package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/models"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type PickupController struct {
	Pickups *services.PickupService
	Guests  *services.GuestService
}

func NewPickupController(pickups *services.PickupService, guests *services.GuestService) *PickupController {
	return &PickupController{Pickups: pickups, Guests: guests}
}

// List returns one lifecycle tab, oldest request first.
func (pc *PickupController) List(c *gin.Context) {
	status := models.PickupStatus(c.DefaultQuery("status", string(models.PickupNew)))
	switch status {
	case models.PickupNew, models.PickupInProgress, models.PickupCompleted:
	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown status tab")
		return
	}

	reqs, err := pc.Pickups.ByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reqs)
}

type createPickupPayload struct {
	GuestID     string `json:"guestId"`
	Content     string `json:"content"`
	PeopleCount string `json:"peopleCount"`
}

// Create submits a request for a guest-list entry.
func (pc *PickupController) Create(c *gin.Context) {
	var payload createPickupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	entry, err := pc.Guests.Get(c.Request.Context(), payload.GuestID)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := pc.Pickups.CreateFromGuest(c.Request.Context(), entry, models.PickupContent(payload.Content), payload.PeopleCount)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"id": id})
}

type processPayload struct {
	CartCount string `json:"cartCount"`
}

func (pc *PickupController) Process(c *gin.Context) {
	// Body is optional; the cart count defaults when omitted.
	var payload processPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid payload")
			return
		}
	}

	if err := pc.Pickups.Process(c.Request.Context(), middleware.Email(c), c.Param("id"), payload.CartCount); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": models.PickupInProgress})
}

func (pc *PickupController) Complete(c *gin.Context) {
	if err := pc.Pickups.Complete(c.Request.Context(), middleware.Session(c), middleware.Email(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": models.PickupCompleted})
}

func (pc *PickupController) Reset(c *gin.Context) {
	if err := pc.Pickups.Reset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": models.PickupNew})
}

func (pc *PickupController) Delete(c *gin.Context) {
	if err := pc.Pickups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// BulkDelete purges every completed request. Partial failures surface
// as an overall error; the deleted count reflects what went through.
func (pc *PickupController) BulkDelete(c *gin.Context) {
	deleted, err := pc.Pickups.BulkDeleteCompleted(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}
