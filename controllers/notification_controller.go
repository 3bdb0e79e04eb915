package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type NotificationController struct {
	History *services.NotificationService
}

func NewNotificationController(history *services.NotificationService) *NotificationController {
	return &NotificationController{History: history}
}

// List returns the caller's notification history, newest first.
func (nc *NotificationController) List(c *gin.Context) {
	items, err := nc.History.List(c.Request.Context(), middleware.Email(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, items)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.History.MarkRead(c.Request.Context(), middleware.Email(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"read": true})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	marked, err := nc.History.MarkAllRead(c.Request.Context(), middleware.Email(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"marked": marked})
}

func (nc *NotificationController) Delete(c *gin.Context) {
	if err := nc.History.Delete(c.Request.Context(), middleware.Email(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (nc *NotificationController) DeleteAll(c *gin.Context) {
	deleted, err := nc.History.DeleteAll(c.Request.Context(), middleware.Email(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}
