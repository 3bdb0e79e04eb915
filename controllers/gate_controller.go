package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type GateController struct {
	Gate *services.AccessGate
}

func NewGateController(gate *services.AccessGate) *GateController {
	return &GateController{Gate: gate}
}

type authorizePayload struct {
	Secret string `json:"secret"`
}

// Authorize elevates the current session after a successful secret
// check. Failed attempts leave gate state unchanged and are freely
// retryable.
func (gc *GateController) Authorize(c *gin.Context) {
	var payload authorizePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := gc.Gate.Authorize(middleware.Session(c), payload.Secret); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"elevated": true})
}

// Status reports whether the current session is elevated.
func (gc *GateController) Status(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, gin.H{"elevated": gc.Gate.Elevated(middleware.Session(c))})
}

// Reset drops elevated mode; the client calls this on screen teardown.
func (gc *GateController) Reset(c *gin.Context) {
	gc.Gate.Reset(middleware.Session(c))
	utils.JSONSuccess(c, http.StatusOK, gin.H{"elevated": false})
}
