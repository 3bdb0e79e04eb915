package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// ListRooms returns the caller's chat rooms, most recently active first.
func (cc *ChatController) ListRooms(c *gin.Context) {
	rooms, err := cc.Chat.RoomsFor(c.Request.Context(), middleware.Email(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

type createRoomPayload struct {
	Name string `json:"name"`
}

func (cc *ChatController) CreateRoom(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	room, err := cc.Chat.CreateRoom(c.Request.Context(), middleware.Email(c), payload.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

type invitePayload struct {
	Email string `json:"email"`
}

func (cc *ChatController) Invite(c *gin.Context) {
	var payload invitePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Email == "" {
		utils.JSONError(c, http.StatusBadRequest, "email required")
		return
	}

	if err := cc.Chat.Invite(c.Request.Context(), middleware.Email(c), c.Param("id"), payload.Email); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"invited": payload.Email})
}

func (cc *ChatController) Leave(c *gin.Context) {
	if err := cc.Chat.Leave(c.Request.Context(), middleware.Email(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"left": true})
}

// ListMessages returns the room's history, oldest first.
func (cc *ChatController) ListMessages(c *gin.Context) {
	msgs, err := cc.Chat.Messages(c.Request.Context(), middleware.Email(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, msgs)
}

type sendMessagePayload struct {
	Text string `json:"text"`
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	var payload sendMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	msg, err := cc.Chat.SendMessage(c.Request.Context(), middleware.Email(c), c.Param("id"), payload.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}
