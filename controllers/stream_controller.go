package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotelops-backend/middleware"
	"hotelops-backend/models"
	"hotelops-backend/store"
	"hotelops-backend/sync"
	"hotelops-backend/utils"
)

// StreamController exposes the change feed over SSE. Each event
// carries the collection's full current snapshot; clients replace
// their state wholesale instead of merging diffs.
type StreamController struct {
	Store store.Store
	Log   *logrus.Logger
}

func NewStreamController(st store.Store, log *logrus.Logger) *StreamController {
	return &StreamController{Store: st, Log: log}
}

// streamSpec fixes ordering and scoping per streamable collection.
// filters narrow the subscription at the store; view narrows the
// delivered snapshot where the store's equality filters cannot (chat
// membership is a list).
type streamSpec struct {
	less    sync.LessFunc
	filters func(c *gin.Context) ([]store.Filter, bool)
	view    func(c *gin.Context, docs []store.Doc) []store.Doc
}

func byActivityDesc(a, b store.Doc) bool {
	return models.ChatRoomFromDoc(a).ActivityMillis() > models.ChatRoomFromDoc(b).ActivityMillis()
}

func byCreatedAtDesc(a, b store.Doc) bool {
	return store.TimeValue(a.Data["createdAt"]) > store.TimeValue(b.Data["createdAt"])
}

var streamSpecs = map[string]streamSpec{
	models.RoomsCollection:     {less: sync.ByField("roomNumber")},
	models.PickupsCollection:   {less: sync.ByCreatedAt},
	models.GuestListCollection: {less: sync.ByField("guestName")},
	models.ChatRoomsCollection: {
		less: byActivityDesc,
		view: func(c *gin.Context, docs []store.Doc) []store.Doc {
			email := middleware.Email(c)
			var mine []store.Doc
			for _, d := range docs {
				if models.ChatRoomFromDoc(d).HasParticipant(email) {
					mine = append(mine, d)
				}
			}
			return mine
		},
	},
	models.MessagesCollection: {
		less: sync.ByCreatedAt,
		filters: func(c *gin.Context) ([]store.Filter, bool) {
			room := c.Query("room")
			if room == "" {
				return nil, false
			}
			return []store.Filter{{Field: "chatRoomId", Value: room}}, true
		},
	},
	models.NotificationsCollection: {
		less: byCreatedAtDesc,
		filters: func(c *gin.Context) ([]store.Filter, bool) {
			return []store.Filter{{Field: "userEmail", Value: middleware.Email(c)}}, true
		},
	},
}

func (sc *StreamController) Stream(c *gin.Context) {
	spec, ok := streamSpecs[c.Param("collection")]
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "unknown collection")
		return
	}

	var filters []store.Filter
	if spec.filters != nil {
		filters, ok = spec.filters(c)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "room query parameter required")
			return
		}
	}

	mirror := sync.NewMirror(sc.Store, c.Param("collection"), filters, spec.less, sc.Log)
	defer mirror.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-mirror.Changes():
			docs := mirror.Snapshot()
			if spec.view != nil {
				docs = spec.view(c, docs)
			}
			c.SSEvent("snapshot", docs)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
