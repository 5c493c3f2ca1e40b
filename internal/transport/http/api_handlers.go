package http

import (
	stdhttp "net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/roomrelay/roomrelay/internal/core"
)

// RoomsResponse is the payload for the room introspection endpoint.
type RoomsResponse struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// listRoomsHandler exposes live rooms and their member counts. The
// snapshot is answered by the hub loop, so it is consistent with the
// delivery order clients observe.
func listRoomsHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := hub.Rooms(c.Request.Context())
		if rooms == nil {
			rooms = []core.RoomInfo{}
		}
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
		c.JSON(stdhttp.StatusOK, RoomsResponse{Rooms: rooms})
	}
}
