package controllers

import (
	"net/http"
	"time"

	"github.com/sunghoonkim81/sul-calendar-web/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT *services.UpdateHub
}

func NewRealtimeController(rt *services.UpdateHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// UpdatesWS upgrades /ws/updates?user= and streams day.updated events for
// the watched calendar until the client goes away.
func (rc *RealtimeController) UpdatesWS(c *gin.Context) {
	user := services.NormalizeUser(c.Query("user"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.CalendarClient{User: user, Conn: conn}
	rc.RT.Register(cl)

	// ping to keep connections alive through proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.RT.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error, then unregister
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
