package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/matchvision/match-analyzer/pkg/store"
	"github.com/sirupsen/logrus"
)

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

//progressMessage is one websocket push with the current state of an analysis run
type progressMessage struct {
	Status string `json:"status"`
	Stage  string `json:"stage"`
	Frame  int    `json:"frame"`
	Error  string `json:"error,omitempty"`
}

//serveProgress upgrades the connection and pushes the analysis state every second
//until the run finishes or the client disconnects
func serveProgress(ctx *gin.Context, st store.Store) {
	analysisID := ctx.Param("id")

	if _, ok := st.Get(analysisID); !ok {
		ctx.Status(http.StatusNotFound)
		return
	}

	conn, err := progressUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logrus.Errorf("api/Progress: Could not upgrade connection, got '%v'", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		a, ok := st.Get(analysisID)
		if !ok { //evicted while the client was watching
			return
		}

		msg := progressMessage{
			Status: a.Status,
			Stage:  a.Stage,
			Frame:  a.Frame,
			Error:  a.Error,
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("api/Progress: Error writing to client, got '%v'", err)
			}
			return
		}

		if a.Status != store.StatusProcessing {
			return
		}
	}
}
