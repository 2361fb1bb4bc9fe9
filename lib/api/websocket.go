package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

const statsInterval = 2 * time.Second

// @Summary	Open websocket for realtime render statistics
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already replied to the client
		logger().Debug(fmt.Sprintf("couldn't make websocket: %s", err))
		return
	}
	defer func(ws *websocket.Conn) {
		_ = ws.Close()
	}(ws)
	a.addClient(ws)
	defer a.removeClient(ws)

	done := make(chan struct{})
	defer close(done)
	go a.websocketWriter(ws, done)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			break
		}
		logger().Debug(fmt.Sprintf("Received: %s", msg))
	}
}

func (a *Api) addClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	a.wsClients[ws] = true
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) removeClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	delete(a.wsClients, ws)
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) websocketWriter(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	timeout := 10 * time.Second

	send := func() bool {
		packet, err := json.Marshal(a.Stats.Snapshot())
		if err != nil {
			return false
		}
		err = ws.SetWriteDeadline(time.Now().Add(timeout))
		if err != nil {
			logger().Error(fmt.Sprintf("could not set write deadline: %s", err))
			return false
		}
		return ws.WriteMessage(websocket.TextMessage, packet) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
