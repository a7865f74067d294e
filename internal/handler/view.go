// Package handler bridges the BMP codec to a browser over websocket: the
// client sends a BMP file as one binary message, the server answers with a
// JSON metadata frame followed by a raw RGBA frame the page can blit into a
// canvas.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/microbmp/microbmp"
	"github.com/microbmp/microbmp/internal/config"
	"github.com/microbmp/microbmp/internal/logging"
)

const (
	webSocketReadBufferSize  = 8192
	webSocketWriteBufferSize = 8192 * 2
)

// metaMessage describes a decoded image to the browser. Text frames carry
// JSON; the RGBA pixels follow as a single binary frame.
type metaMessage struct {
	Type    string `json:"type"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Depth   int    `json:"depth,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Viewer handles websocket connections for the BMP viewer.
type Viewer struct {
	cfg *config.Config
}

func NewViewer(cfg *config.Config) *Viewer {
	return &Viewer{cfg: cfg}
}

// View upgrades the request to a websocket and serves decode requests until
// the client goes away.
func (v *Viewer) View(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  webSocketReadBufferSize,
		WriteBufferSize: webSocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return v.isAllowedOrigin(r.Header.Get("Origin"))
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("upgrade websocket: %v", err)
		return
	}

	defer func() {
		if err := wsConn.Close(); err != nil {
			logging.Debug("closing websocket: %v", err)
		}
	}()

	wsConn.SetReadLimit(int64(v.cfg.Viewer.MaxUploadBytes))

	for {
		msgType, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("reading message from ws: %v", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		if err := v.serveDecode(wsConn, data); err != nil {
			logging.Error("serving decode: %v", err)
			return
		}
	}
}

// serveDecode decodes one uploaded BMP file and writes the reply frames.
// Decode failures are reported to the client and keep the connection open.
// The declared dimensions are checked against the configured caps before the
// full decode runs, so an oversized header costs no pixel storage.
func (v *Viewer) serveDecode(wsConn *websocket.Conn, data []byte) error {
	geom, err := microbmp.DecodeConfig(data)
	if err != nil {
		logging.Debug("decode rejected: %v", err)
		return writeJSON(wsConn, metaMessage{Type: "error", Error: err.Error()})
	}
	if geom.Width > v.cfg.Viewer.MaxWidth || geom.Height > v.cfg.Viewer.MaxHeight {
		logging.Warn("rejecting %dx%d upload over viewer limits", geom.Width, geom.Height)
		return writeJSON(wsConn, metaMessage{
			Type:  "error",
			Error: fmt.Sprintf("image %dx%d exceeds viewer limits", geom.Width, geom.Height),
		})
	}

	img, err := microbmp.Decode(data)
	if err != nil {
		logging.Debug("decode rejected: %v", err)
		return writeJSON(wsConn, metaMessage{Type: "error", Error: err.Error()})
	}

	meta := metaMessage{
		Type:    "image",
		Width:   img.Width(),
		Height:  img.Height(),
		Depth:   img.Depth(),
		Summary: img.Describe(),
	}
	if err := writeJSON(wsConn, meta); err != nil {
		return fmt.Errorf("sending metadata: %w", err)
	}

	if err := wsConn.WriteMessage(websocket.BinaryMessage, img.RGBA()); err != nil {
		return fmt.Errorf("sending pixels: %w", err)
	}
	return nil
}

func writeJSON(wsConn *websocket.Conn, msg metaMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return wsConn.WriteMessage(websocket.TextMessage, data)
}

func (v *Viewer) isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}

	allowed := v.cfg.Viewer.AllowedOrigins
	if len(allowed) == 0 {
		return true
	}

	for _, candidate := range allowed {
		if candidate == origin {
			return true
		}
	}
	return false
}
