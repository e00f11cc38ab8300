package api

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/hextile/pkg/errors"
	"github.com/matzehuels/hextile/pkg/pipeline"
)

// Stream message types sent by the server.
const (
	MessagePattern = "pattern"
	MessageDone    = "done"
	MessageError   = "error"
)

const (
	writeWait = 10 * time.Second
	readWait  = 30 * time.Second
)

// StreamMessage is one server-to-client message on /api/patterns/stream.
type StreamMessage struct {
	Type    string           `json:"type"`
	Pattern *PatternResponse `json:"pattern,omitempty"`
	Index   int              `json:"index"`
	Count   int              `json:"count,omitempty"`
	Detail  string           `json:"detail,omitempty"`
	Code    string           `json:"code,omitempty"`
}

// handleStream upgrades to a websocket, reads one GenerateRequest and
// pushes each variation as soon as it is rendered, then a done message.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		s.logger.Debug("websocket closed before request", "err", err)
		return
	}
	var req GenerateRequest
	if err := sonic.ConfigStd.Unmarshal(data, &req); err != nil {
		s.sendError(conn, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request"))
		return
	}
	opts, err := req.Options()
	if err != nil {
		s.sendError(conn, err)
		return
	}

	ctx := r.Context()
	count := 0
	err = s.runner.Stream(ctx, opts, func(v *pipeline.Variation) error {
		rec, err := s.save(ctx, v)
		if err != nil {
			return err
		}
		resp := newPatternResponse(rec, true)
		count++
		return s.send(conn, StreamMessage{Type: MessagePattern, Pattern: &resp, Index: v.Index})
	})
	if err != nil {
		s.sendError(conn, err)
		return
	}
	if err := s.send(conn, StreamMessage{Type: MessageDone, Count: count}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	data, err := sonic.ConfigStd.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) sendError(conn *websocket.Conn, err error) {
	msg := StreamMessage{
		Type:   MessageError,
		Detail: errors.UserMessage(err),
		Code:   string(errors.GetCode(err)),
	}
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.logger.Error("stream failed", "err", err)
		msg.Detail = "internal server error"
	}
	if msg.Code == "" {
		msg.Code = string(errors.ErrCodeInternal)
	}
	_ = s.send(conn, msg)
}
