package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scamshield-app/scamshield/internal/protocol"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

const (
	streamReadDeadline  = 120 * time.Second
	streamWriteDeadline = 10 * time.Second
)

// handleScanStream serves the websocket used by mobile background services
// to analyze queued messages. Each scan_request gets exactly one reply, in
// order; the pipeline is synchronous so no fan-out is needed.
func (s *Server) handleScanStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	conn.SetReadLimit(int64(s.cfg.MaxInputBytes) + 4096)
	_ = conn.SetReadDeadline(time.Now().Add(streamReadDeadline))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(streamReadDeadline))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamReadDeadline))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.metrics.StreamMessages.WithLabelValues("inbound", "invalid").Inc()
			if !s.writeStream(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			}) {
				return
			}
			continue
		}

		req, ok := parsed.(protocol.ScanRequest)
		if !ok {
			continue
		}
		s.metrics.StreamMessages.WithLabelValues("inbound", string(protocol.TypeScanRequest)).Inc()

		if !s.writeStream(conn, s.scanVerdict(req)) {
			return
		}
	}
}

func (s *Server) scanVerdict(req protocol.ScanRequest) any {
	channel, err := scoring.ParseChannel(req.Channel)
	if err != nil {
		return protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			RequestID: req.RequestID,
			Code:      "invalid_channel",
			Detail:    err.Error(),
		}
	}
	if len(req.Text) > s.cfg.MaxInputBytes {
		return protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			RequestID: req.RequestID,
			Code:      "input_too_large",
			Detail:    "text exceeds maximum length",
		}
	}

	return protocol.ScanVerdict{
		Type:      protocol.TypeScanVerdict,
		RequestID: req.RequestID,
		Result:    s.runAnalysis(req.Text, channel, req.Sender),
	}
}

// writeStream reports false when the connection is no longer usable.
func (s *Server) writeStream(conn *websocket.Conn, msg any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteDeadline))
	if err := conn.WriteJSON(msg); err != nil {
		return false
	}
	switch m := msg.(type) {
	case protocol.ScanVerdict:
		s.metrics.StreamMessages.WithLabelValues("outbound", string(m.Type)).Inc()
	case protocol.ErrorEvent:
		s.metrics.StreamMessages.WithLabelValues("outbound", string(m.Type)).Inc()
	}
	return true
}
