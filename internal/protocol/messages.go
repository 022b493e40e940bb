package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scamshield-app/scamshield/internal/analysis"
)

// MessageType identifies websocket payload variants on the scan stream.
type MessageType string

const (
	TypeScanRequest MessageType = "scan_request"
	TypeScanVerdict MessageType = "scan_verdict"
	TypeErrorEvent  MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ScanRequest is one queued message the client wants analyzed. RequestID is
// a client-chosen correlation token echoed back on the verdict.
type ScanRequest struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id"`
	Text      string      `json:"text"`
	Channel   string      `json:"channel"`
	Sender    string      `json:"sender,omitempty"`
}

// ScanVerdict carries the combined analysis result for one request.
type ScanVerdict struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id"`
	Result    analysis.Result `json:"result"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound stream message.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeScanRequest:
		var msg ScanRequest
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.RequestID == "" || msg.Channel == "" {
			return nil, errors.New("invalid scan_request")
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
