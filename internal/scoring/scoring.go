package scoring

import "fmt"

// Channel is the communication medium the analyzed content arrived through.
type Channel string

const (
	ChannelSMS       Channel = "sms"
	ChannelCall      Channel = "call"
	ChannelVoicemail Channel = "voicemail"
	ChannelEmail     Channel = "email"
	ChannelWeb       Channel = "web"
	ChannelLetter    Channel = "letter"
)

// ParseChannel validates a caller-supplied channel string.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelSMS, ChannelCall, ChannelVoicemail, ChannelEmail, ChannelWeb, ChannelLetter:
		return Channel(s), nil
	default:
		return "", fmt.Errorf("unknown channel %q", s)
	}
}

// Label is the canonical ordinal risk scale. Earlier prototypes used a
// safe/caution/danger vocabulary; this package maps raw scores onto a single
// four-step scale instead.
type Label string

const (
	LabelLow      Label = "low"
	LabelMedium   Label = "medium"
	LabelHigh     Label = "high"
	LabelCritical Label = "critical"
)

// ConfidenceLevel reflects how many independent signal categories fired,
// not the raw score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Assessment is the scorer's output for both text and phone-number scoring.
type Assessment struct {
	Score      float64         `json:"score"`
	Normalized int             `json:"normalized"`
	Label      Label           `json:"label"`
	Confidence ConfidenceLevel `json:"confidence"`
	Reasons    []string        `json:"reasons"`
}

// Blocklist is a read-only snapshot of known scam numbers, supplied by the
// surrounding application. Contains receives a normalized 10-digit string.
type Blocklist interface {
	Contains(digits string) bool
}

func labelFor(score float64) Label {
	switch {
	case score >= 0.8:
		return LabelCritical
	case score >= 0.5:
		return LabelHigh
	case score >= 0.25:
		return LabelMedium
	default:
		return LabelLow
	}
}

func confidenceFor(signalCount int) ConfidenceLevel {
	switch {
	case signalCount >= 4:
		return ConfidenceHigh
	case signalCount >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func assess(score float64, signalCount int, reasons []string) Assessment {
	score = clamp01(score)
	if reasons == nil {
		reasons = []string{}
	}
	return Assessment{
		Score:      score,
		Normalized: int(score*100 + 0.5),
		Label:      labelFor(score),
		Confidence: confidenceFor(signalCount),
		Reasons:    reasons,
	}
}
