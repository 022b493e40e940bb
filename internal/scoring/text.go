package scoring

import (
	"regexp"
	"strings"
)

// Scorer applies keyword and structural heuristics to produce a coarse,
// explainable risk assessment. It holds only read-only tables and is safe
// for concurrent use; both entry points are pure functions of their inputs.
type Scorer struct {
	groups      []signalGroup
	linkRE      *regexp.Regexp
	shortCodeRE *regexp.Regexp
	e164RE      *regexp.Regexp
}

func NewScorer() *Scorer {
	return &Scorer{
		groups:      defaultSignalGroups(),
		linkRE:      regexp.MustCompile(`(?i)(?:https?://|www\.)\S+|bit\.ly/\S+|tinyurl\.com/\S+`),
		shortCodeRE: regexp.MustCompile(`^\d{3,6}$`),
		e164RE:      regexp.MustCompile(`^\+?\d{7,15}$`),
	}
}

const (
	linkWeight         = 0.15
	shortCodeWeight    = 0.15
	senderFormatWeight = 0.10
)

// ScoreText scores already-scrubbed message or transcript text. senderHint
// is the claimed sender identifier when the channel carries one; pass the
// empty string when unknown. Reasons are appended in evaluation order, one
// per signal category that fired.
func (s *Scorer) ScoreText(cleanText string, channel Channel, senderHint string) Assessment {
	lower := strings.ToLower(cleanText)

	score := 0.0
	signals := 0
	var reasons []string

	for _, g := range s.groups {
		phrase, ok := firstPhrase(lower, g.phrases)
		if !ok {
			continue
		}
		score += g.weight * channelBias(g.name, channel)
		signals++
		reasons = append(reasons, g.reason(phrase))
	}

	if s.linkRE.MatchString(cleanText) {
		score += linkWeight
		signals++
		reasons = append(reasons, "embedded link detected")
	}

	if sender := strings.TrimSpace(senderHint); sender != "" {
		compact := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(sender)
		switch {
		case s.shortCodeRE.MatchString(compact):
			score += shortCodeWeight
			signals++
			reasons = append(reasons, "short numeric sender code typical of spoofed senders")
		case !s.e164RE.MatchString(compact):
			score += senderFormatWeight
			signals++
			reasons = append(reasons, "sender identifier has an unrecognized format")
		}
	}

	return assess(score, signals, reasons)
}

// firstPhrase returns the first phrase from the table present in the text
// on word boundaries, preserving table order for determinism.
func firstPhrase(lower string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if containsPhrase(lower, p) {
			return p, true
		}
	}
	return "", false
}

// containsPhrase is a boundary-aware substring check so that short tokens
// like "irs" or "otp" cannot fire inside unrelated words.
func containsPhrase(text, phrase string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		if !isWordByte(text, start-1) && !isWordByte(text, end) {
			return true
		}
		from = start + 1
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
