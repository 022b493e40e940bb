package scoring

import "strings"

// Phone-number pre-screening looks only at the number itself: area code,
// digit patterns, and blocklist membership. Message content never reaches
// this path.

const (
	premiumAreaWeight    = 0.40
	callbackAreaWeight   = 0.35
	repeatedDigitWeight  = 0.30
	sequentialRunWeight  = 0.30
	blocklistedWeight    = 0.60
	malformedPhoneScore  = 0.50
	malformedPhoneReason = "unrecognized phone number format"
)

// premiumAreaCodes are US premium-rate prefixes billed to the caller.
var premiumAreaCodes = map[string]bool{
	"900": true,
	"976": true,
}

// callbackAreaCodes are NANP area codes outside US billing rules that show
// up in one-ring callback scams.
var callbackAreaCodes = map[string]bool{
	"809": true, "829": true, "849": true,
	"876": true, "284": true, "473": true,
	"649": true, "268": true, "664": true, "767": true,
}

// NormalizePhoneNumber reduces a number to its 10 NANP digits. The second
// return is false when the input does not reduce to a 10-digit number.
func NormalizePhoneNumber(number string) (string, bool) {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return digits, false
	}
	return digits, true
}

// ScorePhoneNumber pre-screens a bare phone number. blocklist may be nil:
// scoring then proceeds on format heuristics alone with reduced confidence.
// A number that does not normalize to 10 digits yields a fixed medium
// assessment rather than a silent pass.
func (s *Scorer) ScorePhoneNumber(number string, blocklist Blocklist) Assessment {
	digits, ok := NormalizePhoneNumber(number)
	if !ok {
		return assess(malformedPhoneScore, 1, []string{malformedPhoneReason})
	}

	score := 0.0
	signals := 0
	var reasons []string

	area := digits[:3]
	switch {
	case premiumAreaCodes[area]:
		score += premiumAreaWeight
		signals++
		reasons = append(reasons, "premium rate area code")
	case callbackAreaCodes[area]:
		score += callbackAreaWeight
		signals++
		reasons = append(reasons, "area code linked to callback scams")
	}

	if repeatedDigits(digits) {
		score += repeatedDigitWeight
		signals++
		reasons = append(reasons, "repeated digit pattern typical of spoofed caller id")
	}

	if sequentialRun(digits) {
		score += sequentialRunWeight
		signals++
		reasons = append(reasons, "sequential digit pattern typical of spoofed caller id")
	}

	if blocklist != nil && blocklist.Contains(digits) {
		score += blocklistedWeight
		signals++
		reasons = append(reasons, "number matches a blocklisted caller")
	}

	a := assess(score, signals, reasons)
	if blocklist == nil {
		a.Confidence = lowerConfidence(a.Confidence)
	}
	return a
}

func lowerConfidence(c ConfidenceLevel) ConfidenceLevel {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// repeatedDigits reports whether one digit dominates the number (7 or more
// of the 10 positions).
func repeatedDigits(digits string) bool {
	var counts [10]int
	for i := 0; i < len(digits); i++ {
		counts[digits[i]-'0']++
	}
	for _, n := range counts {
		if n >= 7 {
			return true
		}
	}
	return false
}

// sequentialRun reports an ascending or descending run of 6+ consecutive
// digits anywhere in the number.
func sequentialRun(digits string) bool {
	asc, desc := 1, 1
	for i := 1; i < len(digits); i++ {
		d := int(digits[i]) - int(digits[i-1])
		if d == 1 {
			asc++
		} else {
			asc = 1
		}
		if d == -1 {
			desc++
		} else {
			desc = 1
		}
		if asc >= 6 || desc >= 6 {
			return true
		}
	}
	return false
}
