package pii

import (
	"regexp"
	"sort"
	"strings"
)

// detector couples one category's pattern with its placeholder token and an
// optional validator. The validator sees the matched span plus a window of
// surrounding text; returning false releases the span for later detectors.
type detector struct {
	category    Category
	re          *regexp.Regexp
	placeholder string
	confidence  float64
	validate    func(match, context string) (bool, float64)
}

// contextWindow is how many bytes around a match validators may inspect.
const contextWindow = 40

// Detectors run in this order: the most specific and longest patterns claim
// their spans first so that broader digit patterns (bank account, phone)
// cannot corrupt a partially matched card or SSN.
func defaultDetectors() []detector {
	return []detector{
		{
			category:    CategoryCreditCard,
			re:          regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),
			placeholder: "[CARD_REDACTED]",
			confidence:  0.9,
			validate:    validateCreditCard,
		},
		{
			category:    CategoryEmail,
			re:          regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
			placeholder: "[EMAIL_REDACTED]",
			confidence:  0.9,
		},
		{
			category:    CategoryRoutingNumber,
			re:          regexp.MustCompile(`\b\d{9}\b`),
			placeholder: "[ROUTING_REDACTED]",
			confidence:  0.8,
			validate:    validateRoutingNumber,
		},
		{
			category:    CategorySSN,
			re:          regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`),
			placeholder: "[SSN_REDACTED]",
			confidence:  0.85,
			validate:    validateSSN,
		},
		{
			category:    CategoryPhone,
			re:          regexp.MustCompile(`\b(?:\+?1[-. ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`),
			placeholder: "[PHONE_REDACTED]",
			confidence:  0.8,
		},
		{
			category:    CategoryDateOfBirth,
			re:          regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12]\d|3[01])[/-](?:19|20)\d\d\b`),
			placeholder: "[DOB_REDACTED]",
			confidence:  0.7,
		},
		{
			category:    CategoryStreetAddress,
			re:          regexp.MustCompile(`(?i)\b\d{1,6} (?:[A-Za-z'.-]+ ){1,4}(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|circle|cir|way|place|pl|terrace|ter|parkway|pkwy)\b`),
			placeholder: "[ADDRESS_REDACTED]",
			confidence:  0.7,
		},
		{
			category:    CategoryBankAccount,
			re:          regexp.MustCompile(`\b\d{8,17}\b`),
			placeholder: "[ACCOUNT_REDACTED]",
			confidence:  0.6,
		},
	}
}

// Config adjusts scrubber behavior.
type Config struct {
	// ExtraNameDenyList adds phrases (case-insensitive) that the full-name
	// heuristic must never treat as a person's name.
	ExtraNameDenyList []string
}

// Scrubber detects and redacts PII in free text. It is immutable after
// construction and safe for concurrent use.
type Scrubber struct {
	detectors []detector
	nameRE    *regexp.Regexp
	nameDeny  map[string]bool
}

func NewScrubber(cfg Config) *Scrubber {
	deny := make(map[string]bool, len(defaultNameDenyList)+len(cfg.ExtraNameDenyList))
	for _, p := range defaultNameDenyList {
		deny[strings.ToLower(p)] = true
	}
	for _, p := range cfg.ExtraNameDenyList {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			deny[p] = true
		}
	}
	return &Scrubber{
		detectors: defaultDetectors(),
		nameRE:    regexp.MustCompile(`\b[A-Z][a-z]{1,19} [A-Z][a-z]{1,19}\b`),
		nameDeny:  deny,
	}
}

type span struct {
	start, end  int
	placeholder string
	match       Match
}

// Scrub scans text for every recognized category and returns a redacted copy
// together with the matches found. It never fails: absence of PII is a valid
// negative result and any string input is accepted.
func (s *Scrubber) Scrub(text string) ScrubResult {
	if text == "" {
		return ScrubResult{CleanText: "", RiskLevel: RiskNone}
	}

	var claimed []span
	for _, d := range s.detectors {
		for _, loc := range d.re.FindAllStringIndex(text, -1) {
			if overlaps(claimed, loc[0], loc[1]) {
				continue
			}
			value := text[loc[0]:loc[1]]
			conf := d.confidence
			if d.validate != nil {
				ok, c := d.validate(value, contextAround(text, loc[0], loc[1]))
				if !ok {
					continue
				}
				conf = c
			}
			claimed = append(claimed, span{
				start:       loc[0],
				end:         loc[1],
				placeholder: d.placeholder,
				match: Match{
					Category:   d.category,
					Value:      value,
					Position:   loc[0],
					Confidence: conf,
				},
			})
		}
	}
	claimed = append(claimed, s.findNames(text, claimed)...)

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	var b strings.Builder
	b.Grow(len(text))
	found := make([]Match, 0, len(claimed))
	prev := 0
	for _, sp := range claimed {
		b.WriteString(text[prev:sp.start])
		b.WriteString(sp.placeholder)
		prev = sp.end
		found = append(found, sp.match)
	}
	b.WriteString(text[prev:])

	return ScrubResult{
		CleanText:   b.String(),
		FoundPII:    found,
		PIIDetected: len(found) > 0,
		RiskLevel:   deriveRiskLevel(found),
	}
}

func overlaps(claimed []span, start, end int) bool {
	for _, sp := range claimed {
		if start < sp.end && end > sp.start {
			return true
		}
	}
	return false
}

func contextAround(text string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateCreditCard requires 13-19 digits passing the Luhn checksum, so
// that arbitrary long digit runs fall through to the bank-account detector.
func validateCreditCard(match, _ string) (bool, float64) {
	digits := digitsOf(match)
	if len(digits) < 13 || len(digits) > 19 {
		return false, 0
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	if sum%10 != 0 {
		return false, 0
	}
	return true, 0.95
}

// validateSSN rejects area/group/serial values the SSA never issues.
func validateSSN(match, _ string) (bool, float64) {
	digits := digitsOf(match)
	if len(digits) != 9 {
		return false, 0
	}
	area := digits[:3]
	if area == "000" || area == "666" || area[0] == '9' {
		return false, 0
	}
	if digits[3:5] == "00" || digits[5:] == "0000" {
		return false, 0
	}
	if strings.Contains(match, "-") {
		return true, 0.9
	}
	// A bare 9-digit run is ambiguous with other identifiers.
	return true, 0.7
}

// validateRoutingNumber only claims a 9-digit run when nearby text says it
// is one; otherwise the span stays available for the SSN detector.
func validateRoutingNumber(_, context string) (bool, float64) {
	c := strings.ToLower(context)
	if strings.Contains(c, "routing") || strings.Contains(c, "aba") {
		return true, 0.9
	}
	return false, 0
}
