package pii

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// The full-name heuristic is best-effort: two consecutive capitalized words
// are treated as a likely name unless the phrase, or either word, appears in
// the deny list. It is a false-positive filter, not an authoritative oracle,
// which is why name matches carry the lowest confidence of any detector.

const namePlaceholder = "[NAME_REDACTED]"

const nameConfidence = 0.5

// defaultNameDenyList ships the common two-word phrases and leading words
// that look like names but are not. Deployments extend it via
// Config.ExtraNameDenyList (see LoadDenyListFile).
var defaultNameDenyList = []string{
	// greetings and letter boilerplate
	"dear", "hello", "hi", "dear sir", "dear madam", "good morning",
	"good afternoon", "good evening", "thank you", "best regards",
	"kind regards", "yours truly",
	// places
	"united states", "united kingdom", "new york", "new jersey",
	"new mexico", "new hampshire", "north carolina", "south carolina",
	"north dakota", "south dakota", "west virginia", "rhode island",
	"los angeles", "las vegas", "san francisco", "san diego",
	// institutions and scam-adjacent phrases
	"social security", "internal revenue", "supreme court",
	"western union", "wells fargo", "customer service", "gift card",
	"amazon prime", "apple support", "microsoft support",
	// calendar words that pair up capitalized
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	"sunday",
}

func (s *Scrubber) findNames(text string, claimed []span) []span {
	var out []span
	for _, loc := range s.nameRE.FindAllStringIndex(text, -1) {
		if overlaps(claimed, loc[0], loc[1]) || overlaps(out, loc[0], loc[1]) {
			continue
		}
		value := text[loc[0]:loc[1]]
		if s.deniedName(value) {
			continue
		}
		out = append(out, span{
			start:       loc[0],
			end:         loc[1],
			placeholder: namePlaceholder,
			match: Match{
				Category:   CategoryFullName,
				Value:      value,
				Position:   loc[0],
				Confidence: nameConfidence,
			},
		})
	}
	return out
}

func (s *Scrubber) deniedName(phrase string) bool {
	lower := strings.ToLower(phrase)
	if s.nameDeny[lower] {
		return true
	}
	for _, w := range strings.Fields(lower) {
		if s.nameDeny[w] {
			return true
		}
	}
	return false
}

// LoadDenyListFile reads extra deny-list phrases from a file, one per line.
// Blank lines and lines starting with '#' are ignored. A missing path is not
// an error so deployments without a custom list need no file.
func LoadDenyListFile(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open deny list: %w", err)
	}
	defer f.Close()

	var phrases []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read deny list: %w", err)
	}
	return phrases, nil
}
