// Package analysis is the caller-facing entry point of the local scam
// pipeline: scrub first, refuse outright when a hard-blocked category is
// present, otherwise score the scrubbed text and merge both outcomes.
package analysis

import (
	"time"

	"github.com/scamshield-app/scamshield/internal/pii"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

// DefaultHardBlockCategories is the shipped transmission-blocking policy:
// identity and card numbers never leave the local scrubbing boundary, even
// redacted. The set is explicit configuration so it can be audited and
// tested apart from the detection logic.
var DefaultHardBlockCategories = []pii.Category{
	pii.CategorySSN,
	pii.CategoryCreditCard,
}

// StageObserver receives per-stage wall times ("scrub", "score"). It must
// be safe for concurrent use; the analyzer itself stays stateless.
type StageObserver func(stage string, d time.Duration)

// Stage names passed to a StageObserver.
const (
	StageScrub = "scrub"
	StageScore = "score"
)

// Config adjusts orchestration policy.
type Config struct {
	// HardBlockCategories overrides DefaultHardBlockCategories when non-nil.
	HardBlockCategories []pii.Category

	// Observer, when set, is called with the duration of each pipeline
	// stage. Used by the service for quick-scan latency tracking.
	Observer StageObserver
}

// Result is the combined outcome handed to the UI or backend glue. When
// Blocked is true the scorer never ran and Assessment is nil; that is a
// terminal user-visible refusal, not an error to retry.
type Result struct {
	CleanText         string              `json:"clean_text"`
	PIIDetected       bool                `json:"pii_detected"`
	FoundPII          []pii.Match         `json:"found_pii,omitempty"`
	PIIRiskLevel      pii.RiskLevel       `json:"pii_risk_level"`
	Blocked           bool                `json:"blocked"`
	BlockedCategories []pii.Category      `json:"blocked_categories,omitempty"`
	Assessment        *scoring.Assessment `json:"assessment,omitempty"`
}

// Analyzer wires the scrubber and scorer behind a single synchronous call.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	scrubber  *pii.Scrubber
	scorer    *scoring.Scorer
	hardBlock map[pii.Category]bool
	observe   StageObserver
}

func New(scrubber *pii.Scrubber, scorer *scoring.Scorer, cfg Config) *Analyzer {
	cats := cfg.HardBlockCategories
	if cats == nil {
		cats = DefaultHardBlockCategories
	}
	hb := make(map[pii.Category]bool, len(cats))
	for _, c := range cats {
		hb[c] = true
	}
	return &Analyzer{scrubber: scrubber, scorer: scorer, hardBlock: hb, observe: cfg.Observer}
}

func (a *Analyzer) observeStage(stage string, start time.Time) {
	if a.observe != nil {
		a.observe(stage, time.Since(start))
	}
}

// HardBlocks reports whether a category is in the active blocking policy.
func (a *Analyzer) HardBlocks(c pii.Category) bool { return a.hardBlock[c] }

// Analyze runs the full pipeline on raw user input. The scorer only ever
// sees the scrubbed text, so no PII can be echoed into reasons or forwarded
// to a remote classifier by the caller.
func (a *Analyzer) Analyze(rawInput string, channel scoring.Channel) Result {
	return a.AnalyzeWithSender(rawInput, channel, "")
}

// AnalyzeWithSender additionally feeds a sender identifier hint to the
// scorer. The hint itself is scrubbed before use in case a caller pastes
// PII into the sender field.
func (a *Analyzer) AnalyzeWithSender(rawInput string, channel scoring.Channel, senderHint string) Result {
	scrubStart := time.Now()
	scrubbed := a.scrubber.Scrub(rawInput)
	a.observeStage(StageScrub, scrubStart)

	blocked := a.blockedCategories(scrubbed)
	res := Result{
		CleanText:         scrubbed.CleanText,
		PIIDetected:       scrubbed.PIIDetected,
		FoundPII:          a.sanitizeMatches(scrubbed.FoundPII),
		PIIRiskLevel:      scrubbed.RiskLevel,
		Blocked:           len(blocked) > 0,
		BlockedCategories: blocked,
	}
	if res.Blocked {
		return res
	}

	hint := senderHint
	if hint != "" {
		hint = a.scrubber.Scrub(hint).CleanText
	}
	scoreStart := time.Now()
	assessment := a.scorer.ScoreText(scrubbed.CleanText, channel, hint)
	a.observeStage(StageScore, scoreStart)
	res.Assessment = &assessment
	return res
}

// Scrub exposes the scrub-only path for callers that preview clean text
// without scoring.
func (a *Analyzer) Scrub(text string) pii.ScrubResult {
	return a.scrubber.Scrub(text)
}

// ScorePhoneNumber exposes the bare-number pre-screen.
func (a *Analyzer) ScorePhoneNumber(number string, blocklist scoring.Blocklist) scoring.Assessment {
	return a.scorer.ScorePhoneNumber(number, blocklist)
}

func (a *Analyzer) blockedCategories(r pii.ScrubResult) []pii.Category {
	var out []pii.Category
	for _, c := range r.Categories() {
		if a.hardBlock[c] {
			out = append(out, c)
		}
	}
	return out
}

// sanitizeMatches strips the raw span value from matches in hard-blocked
// categories so the combined result never carries the sensitive substring,
// while keeping positions for caller-side highlighting.
func (a *Analyzer) sanitizeMatches(found []pii.Match) []pii.Match {
	if len(found) == 0 {
		return nil
	}
	out := make([]pii.Match, len(found))
	copy(out, found)
	for i := range out {
		if a.hardBlock[out[i].Category] {
			out[i].Value = ""
		}
	}
	return out
}
