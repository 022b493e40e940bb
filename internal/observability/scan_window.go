package observability

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Pipeline stage names recorded into the rolling window.
const (
	StageScrub = "scrub"
	StageScore = "score"
	StageTotal = "total"
)

type ScanStageStats struct {
	Stage       string  `json:"stage"`
	Samples     int     `json:"samples"`
	LastMS      float64 `json:"last_ms"`
	AvgMS       float64 `json:"avg_ms"`
	P50MS       float64 `json:"p50_ms"`
	P95MS       float64 `json:"p95_ms"`
	P99MS       float64 `json:"p99_ms"`
	TargetP95MS float64 `json:"target_p95_ms,omitempty"`
}

type ScanOutcome struct {
	Outcome string `json:"outcome"`
	Count   int    `json:"count"`
}

type ScanSnapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	WindowSize  int              `json:"window_size"`
	Stages      []ScanStageStats `json:"stages"`
	Outcomes    []ScanOutcome    `json:"outcomes,omitempty"`
}

// scanWindow keeps a fixed-size ring of recent per-stage latencies so the
// quick-scan perf endpoint can answer without touching Prometheus state.
type scanWindow struct {
	mu         sync.RWMutex
	maxSamples int
	stages     map[string]*stageBuffer
	outcomes   map[string]int
}

type stageBuffer struct {
	values []float64
	next   int
	filled bool
	last   float64
}

func newScanWindow(maxSamples int) *scanWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &scanWindow{
		maxSamples: maxSamples,
		stages:     make(map[string]*stageBuffer),
		outcomes:   make(map[string]int),
	}
}

func (w *scanWindow) Observe(stage string, ms float64) {
	if stage == "" || ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, ok := w.stages[stage]
	if !ok {
		buf = &stageBuffer{values: make([]float64, w.maxSamples)}
		w.stages[stage] = buf
	}
	buf.values[buf.next] = ms
	buf.last = ms
	buf.next++
	if buf.next >= len(buf.values) {
		buf.next = 0
		buf.filled = true
	}
}

func (w *scanWindow) ObserveOutcome(outcome string) {
	outcome = strings.TrimSpace(outcome)
	if outcome == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outcomes[outcome]++
}

func (w *scanWindow) Snapshot() ScanSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	keys := make([]string, 0, len(w.stages))
	for stage := range w.stages {
		keys = append(keys, stage)
	}
	sort.Strings(keys)

	stages := make([]ScanStageStats, 0, len(keys))
	for _, stage := range keys {
		buf := w.stages[stage]
		n := buf.next
		if buf.filled {
			n = len(buf.values)
		}
		if n <= 0 {
			continue
		}
		samples := make([]float64, n)
		copy(samples, buf.values[:n])
		sort.Float64s(samples)

		sum := 0.0
		for _, v := range samples {
			sum += v
		}

		stages = append(stages, ScanStageStats{
			Stage:       stage,
			Samples:     n,
			LastMS:      round2(buf.last),
			AvgMS:       round2(sum / float64(n)),
			P50MS:       round2(quantile(samples, 0.50)),
			P95MS:       round2(quantile(samples, 0.95)),
			P99MS:       round2(quantile(samples, 0.99)),
			TargetP95MS: stageTargetP95MS(stage),
		})
	}

	outcomeKeys := make([]string, 0, len(w.outcomes))
	for name := range w.outcomes {
		outcomeKeys = append(outcomeKeys, name)
	}
	sort.Strings(outcomeKeys)
	outcomes := make([]ScanOutcome, 0, len(outcomeKeys))
	for _, name := range outcomeKeys {
		outcomes = append(outcomes, ScanOutcome{Outcome: name, Count: w.outcomes[name]})
	}

	return ScanSnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  w.maxSamples,
		Stages:      stages,
		Outcomes:    outcomes,
	}
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// stageTargetP95MS is the quick-scan latency budget per stage. The UI calls
// scoring synchronously and expects instant results, so budgets are tight.
func stageTargetP95MS(stage string) float64 {
	switch stage {
	case StageScrub:
		return 10
	case StageScore:
		return 10
	case StageTotal:
		return 25
	default:
		return 0
	}
}
