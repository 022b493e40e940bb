package observability

import "testing"

func TestScanWindowPercentiles(t *testing.T) {
	w := newScanWindow(100)
	for i := 1; i <= 10; i++ {
		w.Observe(StageTotal, float64(i))
	}

	snap := w.Snapshot()
	if len(snap.Stages) != 1 {
		t.Fatalf("Stages = %+v", snap.Stages)
	}
	st := snap.Stages[0]
	if st.Stage != StageTotal || st.Samples != 10 {
		t.Fatalf("stage = %+v", st)
	}
	if st.LastMS != 10 {
		t.Errorf("LastMS = %v", st.LastMS)
	}
	if st.AvgMS != 5.5 {
		t.Errorf("AvgMS = %v", st.AvgMS)
	}
	if st.P50MS != 5.5 {
		t.Errorf("P50MS = %v", st.P50MS)
	}
	if st.P95MS != 9.55 {
		t.Errorf("P95MS = %v", st.P95MS)
	}
	if st.TargetP95MS != 25 {
		t.Errorf("TargetP95MS = %v", st.TargetP95MS)
	}
}

func TestScanWindowRingOverwrite(t *testing.T) {
	w := newScanWindow(4)
	for i := 0; i < 8; i++ {
		w.Observe(StageScrub, 100)
	}
	w.Observe(StageScrub, 1)

	snap := w.Snapshot()
	st := snap.Stages[0]
	if st.Samples != 4 {
		t.Fatalf("Samples = %d, want window size", st.Samples)
	}
	if st.LastMS != 1 {
		t.Fatalf("LastMS = %v", st.LastMS)
	}
}

func TestScanWindowIgnoresInvalid(t *testing.T) {
	w := newScanWindow(10)
	w.Observe("", 5)
	w.Observe(StageScore, -1)
	w.ObserveOutcome("  ")

	snap := w.Snapshot()
	if len(snap.Stages) != 0 || len(snap.Outcomes) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestScanWindowOutcomes(t *testing.T) {
	w := newScanWindow(10)
	w.ObserveOutcome("blocked")
	w.ObserveOutcome("critical")
	w.ObserveOutcome("blocked")

	snap := w.Snapshot()
	if len(snap.Outcomes) != 2 {
		t.Fatalf("Outcomes = %+v", snap.Outcomes)
	}
	// Sorted by name.
	if snap.Outcomes[0].Outcome != "blocked" || snap.Outcomes[0].Count != 2 {
		t.Fatalf("Outcomes[0] = %+v", snap.Outcomes[0])
	}
	if snap.Outcomes[1].Outcome != "critical" || snap.Outcomes[1].Count != 1 {
		t.Fatalf("Outcomes[1] = %+v", snap.Outcomes[1])
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if q := quantile(nil, 0.5); q != 0 {
		t.Errorf("quantile(nil) = %v", q)
	}
	one := []float64{7}
	if q := quantile(one, 0.95); q != 7 {
		t.Errorf("quantile(single, 0.95) = %v", q)
	}
	two := []float64{1, 3}
	if q := quantile(two, 0.5); q != 2 {
		t.Errorf("quantile(two, 0.5) = %v", q)
	}
}
