package metrics

import (
	"math"
	"testing"
	"time"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(10*time.Millisecond, 1.2)
	w.Record(30*time.Millisecond, 0.8)
	snap := w.Snapshot()
	if math.Abs(snap.ExamplesPerSec-50) > 1e-9 {
		t.Fatalf("unexpected throughput %.2f", snap.ExamplesPerSec)
	}
	if math.Abs(snap.MeanSqErr-1.0) > 1e-12 {
		t.Fatalf("expected mean error 1.0, got %f", snap.MeanSqErr)
	}
	if w.examples != 0 || w.sqErr != 0 {
		t.Fatalf("window was not reset")
	}
	if empty := w.Snapshot(); empty.Examples != 0 || empty.MeanSqErr != 0 {
		t.Fatalf("unexpected empty snapshot %+v", empty)
	}
}

func TestDeciles(t *testing.T) {
	d := NewDeciles(2000)
	var hits []int
	for i := 0; i < 2000; i++ {
		if pct, ok := d.At(i); ok {
			hits = append(hits, pct)
		}
	}
	if len(hits) != 9 || hits[0] != 10 || hits[8] != 90 {
		t.Fatalf("unexpected progress points %v", hits)
	}
}

func TestDecilesSmallSet(t *testing.T) {
	d := NewDeciles(3)
	if _, ok := d.At(0); ok {
		t.Fatal("first item is never a reporting point")
	}
	if pct, ok := d.At(1); !ok || pct != 33 {
		t.Fatalf("expected 33%% at item 1, got %d %v", pct, ok)
	}
}
