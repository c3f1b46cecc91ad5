package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// scrape fetches the collector's /metrics output.
func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	return string(body)
}

func TestObserveRound(t *testing.T) {
	c := NewCollector()

	snap := spreading.Snapshot{
		Round:      1,
		Majorities: []rumor.Code{rumor.Truth, rumor.Lie, rumor.Truth, rumor.Truth},
		HasOpinion: []bool{true, true, false, true},
		Entropies:  []float64{0, 1, 0, 0.5},
		AvgEntropy: 0.375,
		Broadcasts: 3,
		Mutations:  1,
		Accepts:    5,
	}
	c.ObserveRound(snap, 2*time.Millisecond)
	c.ObserveRound(snap, 2*time.Millisecond)

	body := scrape(t, c)
	for _, want := range []string{
		"rumorsim_rounds_total 2",
		"rumorsim_broadcasts_total 6",
		"rumorsim_mutations_total 2",
		"rumorsim_accepts_total 10",
		"rumorsim_avg_entropy_bits 0.375",
		"rumorsim_opinionated_fraction 0.75",
		"rumorsim_round_duration_seconds_count 2",
		"rumorsim_uptime_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestSetBuildInfo(t *testing.T) {
	c := NewCollector()
	c.SetBuildInfo("1.2.3", "abc123")

	body := scrape(t, c)
	want := `rumorsim_build_info{commit="abc123",version="1.2.3"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	// All methods must be safe on a nil receiver.
	c.ObserveRound(spreading.Snapshot{}, time.Millisecond)
	c.SetBuildInfo("dev", "none")
	if c.Handler() == nil {
		t.Error("Handler() on nil collector = nil, want a handler")
	}
}
