package detect_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/fetch"
)

type stubStrategy struct {
	name      string
	detection *detect.Detection
	err       error
	calls     int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Detect(ctx context.Context, img *fetch.Image) (*detect.Detection, error) {
	s.calls++
	return s.detection, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testImage() *fetch.Image {
	return &fetch.Image{Data: []byte("img"), MIME: "image/jpeg"}
}

func TestChainEmpty(t *testing.T) {
	chain := detect.NewChain(0, testLogger())
	if _, err := chain.Detect(context.Background(), testImage()); !errors.Is(err, detect.ErrNoStrategies) {
		t.Errorf("error = %v, want ErrNoStrategies", err)
	}
}

func TestChainFloorDefault(t *testing.T) {
	chain := detect.NewChain(0, testLogger())
	if chain.Floor() != detect.ConfidenceFloor {
		t.Errorf("Floor = %v, want %v", chain.Floor(), detect.ConfidenceFloor)
	}

	chain = detect.NewChain(0.7, testLogger())
	if chain.Floor() != 0.7 {
		t.Errorf("Floor = %v, want 0.7", chain.Floor())
	}
}

func TestChainFirstConfidentShortCircuits(t *testing.T) {
	first := &stubStrategy{
		name:      "primary",
		detection: &detect.Detection{IsFood: true, Confidence: 0.9},
	}
	second := &stubStrategy{name: "secondary"}

	chain := detect.NewChain(0.5, testLogger(), first, second)
	got, err := chain.Detect(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if got.Strategy != "primary" {
		t.Errorf("Strategy = %q, want primary", got.Strategy)
	}
	if second.calls != 0 {
		t.Errorf("secondary called %d times, want 0", second.calls)
	}
}

func TestChainDegradesOnError(t *testing.T) {
	failing := &stubStrategy{name: "broken", err: errors.New("api down")}
	working := &stubStrategy{
		name:      "fallback",
		detection: &detect.Detection{IsFood: true, Confidence: 0.8},
	}

	chain := detect.NewChain(0.5, testLogger(), failing, working)
	got, err := chain.Detect(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if got.Strategy != "fallback" {
		t.Errorf("Strategy = %q, want fallback", got.Strategy)
	}
	if failing.calls != 1 {
		t.Errorf("failing strategy called %d times, want 1", failing.calls)
	}
}

func TestChainSkipsUnavailable(t *testing.T) {
	unavailable := &stubStrategy{name: "disabled"}
	working := &stubStrategy{
		name:      "active",
		detection: &detect.Detection{IsFood: true, Confidence: 0.6},
	}

	chain := detect.NewChain(0.5, testLogger(), unavailable, working)
	got, err := chain.Detect(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if got.Strategy != "active" {
		t.Errorf("Strategy = %q, want active", got.Strategy)
	}
}

func TestChainKeepsBestBelowFloor(t *testing.T) {
	weak := &stubStrategy{
		name:      "weak",
		detection: &detect.Detection{IsFood: true, Confidence: 0.2},
	}
	better := &stubStrategy{
		name:      "better",
		detection: &detect.Detection{IsFood: true, Confidence: 0.4},
	}

	chain := detect.NewChain(0.5, testLogger(), weak, better)
	got, err := chain.Detect(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if got.Strategy != "better" {
		t.Errorf("Strategy = %q, want better (highest confidence kept)", got.Strategy)
	}
	if got.Confident(chain.Floor()) {
		t.Error("result below floor should not report confident")
	}
}

func TestChainAllUnavailable(t *testing.T) {
	chain := detect.NewChain(
		0.5, testLogger(),
		&stubStrategy{name: "one"},
		&stubStrategy{name: "two"},
	)

	got, err := chain.Detect(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if got.Strategy != "none" {
		t.Errorf("Strategy = %q, want none", got.Strategy)
	}
	if got.IsFood {
		t.Error("empty result should not report food")
	}
}

func TestDetectionConfident(t *testing.T) {
	tests := []struct {
		name string
		d    detect.Detection
		want bool
	}{
		{"food at floor", detect.Detection{IsFood: true, Confidence: 0.5}, true},
		{"food above floor", detect.Detection{IsFood: true, Confidence: 0.9}, true},
		{"food below floor", detect.Detection{IsFood: true, Confidence: 0.49}, false},
		{"not food at high confidence", detect.Detection{IsFood: false, Confidence: 0.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Confident(0.5); got != tt.want {
				t.Errorf("Confident = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidateLiquid(t *testing.T) {
	ml := 200.0
	liquid := detect.Candidate{Name: "suco", Milliliters: &ml}
	if !liquid.Liquid() {
		t.Error("candidate with milliliters should be liquid")
	}

	g := 100.0
	solid := detect.Candidate{Name: "arroz", Grams: &g}
	if solid.Liquid() {
		t.Error("candidate with grams only should not be liquid")
	}
}
