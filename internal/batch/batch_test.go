package batch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ltilab/internal/config"
	"github.com/san-kum/ltilab/internal/secondorder"
	"github.com/san-kum/ltilab/internal/storage"
)

const scenarioYAML = `
name: mixed
concurrency: 2
analyses:
  - name: textbook
    kind: routh
    preset: textbook
  - name: under
    preset: underdamped
    save: true
  - name: poles
    kind: poles
    numerator: [1]
    denominator: [1, 3, 2]
  - name: pid
    kind: compensate
    numerator: [1]
    denominator: [1, 0.8, 4]
    controller:
      type: PID
      kp: 4
      ki: 4
      kd: 0.4
  - name: broken
    denominator: [1, 2]
`

func quiet() *log.Logger { return log.New(io.Discard) }

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "mixed" || sc.Concurrency != 2 || len(sc.Analyses) != 5 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Analyses[1].Kind != KindAnalyze {
		t.Errorf("default kind = %q, want analyze", sc.Analyses[1].Kind)
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":       "name: nothing\n",
		"kind":        "analyses:\n  - kind: bode\n",
		"concurrency": "concurrency: -1\nanalyses:\n  - preset: critical\n",
		"yaml":        "analyses: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(data)); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestParseScenario_DefaultNames(t *testing.T) {
	sc, err := ParseScenario([]byte("analyses:\n  - kind: routh\n  - preset: critical\n"))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Analyses[0].Name != "routh-1" || sc.Analyses[1].Name != "analyze-2" {
		t.Errorf("names = %q, %q", sc.Analyses[0].Name, sc.Analyses[1].Name)
	}
}

func TestResolve(t *testing.T) {
	a := Analysis{Preset: "overdamped", Input: "ramp", Controller: &config.ControllerConfig{Type: "PD", Kp: 2}}
	cfg, err := a.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Denominator[1] != 5 {
		t.Errorf("preset not applied: %v", cfg.Denominator)
	}
	if cfg.InputType() != secondorder.Ramp {
		t.Errorf("input override lost")
	}
	if cfg.Controller.Type != "PD" {
		t.Errorf("controller override lost")
	}

	if _, err := (Analysis{Preset: "nope"}).Resolve(); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("expected ErrInvalidScenario for unknown preset, got %v", err)
	}
	if _, err := (Analysis{Loop: "sideways"}).Resolve(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRun(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir(), quiet())

	results, err := Run(context.Background(), sc, Options{Store: store, Logger: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(sc.Analyses) {
		t.Fatalf("expected %d results, got %d", len(sc.Analyses), len(results))
	}
	for i, r := range results {
		if r.Name != sc.Analyses[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, sc.Analyses[i].Name)
		}
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}

	if r := byName["textbook"]; r.Err != nil || r.Stable || !strings.Contains(r.Report, "UNSTABLE") {
		t.Errorf("textbook: stable=%v err=%v", r.Stable, r.Err)
	}
	if r := byName["under"]; r.Err != nil || !r.Stable || r.SavedID == "" {
		t.Errorf("under: stable=%v saved=%q err=%v", r.Stable, r.SavedID, r.Err)
	}
	if r := byName["poles"]; r.Err != nil || !r.Stable {
		t.Errorf("poles: stable=%v err=%v", r.Stable, r.Err)
	}
	if r := byName["pid"]; r.Err != nil || !r.Stable {
		t.Errorf("pid: stable=%v err=%v", r.Stable, r.Err)
	}
	if r := byName["broken"]; !errors.Is(r.Err, secondorder.ErrNotSecondOrder) {
		t.Errorf("broken: expected ErrNotSecondOrder, got %v", r.Err)
	}

	ok, failed := Summary(results)
	if ok != 4 || failed != 1 {
		t.Errorf("summary = %d ok, %d failed", ok, failed)
	}

	saved, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].ID != byName["under"].SavedID {
		t.Errorf("expected the one saved analysis, got %+v", saved)
	}
}

func TestRunCanceled(t *testing.T) {
	sc, err := ParseScenario([]byte("analyses:\n  - preset: critical\n  - preset: overdamped\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, sc, Options{Concurrency: 1, Logger: quiet()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
