package prep

import (
	"errors"
	"math"
	"os"
	"runtime"
	"testing"

	"github.com/showerlab/jetlh/internal/align"
	"github.com/showerlab/jetlh/internal/shape"
)

func TestLoadConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfig("testdata/config.yaml", &cfg); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	expected := Config{
		Window:     2.5,
		MHard:      98,
		MinLeaves:  3,
		MaxLeaves:  40,
		GroupSize:  10,
		Weight:     0.5,
		StartLevel: 1,
		InnerCount: shape.ExcludeLastSplit,
		Recompute:  align.RecomputeAll,
		BeamSelect: KeepRaw,
		TCut:       4,
		Dij:        true,
	}
	if cfg != expected {
		t.Errorf("config = %+v, want %+v", cfg, expected)
	}
	if opts := cfg.LikelihoodOptions(); len(opts) != 2 {
		t.Errorf("got %d likelihood options, want 2", len(opts))
	}
	eval := cfg.EvaluateOptions()
	if eval.Align.Window != 2.5 || eval.Align.Recompute != align.RecomputeAll || eval.GroupSize != 10 {
		t.Errorf("evaluate options = %+v", eval)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		name        string
		file        string
		expectedErr error
	}{
		{name: "missing", file: "testdata/none.yaml", expectedErr: os.ErrNotExist},
		{name: "bad yaml", file: "testdata/bad.yaml", expectedErr: ErrInvalidConfig},
		{name: "negative window", file: "testdata/negative-window.yaml", expectedErr: ErrInvalidConfig},
		{name: "bad mode", file: "testdata/bad-mode.yaml", expectedErr: ErrInvalidConfig},
		{name: "bad group size", file: "testdata/bad-group.yaml", expectedErr: ErrTypeOutRange},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := LoadConfig(test.file, &cfg); !errors.Is(err, test.expectedErr) {
				t.Fatalf("expected %v, got %v", test.expectedErr, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %s", err)
	}
	if !math.IsInf(float64(cfg.Window), 1) {
		t.Errorf("default window = %s, want +Inf", cfg.Window)
	}
	if err := LoadConfig("testdata/inf-window.yaml", &cfg); err != nil || !math.IsInf(float64(cfg.Window), 1) {
		t.Errorf("window .inf = %s, %v", cfg.Window, err)
	}
	if len(cfg.LikelihoodOptions()) != 0 {
		t.Error("default config should not set likelihood options")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{name: "negative hard mass", modify: func(cfg *Config) { cfg.MHard = -1 }},
		{name: "negative min leaves", modify: func(cfg *Config) { cfg.MinLeaves = -1 }},
		{name: "max below min", modify: func(cfg *Config) { cfg.MinLeaves, cfg.MaxLeaves = 5, 3 }},
		{name: "zero group size", modify: func(cfg *Config) { cfg.GroupSize = 0 }},
		{name: "negative start level", modify: func(cfg *Config) { cfg.StartLevel = -2 }},
		{name: "negative t_cut", modify: func(cfg *Config) { cfg.TCut = -1 }},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrTypeOutRange) {
				t.Fatalf("expected %v, got %v", ErrTypeOutRange, err)
			}
		})
	}
}

func TestOptionValues(t *testing.T) {
	var w Window
	if err := w.Set("1.5"); err != nil || w != 1.5 || w.String() != "1.5" {
		t.Errorf("Window.Set(1.5) = %v, %s", err, w)
	}
	if err := w.Set("-1"); !errors.Is(err, ErrTypeOutRange) {
		t.Errorf("expected %v, got %v", ErrTypeOutRange, err)
	}
	if err := w.Set("wide"); err == nil {
		t.Error("expected error for non-numeric window")
	}
	var b BeamSelect
	if err := b.Set("raw"); err != nil || b != KeepRaw || b.String() != "raw" {
		t.Errorf("BeamSelect.Set(raw) = %v, %s", err, b)
	}
	if err := b.Set("all"); err == nil {
		t.Error("expected error for invalid beam selection")
	}
}

func TestSetNProcs(t *testing.T) {
	maxProcs := runtime.GOMAXPROCS(0)
	testCases := []struct {
		nprocs   int
		expected int
	}{
		{0, maxProcs},
		{-4, maxProcs},
		{maxProcs + 1, maxProcs},
		{1, 1},
	}
	for _, test := range testCases {
		if got := SetNProcs(test.nprocs); got != test.expected {
			t.Errorf("SetNProcs(%d) = %d, want %d", test.nprocs, got, test.expected)
		}
	}
}
