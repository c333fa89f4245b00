// Package handling run configuration and the input/output boundary of the
// jet likelihood engine: option values, YAML configuration files, JSON jet
// collections and CSV reports.
package prep

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/showerlab/jetlh/internal/align"
	"github.com/showerlab/jetlh/internal/evaluate"
	"github.com/showerlab/jetlh/internal/likelihood"
	"github.com/showerlab/jetlh/internal/shape"
)

var (
	ErrTypeOutRange  = errors.New("out of type range")
	ErrInvalidConfig = errors.New("invalid config file")
)

// Half width of the root delta window, non-negative (may be +Inf)
type Window float64

func (w *Window) Set(s string) error {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("window \"%s\" is not a number", s)
	}
	if n < 0 || math.IsNaN(n) {
		return fmt.Errorf("window %f is %w", n, ErrTypeOutRange)
	}
	*w = Window(n)
	return nil
}

func (w Window) String() string {
	return strconv.FormatFloat(float64(w), 'f', -1, 64)
}

// How beam search inputs holding candidate lists are reduced to one jet
type BeamSelect int

const (
	SelectBest BeamSelect = iota // first candidate of each list
	KeepRaw                      // input must hold single jets
)

var ParseBeamSelect = map[string]BeamSelect{
	"best": SelectBest,
	"raw":  KeepRaw,
}

func (b *BeamSelect) Set(s string) error {
	if sel, ok := ParseBeamSelect[s]; ok {
		*b = sel
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid beam search selection", s)
}

func (b BeamSelect) String() string {
	for s, sel := range ParseBeamSelect {
		if sel == b {
			return s
		}
	}
	panic(fmt.Sprintf("beam search selection (%d) does not exist", b))
}

// Per-invocation configuration
type Config struct {
	Window     Window
	MHard      float64 // 0 takes the truth jet's M_Hard
	MinLeaves  int
	MaxLeaves  int // 0 is unbounded
	GroupSize  int
	Weight     float64 // level decay of the tree imbalance
	StartLevel int
	InnerCount shape.InnerCount
	Recompute  align.Mode
	BeamSelect BeamSelect
	TCut       float64 // 0 uses each jet's pt_cut
	Dij        bool
	NProcs     int
}

func DefaultConfig() Config {
	return Config{
		Window:     Window(math.Inf(1)),
		MinLeaves:  2,
		GroupSize:  50,
		Weight:     1,
		InnerCount: shape.AllInner,
		Recompute:  align.ReuseStored,
		BeamSelect: SelectBest,
	}
}

// YAML file layout; absent keys keep the current value
type configFile struct {
	Window     *float64 `yaml:"window"`
	MHard      *float64 `yaml:"m_hard"`
	MinLeaves  *int     `yaml:"min_leaves"`
	MaxLeaves  *int     `yaml:"max_leaves"`
	GroupSize  *int     `yaml:"group_size"`
	Weight     *float64 `yaml:"imbalance_weight"`
	StartLevel *int     `yaml:"start_level"`
	InnerCount *string  `yaml:"inner_count"`
	Recompute  *string  `yaml:"recompute"`
	BeamSelect *string  `yaml:"beam_select"`
	TCut       *float64 `yaml:"t_cut"`
	Dij        *bool    `yaml:"dij"`
	NProcs     *int     `yaml:"nprocs"`
}

// Reads a YAML config file over cfg
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w, error parsing %s: %s", ErrInvalidConfig, path, err.Error())
	}
	if f.Window != nil {
		if err := cfg.Window.Set(strconv.FormatFloat(*f.Window, 'g', -1, 64)); err != nil {
			return fmt.Errorf("%w, %s", ErrInvalidConfig, err)
		}
	}
	setIf(&cfg.MHard, f.MHard)
	setIf(&cfg.MinLeaves, f.MinLeaves)
	setIf(&cfg.MaxLeaves, f.MaxLeaves)
	setIf(&cfg.GroupSize, f.GroupSize)
	setIf(&cfg.Weight, f.Weight)
	setIf(&cfg.StartLevel, f.StartLevel)
	setIf(&cfg.TCut, f.TCut)
	setIf(&cfg.Dij, f.Dij)
	setIf(&cfg.NProcs, f.NProcs)
	values := []struct {
		s   *string
		val interface{ Set(string) error }
	}{
		{f.InnerCount, &cfg.InnerCount},
		{f.Recompute, &cfg.Recompute},
		{f.BeamSelect, &cfg.BeamSelect},
	}
	for _, v := range values {
		if v.s == nil {
			continue
		}
		if err := v.val.Set(*v.s); err != nil {
			return fmt.Errorf("%w, %s", ErrInvalidConfig, err)
		}
	}
	return cfg.Validate()
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Range checks values that have no dedicated type
func (cfg Config) Validate() error {
	switch {
	case cfg.MHard < 0:
		return fmt.Errorf("hard mass %f is %w", cfg.MHard, ErrTypeOutRange)
	case cfg.MinLeaves < 0:
		return fmt.Errorf("minimum leaves %d is %w", cfg.MinLeaves, ErrTypeOutRange)
	case cfg.MaxLeaves < 0 || (cfg.MaxLeaves != 0 && cfg.MaxLeaves < cfg.MinLeaves):
		return fmt.Errorf("maximum leaves %d is %w", cfg.MaxLeaves, ErrTypeOutRange)
	case cfg.GroupSize <= 0:
		return fmt.Errorf("group size %d is %w", cfg.GroupSize, ErrTypeOutRange)
	case cfg.StartLevel < 0:
		return fmt.Errorf("start level %d is %w", cfg.StartLevel, ErrTypeOutRange)
	case cfg.TCut < 0:
		return fmt.Errorf("t_cut %f is %w", cfg.TCut, ErrTypeOutRange)
	}
	return nil
}

// Likelihood options implied by the config
func (cfg Config) LikelihoodOptions() []likelihood.Option {
	var opts []likelihood.Option
	if cfg.TCut > 0 {
		opts = append(opts, likelihood.WithTCut(cfg.TCut))
	}
	if cfg.Dij {
		opts = append(opts, likelihood.WithDij())
	}
	return opts
}

func (cfg Config) EvaluateOptions() evaluate.Options {
	return evaluate.Options{
		Align: align.Config{
			Window:    float64(cfg.Window),
			MHard:     cfg.MHard,
			MinLeaves: cfg.MinLeaves,
			MaxLeaves: cfg.MaxLeaves,
			Recompute: cfg.Recompute,
			LH:        cfg.LikelihoodOptions(),
		},
		GroupSize:  cfg.GroupSize,
		Weight:     cfg.Weight,
		StartLevel: cfg.StartLevel,
		InnerCount: cfg.InnerCount,
		NProcs:     cfg.NProcs,
	}
}

// Clamps the number of parallel processes to what is available
func SetNProcs(nprocs int) int {
	maxProcs := runtime.GOMAXPROCS(0)
	switch {
	case nprocs > maxProcs:
		log.Printf("%d is greater than available processes (%d); limit set to %d\n", nprocs, maxProcs, maxProcs)
		return maxProcs
	case nprocs <= 0:
		log.Printf("number of processes not set; defaulting to %d processes\n", maxProcs)
		return maxProcs
	default:
		return nprocs
	}
}
