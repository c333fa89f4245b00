/*
jetlh scores jet trees under the invariant-mass splitting model and compares
truth, greedy and beam search reconstructions of the same jets.

usage: jetlh [ flags ] <command> <truth> <greedy> <beam>
       jetlh [ flags ] enrich <jets>

commands:

	score		likelihood statistics of the jets kept by the selection cuts
	inspect		structural descriptors and newick topologies of the kept jets
	enrich		attach deltas and log likelihoods to a jet collection

positional arguments:

	<truth>		truth jets (json)
	<greedy>	greedy reconstructions of the truth jets (json)
	<beam>		beam search reconstructions, single jets or candidate lists (json)
	<jets>		jets to enrich (json)

flags:

	-b selection
	  	beam search candidate selection [ best | raw ] (default "best")
	-c file
	  	yaml config file, flags given on the command line take precedence
	-d	also compute dij values of every split (enrich, inspect)
	-e float
	  	level decay of the tree imbalance (default 1)
	-g int
	  	jets per group for the ensemble spread (default 50)
	-h	prints this message and exits
	-i mode
	  	tree imbalance inner node count [ all | exclude-last ] (default "all")
	-j	also print the log likelihood sum of every kept jet (score)
	-L int
	  	maximum number of truth leaves, 0 for no limit
	-l int
	  	minimum number of truth leaves (default 2)
	-m float
	  	hard process mass, 0 takes it from each truth jet
	-n int
	  	number of parallel processes
	-r mode
	  	greedy and beam search log likelihoods [ reuse | recompute ] (default "reuse")
	-s int
	  	level of the root for the tree imbalance
	-t float
	  	t_cut used instead of each jet's pt_cut
	-v	prints version number and exits
	-w width
	  	half width of the root delta window around M_Hard/2 (default +Inf)

examples:

	  score command example:
		jetlh -w 1 -g 10 score truth.json greedy.json beam.json > summary.csv 2> log.txt

	  enrich command example:
		jetlh enrich greedy.json > greedy-enriched.json 2> log.txt
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/showerlab/jetlh/internal/evaluate"
	"github.com/showerlab/jetlh/internal/likelihood"
	pr "github.com/showerlab/jetlh/internal/prep"
)

const (
	Version    = "v0.3.0"
	ErrMessage = "jetlh encountered an error ::"

	Score Command = iota
	Inspect
	Enrich
)

type Command int

var parseCommand = map[string]Command{
	"score":   Score,
	"inspect": Inspect,
	"enrich":  Enrich,
}

type args struct {
	command   Command
	files     []string // input jet files
	cfg       pr.Config
	jetScores bool // print per-jet sums
}

func parseArgs() args {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr,
			"usage: jetlh [ flags ] <command> <truth> <greedy> <beam>\n",
			"       jetlh [ flags ] enrich <jets>\n",
			"\n",
			"commands:\n\n",
			"  score\t\tlikelihood statistics of the jets kept by the selection cuts\n",
			"  inspect\tstructural descriptors and newick topologies of the kept jets\n",
			"  enrich\tattach deltas and log likelihoods to a jet collection\n",
			"\n",
			"positional arguments:\n\n",
			"  <truth>\ttruth jets (json)\n",
			"  <greedy>\tgreedy reconstructions of the truth jets (json)\n",
			"  <beam>\tbeam search reconstructions, single jets or candidate lists (json)\n",
			"  <jets>\tjets to enrich (json)\n",
			"\n",
			"flags:\n\n",
		)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr,
			"\n",
			"examples:\n\n",
			"  score command example:\n",
			"\tjetlh -w 1 -g 10 score truth.json greedy.json beam.json > summary.csv 2> log.txt\n\n",
			"  enrich command example:\n",
			"\tjetlh enrich greedy.json > greedy-enriched.json 2> log.txt\n",
		)
	}
	cfg := pr.DefaultConfig()
	flag.Var(&cfg.Window, "w", "half `width` of the root delta window around M_Hard/2")
	flag.Var(&cfg.BeamSelect, "b", "beam search candidate `selection` [ best | raw ]")
	flag.Var(&cfg.Recompute, "r", "greedy and beam search log likelihoods `mode` [ reuse | recompute ]")
	flag.Var(&cfg.InnerCount, "i", "tree imbalance inner node count `mode` [ all | exclude-last ]")
	flag.Float64Var(&cfg.MHard, "m", cfg.MHard, "hard process mass, 0 takes it from each truth jet")
	flag.IntVar(&cfg.MinLeaves, "l", cfg.MinLeaves, "minimum number of truth leaves")
	flag.IntVar(&cfg.MaxLeaves, "L", cfg.MaxLeaves, "maximum number of truth leaves, 0 for no limit")
	flag.IntVar(&cfg.GroupSize, "g", cfg.GroupSize, "jets per group for the ensemble spread")
	flag.Float64Var(&cfg.Weight, "e", cfg.Weight, "level decay of the tree imbalance")
	flag.IntVar(&cfg.StartLevel, "s", cfg.StartLevel, "level of the root for the tree imbalance")
	flag.Float64Var(&cfg.TCut, "t", cfg.TCut, "t_cut used instead of each jet's pt_cut")
	flag.BoolVar(&cfg.Dij, "d", cfg.Dij, "also compute dij values of every split (enrich, inspect)")
	flag.IntVar(&cfg.NProcs, "n", cfg.NProcs, "number of parallel processes")
	configFile := flag.String("c", "", "yaml config `file`, flags given on the command line take precedence")
	jetScores := flag.Bool("j", false, "also print the log likelihood sum of every kept jet (score)")
	help := flag.Bool("h", false, "prints this message and exits")
	ver := flag.Bool("v", false, "prints version number and exits")
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *ver {
		fmt.Printf("jetlh version %s\n", Version)
		os.Exit(0)
	}
	if flag.NArg() < 1 {
		parserError("a command is required: \"score\", \"inspect\" or \"enrich\"")
	}
	cmd, ok := parseCommand[flag.Arg(0)]
	if !ok {
		parserError(fmt.Sprintf("\"%s\" is not a valid command: \"score\", \"inspect\" or \"enrich\" required", flag.Arg(0)))
	}
	switch {
	case cmd == Enrich && flag.NArg() != 2:
		parserError("two positional arguments required: enrich <jets>")
	case cmd != Enrich && flag.NArg() != 4:
		parserError("four positional arguments required: <command> <truth> <greedy> <beam>")
	}
	if *configFile != "" {
		var err error
		if cfg, err = withConfigFile(*configFile, cfg); err != nil {
			parserError(err.Error())
		}
	}
	if err := cfg.Validate(); err != nil {
		parserError(err.Error())
	}
	cfg.NProcs = pr.SetNProcs(cfg.NProcs)
	return args{
		command:   cmd,
		files:     flag.Args()[1:],
		cfg:       cfg,
		jetScores: *jetScores,
	}
}

// Loads the config file over the defaults, then reapplies the flags that
// were set on the command line.
func withConfigFile(file string, flags pr.Config) (pr.Config, error) {
	cfg := pr.DefaultConfig()
	if err := pr.LoadConfig(file, &cfg); err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.Window = flags.Window
		case "b":
			cfg.BeamSelect = flags.BeamSelect
		case "r":
			cfg.Recompute = flags.Recompute
		case "i":
			cfg.InnerCount = flags.InnerCount
		case "m":
			cfg.MHard = flags.MHard
		case "l":
			cfg.MinLeaves = flags.MinLeaves
		case "L":
			cfg.MaxLeaves = flags.MaxLeaves
		case "g":
			cfg.GroupSize = flags.GroupSize
		case "e":
			cfg.Weight = flags.Weight
		case "s":
			cfg.StartLevel = flags.StartLevel
		case "t":
			cfg.TCut = flags.TCut
		case "d":
			cfg.Dij = flags.Dij
		case "n":
			cfg.NProcs = flags.NProcs
		}
	})
	return cfg, nil
}

// prints message, usage, and exits (status code 1)
func parserError(message string) {
	fmt.Fprintln(os.Stderr, message)
	flag.Usage()
	os.Exit(1)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("jetlh version %s", Version)
	args := parseArgs()
	ctx := context.Background()
	if args.command == Enrich {
		log.Println("running enrich...")
		c, err := pr.ReadCollection(args.files[0])
		if err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		if err := likelihood.EnrichCollection(ctx, c, args.cfg.NProcs, args.cfg.LikelihoodOptions()...); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		if err := pr.WriteCollection(c, os.Stdout); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		return
	}
	inputs, err := pr.ReadInputFiles(args.files[0], args.files[1], args.files[2], args.cfg.BeamSelect)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	report, err := evaluate.Run(ctx, inputs.Truth, inputs.Greedy, inputs.Beam, args.cfg.EvaluateOptions())
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	switch args.command {
	case Score:
		log.Println("running score...")
		if err := pr.WriteSummaryCSV(report, os.Stdout); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		if args.jetScores {
			fmt.Println()
			if err := pr.WriteJetScoresCSV(report.Alignment, os.Stdout); err != nil {
				log.Fatalf("%s %s\n", ErrMessage, err)
			}
		}
	case Inspect:
		log.Println("running inspect...")
		if err := pr.WriteDescriptorsCSV(report, os.Stdout); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
		if args.cfg.Dij {
			fmt.Println()
			if err := pr.WriteDijCSV(report, os.Stdout); err != nil {
				log.Fatalf("%s %s\n", ErrMessage, err)
			}
		}
		if err := printTopologies(report); err != nil {
			log.Fatalf("%s %s\n", ErrMessage, err)
		}
	default:
		panic(fmt.Sprintf("invalid command (%d)", args.command))
	}
}

// Prints the newick topology of the first kept jet of every algorithm
func printTopologies(report *evaluate.Report) error {
	for _, ar := range report.Algorithms {
		jets := ar.Jets.Flatten()
		if len(jets) == 0 {
			continue
		}
		nwk, err := jets[0].Newick()
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", ar.Algorithm, nwk)
	}
	return nil
}
