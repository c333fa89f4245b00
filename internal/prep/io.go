package prep

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/showerlab/jetlh/internal/align"
	"github.com/showerlab/jetlh/internal/evaluate"
	"github.com/showerlab/jetlh/internal/jet"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
	ErrWritingFile   = errors.New("error writing file")
)

type Inputs struct {
	Truth  jet.Collection
	Greedy jet.Collection
	Beam   jet.Collection
}

// Reads in and validates the truth, greedy and beam search collections.
// Each file holds a JSON list of sets of jets; the beam search file may hold
// a list of candidates in place of every jet.
func ReadInputFiles(truthFile, greedyFile, beamFile string, sel BeamSelect) (*Inputs, error) {
	truth, err := ReadCollection(truthFile)
	if err != nil {
		return nil, err
	}
	greedy, err := ReadCollection(greedyFile)
	if err != nil {
		return nil, err
	}
	beam, err := readBeamFile(beamFile, sel)
	if err != nil {
		return nil, err
	}
	log.Printf("read %d truth, %d greedy and %d beam search jets\n", truth.Len(), greedy.Len(), beam.Len())
	return &Inputs{Truth: truth, Greedy: greedy, Beam: beam}, nil
}

// Reads and validates a collection file
func ReadCollection(file string) (jet.Collection, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}
	var c jet.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w, error parsing jets from %s: %s", ErrInvalidFormat, file, err.Error())
	}
	if err := validate(c, file); err != nil {
		return nil, err
	}
	return c, nil
}

func readBeamFile(file string, sel BeamSelect) (jet.Collection, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}
	var c jet.Collection
	errJets := json.Unmarshal(data, &c)
	if errJets == nil {
		return c, validate(c, file)
	}
	if sel == KeepRaw {
		return nil, fmt.Errorf("%w, error parsing jets from %s: %s", ErrInvalidFormat, file, errJets.Error())
	}
	var candidates [][][]*jet.Jet
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("%w, %s holds neither jets nor candidate lists: %s",
			ErrInvalidFormat, file, errJets.Error())
	}
	c = make(jet.Collection, len(candidates))
	for k, set := range candidates {
		c[k] = make(jet.Set, len(set))
		for i, cands := range set {
			if len(cands) == 0 {
				return nil, fmt.Errorf("%w, set %d jet %d in %s has no candidates", ErrInvalidFile, k, i, file)
			}
			c[k][i] = cands[0]
		}
	}
	return c, validate(c, file)
}

func readFile(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading jet file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w, empty jet file %s", ErrInvalidFile, file)
	}
	return data, nil
}

func validate(c jet.Collection, file string) error {
	for k, set := range c {
		for i, j := range set {
			if j == nil {
				return fmt.Errorf("%w, set %d jet %d in %s is null", ErrInvalidFile, k, i, file)
			}
			if err := j.Validate(); err != nil {
				return fmt.Errorf("%w, set %d jet %d in %s: %w", ErrInvalidFile, k, i, file, err)
			}
		}
	}
	return nil
}

// Writes the collection as JSON
func WriteCollection(c jet.Collection, w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("%w, %s", ErrWritingFile, err)
	}
	return nil
}

// Write per-algorithm statistics csv to writer.
//
// Columns: "algorithm", "jets", "failures", "mean logLH", "sigma", "stat sigma"
func WriteSummaryCSV(report *evaluate.Report, w io.Writer) error {
	data := [][]string{{"algorithm", "jets", "failures", "mean logLH", "sigma", "stat sigma"}}
	for _, ar := range report.Algorithms {
		data = append(data, []string{
			ar.Algorithm.String(),
			strconv.Itoa(len(ar.Summary.LogLH)),
			strconv.Itoa(ar.Failures),
			formatFloat(ar.MeanLogLH),
			formatFloat(ar.Summary.Sigma),
			formatFloat(ar.Summary.StatSigma),
		})
	}
	return writeCSV(data, w)
}

// Write per-jet log likelihood sums of the kept triples to writer
func WriteJetScoresCSV(res *align.Result, w io.Writer) error {
	data := [][]string{{"set", "jet", "truth", "greedy", "beam"}}
	for k := range res.Index {
		for i, idx := range res.Index[k] {
			data = append(data, []string{
				strconv.Itoa(k),
				strconv.Itoa(idx),
				formatFloat(res.Truth[k][i].SumLogLH),
				formatFloat(res.Greedy[k][i].SumLogLH),
				formatFloat(res.Beam[k][i].SumLogLH),
			})
		}
	}
	return writeCSV(data, w)
}

// Write mean structural descriptors per algorithm to writer
func WriteDescriptorsCSV(report *evaluate.Report, w io.Writer) error {
	data := [][]string{{
		"algorithm", "subjet imbalance", "tree imbalance", "phi delta rel", "root phi delta rel",
		"delta root", "subjet min", "subjet max",
	}}
	for _, ar := range report.Algorithms {
		m := ar.Descriptors.Means()
		data = append(data, []string{
			ar.Algorithm.String(),
			formatFloat(m.SubjetImbalance),
			formatFloat(m.TreeImbalance),
			formatFloat(m.PhiDeltaRel),
			formatFloat(m.RootPhiDeltaRel),
			formatFloat(m.DeltaRoot),
			formatFloat(m.SubjetMin),
			formatFloat(m.SubjetMax),
		})
	}
	return writeCSV(data, w)
}

// Write the dij entries of every algorithm to writer. "split" rows hold every
// internal node, "root" rows the root split of each jet. Algorithms without
// dij values are skipped.
//
// Columns: "algorithm", "split", "logLH", "dij -1", "dij 0", "dij 1"
func WriteDijCSV(report *evaluate.Report, w io.Writer) error {
	data := [][]string{{"algorithm", "split", "logLH", "dij -1", "dij 0", "dij 1"}}
	for _, ar := range report.Algorithms {
		for _, rows := range []struct {
			kind string
			dij  []jet.Dij
		}{{"split", ar.Descriptors.Dij}, {"root", ar.Descriptors.DijRoots}} {
			for _, d := range rows.dij {
				data = append(data, []string{
					ar.Algorithm.String(),
					rows.kind,
					formatFloat(d.LogLH),
					formatFloat(d.Values[0]),
					formatFloat(d.Values[1]),
					formatFloat(d.Values[2]),
				})
			}
		}
	}
	return writeCSV(data, w)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeCSV(data [][]string, w io.Writer) (err error) {
	writer := csv.NewWriter(w)
	defer func() {
		writer.Flush()
		if err == nil {
			err = writer.Error()
		} else if writer.Error() != nil {
			log.Printf("error when flushing output csv, %s", writer.Error())
		}
	}()
	if err = writer.WriteAll(data); err != nil {
		err = fmt.Errorf("%w, %s", ErrWritingFile, err)
		return
	}
	return
}
