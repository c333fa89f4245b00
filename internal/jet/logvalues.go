package jet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// LogValues are log likelihoods that may hold -Inf. JSON has no literal for
// infinities, so they are written as the strings "-inf", "inf" and "nan";
// numbers are read as usual.
type LogValues []float64

func (lv LogValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range lv {
		if i > 0 {
			buf.WriteByte(',')
		}
		switch {
		case math.IsInf(v, -1):
			buf.WriteString(`"-inf"`)
		case math.IsInf(v, 1):
			buf.WriteString(`"inf"`)
		case math.IsNaN(v):
			buf.WriteString(`"nan"`)
		default:
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (lv *LogValues) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	vals := make(LogValues, len(raw))
	for i, r := range raw {
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
			v, err := parseSpecial(s)
			if err != nil {
				return err
			}
			vals[i] = v
			continue
		}
		if err := json.Unmarshal(r, &vals[i]); err != nil {
			return err
		}
	}
	*lv = vals
	return nil
}

func parseSpecial(s string) (float64, error) {
	switch s {
	case "-inf", "-Infinity":
		return math.Inf(-1), nil
	case "inf", "Infinity":
		return math.Inf(1), nil
	case "nan", "NaN":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid log likelihood value %q", s)
	}
	return v, nil
}

func (d Dij) MarshalJSON() ([]byte, error) {
	return LogValues{d.LogLH, d.Values[0], d.Values[1], d.Values[2]}.MarshalJSON()
}

func (d *Dij) UnmarshalJSON(data []byte) error {
	var lv LogValues
	if err := lv.UnmarshalJSON(data); err != nil {
		return err
	}
	if len(lv) != 4 {
		return fmt.Errorf("dij entry has %d values, want 4", len(lv))
	}
	d.LogLH = lv[0]
	copy(d.Values[:], lv[1:])
	return nil
}
