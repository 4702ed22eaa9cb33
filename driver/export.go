package driver

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// jsonFloat marshals NaN/Inf as JSON null, since encoding/json rejects
// non-finite floats outright and an undefined kappa is represented as NaN.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// ExportFormat selects the output encoding for LearningCurve.Export.
type ExportFormat uint8

const (
	ExportCSV ExportFormat = iota
	ExportTSV
	ExportJSON
)

// fixed column order: export is lossless for these five fields; extras
// may be omitted or serialized as a nested object depending on format.
var columns = []string{"instances_seen", "accuracy", "kappa", "ram_hours", "seconds"}

// Export writes the curve in the requested format. CSV and TSV carry only
// the five fixed columns; JSON additionally nests each snapshot's extras
// under an "extras" key.
func (c *LearningCurve) Export(w io.Writer, format ExportFormat) error {
	switch format {
	case ExportCSV:
		return c.exportDelimited(w, ',')
	case ExportTSV:
		return c.exportDelimited(w, '\t')
	case ExportJSON:
		return c.exportJSON(w)
	default:
		return fmt.Errorf("driver: unknown export format %d", format)
	}
}

func (c *LearningCurve) exportDelimited(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	defer cw.Flush()

	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, s := range c.Snapshots {
		row := []string{
			strconv.FormatInt(s.InstancesSeen, 10),
			strconv.FormatFloat(s.Accuracy, 'g', -1, 64),
			strconv.FormatFloat(s.Kappa, 'g', -1, 64),
			strconv.FormatFloat(s.RAMHours, 'g', -1, 64),
			strconv.FormatFloat(s.Seconds, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

type jsonSnapshot struct {
	InstancesSeen int64                `json:"instances_seen"`
	Accuracy      jsonFloat            `json:"accuracy"`
	Kappa         jsonFloat            `json:"kappa"`
	RAMHours      jsonFloat            `json:"ram_hours"`
	Seconds       jsonFloat            `json:"seconds"`
	Extras        map[string]jsonFloat `json:"extras,omitempty"`
}

func (c *LearningCurve) exportJSON(w io.Writer) error {
	out := make([]jsonSnapshot, len(c.Snapshots))
	for i, s := range c.Snapshots {
		var extras map[string]jsonFloat
		if len(s.Extras) > 0 {
			extras = make(map[string]jsonFloat, len(s.Extras))
			for k, v := range s.Extras {
				extras[k] = jsonFloat(v)
			}
		}
		out[i] = jsonSnapshot{
			InstancesSeen: s.InstancesSeen,
			Accuracy:      jsonFloat(s.Accuracy),
			Kappa:         jsonFloat(s.Kappa),
			RAMHours:      jsonFloat(s.RAMHours),
			Seconds:       jsonFloat(s.Seconds),
			Extras:        extras,
		}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
