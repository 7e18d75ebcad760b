package trial

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"seq", "seed", "variants", "plan", "skips",
	"pass", "violations", "mismatches", "error", "duration_ms",
}

// WriteCSV streams the report to w, one trial per row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		row := []string{
			strconv.Itoa(res.Seq),
			strconv.FormatInt(res.Seed, 10),
			res.VariantsLabel(),
			res.PlanJSON(),
			strconv.Itoa(len(res.Skips)),
			strconv.FormatBool(res.Pass),
			strconv.Itoa(res.Violations),
			strconv.Itoa(res.Mismatches),
			res.Err,
			strconv.FormatInt(res.Duration.Milliseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
