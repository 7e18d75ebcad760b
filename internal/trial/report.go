package trial

import (
	"driftwood/internal/format"
)

// Table renders the report as a per-trial table with an accuracy footer.
func (r *Report) Table(mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("#", "Seed", "Variants", "Ops", "Skips", "Violations", "Mismatches", "Pass", "Time")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, MaxWidth: 40},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
		format.ColumnConfig{Number: 6, Align: format.AlignRight},
		format.ColumnConfig{Number: 7, Align: format.AlignRight},
		format.ColumnConfig{Number: 8, Align: format.AlignCenter},
		format.ColumnConfig{Number: 9, Align: format.AlignRight},
	)
	for _, res := range r.Results {
		mark := format.BoolMark(res.Pass)
		if res.Err != "" {
			mark = "ERR"
		}
		tb.Row(
			res.Seq,
			res.Seed,
			res.VariantsLabel(),
			len(res.Plan),
			len(res.Skips),
			res.Violations,
			res.Mismatches,
			mark,
			format.FmtDuration(res.Duration),
		)
	}
	tb.Footer("", "", r.Scenario+" / "+r.Planner, "", "", "", "", format.FmtPercent(r.Accuracy()), "")
	return tb.String()
}
