package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// WriteScheduleJSON writes the schedule to w in JSON format.
func WriteScheduleJSON(w io.Writer, s model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteScheduleCSV writes the schedule to w in CSV format, one row per stage
// plus a trailing total row.
func WriteScheduleCSV(w io.Writer, s model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"stage_id", "label", "start", "finish", "duration"}); err != nil {
		return err
	}
	for _, e := range s.Entries {
		rec := []string{
			e.StageID,
			e.Label,
			strconv.FormatFloat(e.Start, 'f', -1, 64),
			strconv.FormatFloat(e.Finish, 'f', -1, 64),
			strconv.FormatFloat(e.Duration, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total", "", "", "", strconv.FormatFloat(s.TotalDuration, 'f', -1, 64)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteDecisionJSON writes the decision to w in JSON format.
func WriteDecisionJSON(w io.Writer, d model.Decision) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteDecisionCSV writes the per-site comparison of a decision to w, one
// row per evaluated site with the chosen one flagged.
func WriteDecisionCSV(w io.Writer, d model.Decision) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"site", "expected_profit", "express_cost", "mean_late_cost", "prob_on_time", "chosen"}); err != nil {
		return err
	}
	sites := make([]string, 0, len(d.SiteMetrics))
	for site := range d.SiteMetrics {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	for _, site := range sites {
		m := d.SiteMetrics[site]
		rec := []string{
			site,
			strconv.FormatFloat(m.ExpectedProfit, 'f', 2, 64),
			strconv.FormatFloat(m.ExpressCost, 'f', 2, 64),
			strconv.FormatFloat(m.MeanLateCost, 'f', 2, 64),
			strconv.FormatFloat(m.ProbOnTime, 'f', 4, 64),
			strconv.FormatBool(site == d.Site),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
