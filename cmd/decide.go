package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/pkg/export"
)

var (
	decideService  string
	decideSite     string
	decideMissing  []string
	decideExpedite []string
	decideStrategy string
	decideTrials   int
	decideFormat   string
	decideOutput   string
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run one expedite decision",
	RunE:  runDecide,
}

func init() {
	decideCmd.Flags().StringVar(&decideService, "service", "normal", "service level: normal or express")
	decideCmd.Flags().StringVar(&decideSite, "site", model.SiteAuto, "production site, or auto to compare all")
	decideCmd.Flags().StringArrayVar(&decideMissing, "missing", nil, "missing component ids, SITE=ID,ID or ID,ID with a fixed site (repeatable)")
	decideCmd.Flags().StringSliceVar(&decideExpedite, "expedite", nil, "evaluate exactly this expedite set instead of optimizing")
	decideCmd.Flags().StringVar(&decideStrategy, "strategy", "", "search strategy: exhaustive, greedy or auto")
	decideCmd.Flags().IntVar(&decideTrials, "trials", 0, "Monte Carlo trials, 0 uses the configured default")
	decideCmd.Flags().StringVar(&decideFormat, "format", "table", "output format: json, csv or table")
	decideCmd.Flags().StringVar(&decideOutput, "output", "", "write the result to this file instead of stdout")
	rootCmd.AddCommand(decideCmd)
}

func runDecide(cmd *cobra.Command, args []string) error {
	pl, err := buildPlanner()
	if err != nil {
		return err
	}
	missing, err := parseMissing(decideMissing, decideSite)
	if err != nil {
		return err
	}

	d, err := pl.Decide(context.Background(), model.DecisionRequest{
		Service:  model.Service(decideService),
		Site:     decideSite,
		Missing:  missing,
		Expedite: decideExpedite,
		Trials:   decideTrials,
		Strategy: decideStrategy,
	})
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd, decideOutput)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	switch decideFormat {
	case "json":
		return export.WriteDecisionJSON(w, d)
	case "csv":
		return export.WriteDecisionCSV(w, d)
	case "table":
		return writeDecisionTable(w, d)
	default:
		return fmt.Errorf("unknown format %q", decideFormat)
	}
}

// parseMissing turns repeated SITE=ID,ID entries into the per-site map.
// Entries without a site prefix require a concrete --site.
func parseMissing(entries []string, site string) (map[string][]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	missing := make(map[string][]string)
	for _, e := range entries {
		if k, v, ok := strings.Cut(e, "="); ok {
			missing[k] = append(missing[k], splitIDs(v)...)
			continue
		}
		if site == "" || site == model.SiteAuto {
			return nil, fmt.Errorf("missing entry %q needs a SITE= prefix when the site is auto", e)
		}
		missing[site] = append(missing[site], splitIDs(e)...)
	}
	return missing, nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeDecisionTable(w io.Writer, d model.Decision) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "decision\t%s\n", d.ID)
	fmt.Fprintf(tw, "service\t%s\n", d.Service)
	fmt.Fprintf(tw, "site\t%s\n", d.Site)
	fmt.Fprintf(tw, "strategy\t%s\n", d.Strategy)
	fmt.Fprintf(tw, "expedite\t%s\n", joinOrDash(d.Expedite))
	fmt.Fprintf(tw, "expected profit\t%.2f\n", d.Metrics.ExpectedProfit)
	fmt.Fprintf(tw, "express cost\t%.2f\n", d.Metrics.ExpressCost)
	fmt.Fprintf(tw, "mean late cost\t%.2f\n", d.Metrics.MeanLateCost)
	fmt.Fprintf(tw, "on-time probability\t%.4f\n", d.Metrics.ProbOnTime)
	if len(d.SiteMetrics) > 1 {
		fmt.Fprintf(tw, "\nsite\tprofit\ton-time\n")
		for _, site := range sortedSites(d.SiteMetrics) {
			m := d.SiteMetrics[site]
			fmt.Fprintf(tw, "%s\t%.2f\t%.4f\n", site, m.ExpectedProfit, m.ProbOnTime)
		}
	}
	return tw.Flush()
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}

func sortedSites(m map[string]model.Metrics) []string {
	sites := make([]string, 0, len(m))
	for s := range m {
		sites = append(sites, s)
	}
	sort.Strings(sites)
	return sites
}
