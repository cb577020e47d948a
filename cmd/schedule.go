package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
	"github.com/MathiasVDS1/ProjectManagement/pkg/export"
)

var (
	scheduleSite     string
	scheduleMissing  []string
	scheduleExpedite []string
	scheduleFormat   string
	scheduleOutput   string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Build the expected production timeline for a site",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSite, "site", "", "production site")
	scheduleCmd.Flags().StringSliceVar(&scheduleMissing, "missing", nil, "missing component ids")
	scheduleCmd.Flags().StringSliceVar(&scheduleExpedite, "expedite", nil, "expedited stage and component ids")
	scheduleCmd.Flags().StringVar(&scheduleFormat, "format", "table", "output format: json, csv or table")
	scheduleCmd.Flags().StringVar(&scheduleOutput, "output", "", "write the result to this file instead of stdout")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	pl, err := buildPlanner()
	if err != nil {
		return err
	}
	s, err := pl.BuildSchedule(model.ScheduleRequest{
		Site:     scheduleSite,
		Missing:  scheduleMissing,
		Expedite: scheduleExpedite,
	})
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd, scheduleOutput)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck

	switch scheduleFormat {
	case "json":
		return export.WriteScheduleJSON(w, s)
	case "csv":
		return export.WriteScheduleCSV(w, s)
	case "table":
		return writeScheduleTable(w, s)
	default:
		return fmt.Errorf("unknown format %q", scheduleFormat)
	}
}

func writeScheduleTable(w io.Writer, s model.Schedule) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "stage\tlabel\tstart\tfinish\tduration\n")
	for _, e := range s.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\n", e.StageID, e.Label, e.Start, e.Finish, e.Duration)
	}
	fmt.Fprintf(tw, "total\t\t\t\t%.2f\n", s.TotalDuration)
	return tw.Flush()
}
