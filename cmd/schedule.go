package cmd

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/report"
	"github.com/manav03panchal/studiodesk/internal/schedule"
	"github.com/manav03panchal/studiodesk/internal/storage"
	"github.com/manav03panchal/studiodesk/internal/tui"
)

// Schedule command flags.
var (
	scheduleFlagDuration int
	scheduleFlagOutput   string
)

// scheduleCmd shows and changes the weekly agenda.
var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"agenda"},
	Short:   "Show the weekly agenda",
	Long: `Show the weekly agenda, segunda to sábado, each day sorted by time.

Examples:
  studiodesk schedule
  studiodesk agenda --format plain`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runScheduleShow,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add DAY TIME CLIENT PROFESSIONAL",
	Short: "Book a slot",
	Long: `Book a slot on the weekly agenda.

DAY is a weekday name (segunda, terça, ..., sábado; short and English
names work too). TIME accepts 8h, 8h30, 08:30 or 8.

Examples:
  studiodesk schedule add segunda 8h00 "Ana Souza" Carla
  studiodesk schedule add qua 18:30 "João" Carla --duration 55`,
	Args:              usageArgs(cobra.ExactArgs(4)),
	ValidArgsFunction: completeDay,
	RunE:              runScheduleAdd,
}

var scheduleRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Remove a slot",
	Long: `Remove a slot by id. The remaining slots are renumbered from 1.
'studiodesk schedule undo' books the removed slot again.`,
	Args:              usageArgs(cobra.ExactArgs(1)),
	ValidArgsFunction: completeEntryID,
	RunE:              runScheduleRm,
}

var scheduleUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Book the last removed slot again",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runScheduleUndo,
}

var scheduleRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Clean the agenda file and report what was dropped",
	Long: `Load the agenda, drop rows without a day, time or name, fix
times, renumber ids when needed and save the result.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runScheduleRepair,
}

var schedulePDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export the week as a PDF sheet",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runSchedulePDF,
}

var scheduleTUICmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the week interactively",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), ctx.Schedule)
	},
}

func runScheduleShow(cmd *cobra.Command, args []string) error {
	week, err := ctx.Schedule.Load(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintWeek(week)
	}
	ctx.CLIFormatter().PrintWeek(week)
	return nil
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	entry, err := ctx.Schedule.Book(cmd.Context(), schedule.BookRequest{
		Day:          args[0],
		Time:         args[1],
		Client:       args[2],
		Professional: args[3],
		Duration:     scheduleFlagDuration,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEntry("booked", entry)
	}
	ctx.CLIFormatter().PrintEntry("Booked", entry)
	return nil
}

func runScheduleRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	entry, err := ctx.Schedule.Remove(cmd.Context(), id)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEntry("removed", entry)
	}
	cli := ctx.CLIFormatter()
	cli.PrintEntry("Removed", entry)
	cli.Muted("Use 'studiodesk schedule undo' to book it again")
	return nil
}

func runScheduleUndo(cmd *cobra.Command, args []string) error {
	entry, err := ctx.Schedule.Undo(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEntry("restored", entry)
	}
	ctx.CLIFormatter().PrintEntry("Restored", entry)
	return nil
}

func runScheduleRepair(cmd *cobra.Command, args []string) error {
	week, err := ctx.Schedule.Load(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRepair(week)
	}
	ctx.CLIFormatter().PrintRepair(week)
	return nil
}

func runSchedulePDF(cmd *cobra.Command, args []string) error {
	week, err := ctx.Schedule.Load(cmd.Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.PDF(&buf, week, ctx.Config.Report.Title); err != nil {
		return err
	}
	if err := storage.SafeWrite(scheduleFlagOutput, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", scheduleFlagOutput)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status":  "exported",
			"file":    scheduleFlagOutput,
			"entries": week.Count(),
		})
	}
	ctx.CLIFormatter().Success("Saved " + scheduleFlagOutput)
	return nil
}

// parseID reads a positive numeric id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, errors.NewUserErrorWithField("id", s,
			"Invalid id",
			"Ids are positive whole numbers, as listed by 'studiodesk schedule'")
	}
	return id, nil
}

func init() {
	scheduleAddCmd.Flags().IntVarP(&scheduleFlagDuration, "duration", "d", 45,
		"Class length in minutes (10-180, multiple of 5)")
	schedulePDFCmd.Flags().StringVarP(&scheduleFlagOutput, "output", "o", report.DefaultFile,
		"Output file")

	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleRmCmd)
	scheduleCmd.AddCommand(scheduleUndoCmd)
	scheduleCmd.AddCommand(scheduleRepairCmd)
	scheduleCmd.AddCommand(schedulePDFCmd)
	scheduleCmd.AddCommand(scheduleTUICmd)
	rootCmd.AddCommand(scheduleCmd)
}
