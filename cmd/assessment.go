package cmd

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/assessment"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/storage"
)

// Assessment command flags.
var (
	assessmentFlagDate   string
	assessmentFlagPhotos []string
	assessmentFlagFilter string
	assessmentFlagFormat string
	assessmentFlagOutput string
)

// assessmentCmd manages postural assessments.
var assessmentCmd = &cobra.Command{
	Use:     "assessment",
	Aliases: []string{"av"},
	Short:   "Manage postural assessments",
	Long: `Record postural assessments with their photos, list them and compare
two side by side.

Examples:
  studiodesk assessment add "Ana Souza" --photo frente.jpg --photo lado.jpg
  studiodesk av list --filter ana
  studiodesk av compare 1 4`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runAssessmentList,
}

var assessmentAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Record an assessment",
	Long: `Record an assessment for a client. --date takes dd/mm/yyyy or words
like "hoje" and "ontem"; it defaults to today. Photos are png or jpg files
and are copied into the data directory.`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runAssessmentAdd,
}

var assessmentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List assessments, newest first",
	Args:    usageArgs(cobra.NoArgs),
	RunE:    runAssessmentList,
}

var assessmentShowCmd = &cobra.Command{
	Use:               "show ID",
	Short:             "Show one assessment",
	Args:              usageArgs(cobra.ExactArgs(1)),
	ValidArgsFunction: completeAssessmentID,
	RunE:              runAssessmentShow,
}

var assessmentRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Delete an assessment and its photos",
	Long: `Delete an assessment and its photos. The photos are kept in the
trash until the next delete, so 'studiodesk assessment undo' can bring
them back.`,
	Args:              usageArgs(cobra.ExactArgs(1)),
	ValidArgsFunction: completeAssessmentID,
	RunE:              runAssessmentRm,
}

var assessmentUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the last deleted assessment",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runAssessmentUndo,
}

var assessmentExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Export an assessment summary",
	Long: `Export an assessment as text or yaml. Without -o the file is named
avaliacao_ID.txt or avaliacao_ID.yaml; -o - writes to stdout.`,
	Args:              usageArgs(cobra.ExactArgs(1)),
	ValidArgsFunction: completeAssessmentID,
	RunE:              runAssessmentExport,
}

var assessmentCompareCmd = &cobra.Command{
	Use:               "compare ID_A ID_B",
	Short:             "Compare two assessments side by side",
	Args:              usageArgs(cobra.ExactArgs(2)),
	ValidArgsFunction: completeAssessmentID,
	RunE:              runAssessmentCompare,
}

var assessmentPhotoCmd = &cobra.Command{
	Use:   "photo FILE",
	Short: "Copy a stored photo out",
	Long: `Copy a stored photo, by the file name shown in 'assessment show', to
the current directory or to -o. With photos.mode remote the photo is read
from the mirror.`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runAssessmentPhoto,
}

func runAssessmentAdd(cmd *cobra.Command, args []string) error {
	a, err := ctx.Assessments.Create(cmd.Context(), assessment.CreateRequest{
		Name:   args[0],
		Date:   assessmentFlagDate,
		Photos: assessmentFlagPhotos,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAssessment("created", a)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Assessment " + strconv.Itoa(a.ID) + " recorded")
	cli.PrintAssessment(a)
	return nil
}

func runAssessmentList(cmd *cobra.Command, args []string) error {
	list, err := ctx.Assessments.List(cmd.Context(), assessmentFlagFilter)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAssessments(list)
	}
	ctx.CLIFormatter().PrintAssessments(list)
	return nil
}

func runAssessmentShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := ctx.Assessments.Show(cmd.Context(), id)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAssessment("ok", a)
	}
	ctx.CLIFormatter().PrintAssessment(a)
	return nil
}

func runAssessmentRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := ctx.Assessments.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAssessment("deleted", a)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Deleted assessment " + strconv.Itoa(a.ID) + " (" + a.Name + ", " + strconv.Itoa(len(a.Photos)) + " photos)")
	cli.Muted("Use 'studiodesk assessment undo' to restore it")
	return nil
}

func runAssessmentUndo(cmd *cobra.Command, args []string) error {
	a, err := ctx.Assessments.Undo(cmd.Context())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAssessment("restored", a)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Restored assessment " + strconv.Itoa(a.ID))
	cli.PrintAssessment(a)
	return nil
}

func runAssessmentExport(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	data, err := ctx.Assessments.Export(cmd.Context(), id, assessmentFlagFormat)
	if err != nil {
		return err
	}

	out := assessmentFlagOutput
	if out == "-" {
		_, err := ctx.Formatter.Write(data)
		return err
	}
	if out == "" {
		out = assessment.FileName(id, assessmentFlagFormat)
	}
	if err := storage.SafeWrite(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": "exported", "file": out, "id": id})
	}
	ctx.CLIFormatter().Success("Saved " + out)
	return nil
}

func runAssessmentCompare(cmd *cobra.Command, args []string) error {
	left, err := parseID(args[0])
	if err != nil {
		return err
	}
	right, err := parseID(args[1])
	if err != nil {
		return err
	}
	cmp, err := ctx.Assessments.Compare(cmd.Context(), left, right)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintComparison(cmp)
	}
	ctx.CLIFormatter().PrintComparison(cmp)
	return nil
}

func runAssessmentPhoto(cmd *cobra.Command, args []string) error {
	name := args[0]
	data, err := ctx.Photos.Open(cmd.Context(), name)
	if err != nil {
		return err
	}

	out := assessmentFlagOutput
	if out == "" {
		out = filepath.Base(name)
	}
	if err := storage.SafeWrite(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": "exported", "file": out, "bytes": len(data)})
	}
	ctx.CLIFormatter().Success("Saved " + out)
	return nil
}

func init() {
	assessmentAddCmd.Flags().StringVar(&assessmentFlagDate, "date", "",
		"Assessment date (default today)")
	assessmentAddCmd.Flags().StringArrayVarP(&assessmentFlagPhotos, "photo", "p", nil,
		"Photo file, repeatable")
	_ = assessmentAddCmd.RegisterFlagCompletionFunc("photo", completePhotoExt)

	assessmentListCmd.Flags().StringVar(&assessmentFlagFilter, "filter", "",
		"Only names containing this text")
	assessmentCmd.Flags().StringVar(&assessmentFlagFilter, "filter", "",
		"Only names containing this text")

	assessmentExportCmd.Flags().StringVar(&assessmentFlagFormat, "format", assessment.FormatText,
		"Export format: text, yaml")
	assessmentExportCmd.Flags().StringVarP(&assessmentFlagOutput, "output", "o", "",
		"Output file, - for stdout")
	assessmentPhotoCmd.Flags().StringVarP(&assessmentFlagOutput, "output", "o", "",
		"Output file")

	assessmentCmd.AddCommand(assessmentAddCmd)
	assessmentCmd.AddCommand(assessmentListCmd)
	assessmentCmd.AddCommand(assessmentShowCmd)
	assessmentCmd.AddCommand(assessmentRmCmd)
	assessmentCmd.AddCommand(assessmentUndoCmd)
	assessmentCmd.AddCommand(assessmentExportCmd)
	assessmentCmd.AddCommand(assessmentCompareCmd)
	assessmentCmd.AddCommand(assessmentPhotoCmd)
	rootCmd.AddCommand(assessmentCmd)
}
