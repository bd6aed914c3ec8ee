// This software is a derivative work based on Zeit (https://github.com/mrusme/zeit)
// Original work copyright (c) マリウス (mrusme)
// Modifications copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.
package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/photo"
	"github.com/manav03panchal/studiodesk/internal/runtime"
)

// completionCmd writes a shell completion script to stdout.
var completionCmd = &cobra.Command{
	Use:   "completion bash|zsh|fish|powershell",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for your shell.

Besides commands and flags, the scripts complete studio data:
  schedule add      weekday names (segunda..sábado)
  schedule rm       agenda ids, shown with day and slot
  av show|rm|...    assessment ids, shown with client and date
  av add --photo    image files only

Ids are read from the data directory when you press TAB. Nothing is
offered while another command holds the data lock or when an access key
is configured and not supplied by --key or STUDIODESK_KEY.

Bash:
  $ source <(studiodesk completion bash)
  $ studiodesk completion bash > /etc/bash_completion.d/studiodesk

Zsh:
  $ studiodesk completion zsh > "${fpath[1]}/_studiodesk"

Fish:
  $ studiodesk completion fish > ~/.config/fish/completions/studiodesk.fish

PowerShell:
  PS> studiodesk completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
	Annotations:           noRuntime(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

// completeDay completes the weekday argument of schedule add.
func completeDay(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, d := range model.Week {
		if strings.HasPrefix(string(d), toComplete) {
			completions = append(completions, string(d)+"\t"+d.Label())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeEntryID completes agenda ids.
func completeEntryID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	completions := withCompletionRuntime(func(rc *runtime.Context) []string {
		week, err := rc.Schedule.Load(cmd.Context())
		if err != nil {
			return nil
		}
		var out []string
		for _, e := range week.Entries() {
			id := strconv.Itoa(e.ID)
			if strings.HasPrefix(id, toComplete) {
				out = append(out, id+"\t"+e.Day.Label()+" "+e.Line())
			}
		}
		return out
	})
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeAssessmentID completes assessment ids with the client name.
func completeAssessmentID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := withCompletionRuntime(func(rc *runtime.Context) []string {
		list, err := rc.Assessments.List(cmd.Context(), "")
		if err != nil {
			return nil
		}
		return assessmentCompletions(list, toComplete)
	})
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func assessmentCompletions(list []model.Assessment, toComplete string) []string {
	var out []string
	for _, a := range list {
		id := strconv.Itoa(a.ID)
		if strings.HasPrefix(id, toComplete) {
			out = append(out, id+"\t"+a.Name+" "+a.DateString())
		}
	}
	return out
}

// completePhotoExt limits --photo completion to image files.
func completePhotoExt(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	exts := make([]string, len(photo.Extensions))
	for i, ext := range photo.Extensions {
		exts[i] = strings.TrimPrefix(ext, ".")
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}

// withCompletionRuntime runs fn on a short-lived runtime for dynamic
// completions. Nothing is offered when the data is locked or guarded by
// an access key.
func withCompletionRuntime(fn func(rc *runtime.Context) []string) []string {
	opts := runtime.DefaultOptions()
	opts.ConfigFile = flagConfig
	opts.DataDir = flagDataDir

	rc, err := runtime.New(opts)
	if err != nil {
		return nil
	}
	defer rc.Close()

	if !rc.Gate.Open() {
		return nil
	}
	return fn(rc)
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
