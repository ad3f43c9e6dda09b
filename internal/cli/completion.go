package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/pkg/pipeline"
)

// completionCommand creates the completion command for shell scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `Generate a shell completion script for blocktree.

  bash:        source <(blocktree completion bash)
  zsh:         blocktree completion zsh > "${fpath[1]}/_blocktree"
  fish:        blocktree completion fish | source
  powershell:  blocktree completion powershell | Out-String | Invoke-Expression

Export formats are completed for -f, including after a comma.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFormats completes the comma-separated --format list, offering
// only the formats not yet given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, partial = toComplete[:i+1], toComplete[i+1:]
	}
	given := map[string]bool{}
	for _, f := range strings.Split(prefix, ",") {
		given[f] = true
	}
	var out []string
	for _, f := range pipeline.FormatNames() {
		if !given[f] && strings.HasPrefix(f, partial) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
