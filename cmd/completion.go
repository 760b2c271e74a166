package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xolan/tomato/internal/heatmap"
	"github.com/xolan/tomato/internal/session"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for tomato.

Completion covers commands and flags, session lengths for 'tomato start' and
the supported windows for 'tomato history --window'.

Bash:
  source <(tomato completion bash)
  tomato completion bash > ~/.local/share/bash-completion/completions/tomato

Zsh:
  tomato completion zsh > "${fpath[1]}/_tomato"

Fish:
  tomato completion fish > ~/.config/fish/completions/tomato.fish

PowerShell:
  tomato completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

// suggestedMinutes are offered when completing 'tomato start'.
var suggestedMinutes = []int{session.DefaultMinutes, 5, 15, 45, 50, 90}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func completeMinutes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(suggestedMinutes))
	for _, m := range suggestedMinutes {
		out = append(out, strconv.Itoa(m))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeWindow(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(heatmap.Windows))
	for _, w := range heatmap.Windows {
		out = append(out, fmt.Sprintf("%d\tlast %d days", w, w))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(deps.Stdout, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
		return
	}
}
