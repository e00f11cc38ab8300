package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// completions maps each supported shell to its cobra generator.
var completions = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completions))
	for shell := range completions {
		shells = append(shells, shell)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion [bash|fish|powershell|zsh]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for hextile.

  source <(hextile completion bash)
  hextile completion zsh > "${fpath[1]}/_hextile"
  hextile completion fish > ~/.config/fish/completions/hextile.fish
  hextile completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completions[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
