package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for stagger and write it to stdout.

Load it for the current shell:

  bash:        source <(stagger completion bash)
  zsh:         source <(stagger completion zsh)
  fish:        stagger completion fish | source
  powershell:  stagger completion powershell | Out-String | Invoke-Expression

To load it in every session, write the script to your shell's completion
directory instead, for example:

  stagger completion bash > /etc/bash_completion.d/stagger
  stagger completion zsh > "${fpath[1]}/_stagger"
  stagger completion fish > ~/.config/fish/completions/stagger.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.stdout, true)
			case "zsh":
				return root.GenZshCompletion(c.stdout)
			case "fish":
				return root.GenFishCompletion(c.stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.stdout)
			}
		},
	}
}
