package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for familytree.

To load completions:

Bash:
  $ source <(familytree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ familytree completion bash > /etc/bash_completion.d/familytree
  # macOS:
  $ familytree completion bash > $(brew --prefix)/etc/bash_completion.d/familytree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ familytree completion zsh > "${fpath[1]}/_familytree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ familytree completion fish | source

  # To load completions for each session, execute once:
  $ familytree completion fish > ~/.config/fish/completions/familytree.fish

PowerShell:
  PS> familytree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> familytree completion powershell > familytree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out.w)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out.w)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out.w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out.w)
			}
			return nil
		},
	}

	return cmd
}
