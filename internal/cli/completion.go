package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendinglol/spending/pkg/dataset"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for your shell, for example:

  source <(spending completion bash)
  spending completion zsh > "${fpath[1]}/_spending"
  spending completion fish > ~/.config/fish/completions/spending.fish
  spending completion powershell | Out-String | Invoke-Expression

Level arguments complete from the data directory, so run prefetch first.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], stdout)
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// completeLevel suggests level arguments from the data directory. It offers
// agencies until the argument names one ("agency/1125/"), then that
// agency's accounts.
func (c *CLI) completeLevel(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	// Completion runs without the root pre-run hook.
	_ = c.loadConfig(cmd, nil)

	parent := hierarchy.Key{}
	if parts := strings.Split(toComplete, "/"); len(parts) >= 3 && parts[0] == "agency" {
		parent = hierarchy.Key{AgencyID: parts[1]}
	}

	dir := dataset.NewDir(c.Config.DataDir, c.Config.FiscalYear)
	resp, err := dir.Response(context.Background(), parent)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, rec := range resp.Records(parent) {
		child, ok := parent.Child(rec.ID)
		if !ok || !rec.Navigable() || child.Validate() != nil {
			continue
		}
		if s := child.String(); strings.HasPrefix(s, toComplete) {
			out = append(out, s+"\t"+rec.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
