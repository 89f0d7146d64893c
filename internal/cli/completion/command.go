package completion

import (
	"io"

	"github.com/spf13/cobra"
)

var generators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error {
		return root.GenBashCompletionV2(w, true)
	},
	"zsh": func(root *cobra.Command, w io.Writer) error {
		return root.GenZshCompletion(w)
	},
	"fish": func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Args:  cobra.NoArgs,
	}
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		command.AddCommand(newShellCommand(shell))
	}
	return command
}

func newShellCommand(shell string) *cobra.Command {
	generate := generators[shell]
	return &cobra.Command{
		Use:   shell,
		Short: "Generate " + shell + " completion",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return generate(command.Root(), command.OutOrStdout())
		},
	}
}
