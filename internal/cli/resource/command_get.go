package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/internal/cli/common"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> [id]",
		Short: "Get one resource",
		Long:  "Get one resource by id. Singleton kinds such as company take no id.",
		Example: strings.Join([]string{
			"  soldo resource get employees EMP-1",
			"  soldo resource get company",
		}, "\n"),
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: common.KindArgCompletionFunc(catalogue()),
		RunE: func(command *cobra.Command, args []string) error {
			client, kind, err := requireClientAndKind(command.Context(), deps, globalFlags, args[0])
			if err != nil {
				return err
			}

			id := ""
			if len(args) > 1 {
				id = args[1]
			}
			item, err := client.GetItem(command.Context(), kind, id)
			if err != nil {
				return err
			}
			return writeResource(command, globalFlags.Output, item)
		},
	}
}
