package resource

import (
	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/internal/cli/common"
)

func newRelationshipCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var jq string

	command := &cobra.Command{
		Use:               "relationship <kind> <id> <name>",
		Aliases:           []string{"rel"},
		Short:             "List the resources related to a resource",
		Example:           "  soldo resource relationship cards CARD-1 rules",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: common.KindArgCompletionFunc(catalogue()),
		RunE: func(command *cobra.Command, args []string) error {
			client, kind, err := requireClientAndKind(command.Context(), deps, globalFlags, args[0])
			if err != nil {
				return err
			}
			items, err := client.GetRelationship(command.Context(), kind, args[1], args[2])
			if err != nil {
				return err
			}
			if jq != "" && len(items) > 0 {
				items, err = client.Registry().Filter(items[0].KindName(), items, jq)
				if err != nil {
					return err
				}
			}
			return writeResources(command, globalFlags.Output, items)
		},
	}

	command.Flags().StringVar(&jq, "jq", "", "jq expression applied to the list of related items")
	return command
}
