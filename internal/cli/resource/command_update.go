package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/internal/cli/common"
)

func newUpdateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update <kind> <id>",
		Short: "Update a resource",
		Long: strings.Join([]string{
			"Update a remote resource with the attributes of the payload.",
			"Only attributes the kind allows to update are sent; other keys are dropped.",
		}, " "),
		Example: strings.Join([]string{
			"  soldo resource update employees EMP-1 --payload employee.json",
			"  echo '{\"status\":\"ACTIVE\"}' | soldo resource update expense-centres EC-1 --payload -",
		}, "\n"),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.KindArgCompletionFunc(catalogue()),
		RunE: func(command *cobra.Command, args []string) error {
			data, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			payload, err := common.DecodeValue(data, input.Format)
			if err != nil {
				return err
			}

			client, kind, err := requireClientAndKind(command.Context(), deps, globalFlags, args[0])
			if err != nil {
				return err
			}
			item, err := client.UpdateItem(command.Context(), kind, args[1], payload)
			if err != nil {
				return err
			}
			return writeResource(command, globalFlags.Output, item)
		},
	}

	common.BindInputFlags(command, &input)
	return command
}
