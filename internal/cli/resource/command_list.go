package resource

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/internal/cli/common"
	"github.com/crmarques/soldo/resource"
	"github.com/crmarques/soldo/soldo"
)

type listFlags struct {
	page     int
	pageSize int
	all      bool
	jq       string
	query    []string
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags listFlags

	command := &cobra.Command{
		Use:   "list <kind>",
		Short: "List resources of a kind",
		Example: strings.Join([]string{
			"  soldo resource list employees",
			"  soldo resource list cards --all --jq 'map(select(.status == \"ACTIVE\"))'",
			"  soldo resource list transactions --query type=wallet --page 2 --page-size 50",
		}, "\n"),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.KindArgCompletionFunc(catalogue()),
		RunE: func(command *cobra.Command, args []string) error {
			if flags.all && command.Flags().Changed("page") {
				return common.ValidationError("flag --page cannot be combined with --all", nil)
			}
			if flags.page < 0 || flags.pageSize < 0 {
				return common.ValidationError("flags --page and --page-size must not be negative", nil)
			}
			query, err := parseQuery(flags.query)
			if err != nil {
				return err
			}

			client, kind, err := requireClientAndKind(command.Context(), deps, globalFlags, args[0])
			if err != nil {
				return err
			}

			var items []*resource.Resource
			if flags.all {
				items, err = client.GetAllItems(command.Context(), kind, soldo.Page(query, 0, flags.pageSize))
				if err != nil {
					return err
				}
				items, err = client.Registry().Filter(kind, items, flags.jq)
				if err != nil {
					return err
				}
			} else {
				collection, err := client.GetCollection(command.Context(), kind, soldo.Page(query, flags.page, flags.pageSize))
				if err != nil {
					return err
				}
				items, err = collection.Filter(flags.jq)
				if err != nil {
					return err
				}
				if common.IsVerbose(globalFlags) {
					_, _ = fmt.Fprintf(
						command.ErrOrStderr(),
						"page %d of %d, %d of %d %s items\n",
						collection.CurrentPage()+1,
						collection.Pages(),
						collection.ResultsSize(),
						collection.Total(),
						kind,
					)
				}
			}

			return writeResources(command, globalFlags.Output, items)
		},
	}

	command.Flags().IntVar(&flags.page, "page", 0, "zero-based page to fetch")
	command.Flags().IntVar(&flags.pageSize, "page-size", 0, "items per page (server default when 0)")
	command.Flags().BoolVarP(&flags.all, "all", "a", false, "fetch every page")
	command.Flags().StringVar(&flags.jq, "jq", "", "jq expression applied to the list of items")
	command.Flags().StringArrayVarP(&flags.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	return command
}

func parseQuery(values []string) (url.Values, error) {
	query := url.Values{}
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, common.ValidationError(fmt.Sprintf("invalid query %q: expected key=value", raw), nil)
		}
		if key == soldo.QueryPage || key == soldo.QueryPageSize {
			return nil, common.ValidationError(fmt.Sprintf("query key %q is reserved: use --page or --page-size", key), nil)
		}
		query.Add(key, value)
	}
	return query, nil
}
