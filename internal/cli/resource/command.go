package resource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/crmarques/soldo/internal/cli/common"
	"github.com/crmarques/soldo/resource"
	"github.com/crmarques/soldo/soldo"
)

var summaryAttributes = []string{"name", "email", "masked_pan", "description", "status"}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:     "resource",
		Aliases: []string{"res"},
		Short:   "Read and update Soldo resources",
		Args:    cobra.NoArgs,
	}

	command.AddCommand(
		newKindsCommand(globalFlags),
		newListCommand(deps, globalFlags),
		newGetCommand(deps, globalFlags),
		newUpdateCommand(deps, globalFlags),
		newRelationshipCommand(deps, globalFlags),
	)
	return command
}

// catalogue backs kind resolution and completion before any client exists.
func catalogue() *resource.Registry {
	registry, err := soldo.NewRegistry()
	if err != nil {
		return nil
	}
	return registry
}

func newKindsCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List resource kinds",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			registry := catalogue()
			items := make([]kindInfo, 0, len(registry.Names()))
			for _, name := range registry.Names() {
				kind, _ := registry.Kind(name)
				items = append(items, kindInfo{
					Name:      kind.Name,
					BasePath:  kind.BasePath,
					Singleton: kind.IsSingleton(),
					WhiteList: kind.WhiteList,
				})
			}
			return common.WriteOutput(command, globalFlags.Output, items, func(w io.Writer, value []kindInfo) error {
				for _, item := range value {
					if _, err := fmt.Fprintf(w, "%s\t%s\n", item.Name, item.BasePath); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

type kindInfo struct {
	Name      string   `json:"name" yaml:"name"`
	BasePath  string   `json:"base_path" yaml:"base_path"`
	Singleton bool     `json:"singleton" yaml:"singleton"`
	WhiteList []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
}

// resolveKind accepts a kind name or its collection path segment, ignoring
// case, dashes and underscores: Employee, employees and expense-centres all
// resolve.
func resolveKind(registry *resource.Registry, raw string) (string, error) {
	wanted := normalizeKindToken(raw)
	if wanted == "" {
		return "", common.ValidationError("resource kind is required", nil)
	}
	for _, name := range registry.Names() {
		kind, _ := registry.Kind(name)
		if normalizeKindToken(name) == wanted || normalizeKindToken(strings.TrimPrefix(kind.BasePath, "/")) == wanted {
			return name, nil
		}
	}
	return "", common.ValidationError(
		fmt.Sprintf("unknown resource kind %q: use one of %s", raw, strings.Join(registry.Names(), ", ")),
		nil,
	)
}

func normalizeKindToken(value string) string {
	replacer := strings.NewReplacer("-", "", "_", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}

func requireClientAndKind(
	ctx context.Context,
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	rawKind string,
) (*soldo.Client, string, error) {
	client, err := common.RequireClient(ctx, deps, globalFlags)
	if err != nil {
		return nil, "", err
	}
	kind, err := resolveKind(client.Registry(), rawKind)
	if err != nil {
		return nil, "", err
	}
	return client, kind, nil
}

func writeResources(command *cobra.Command, format string, items []*resource.Resource) error {
	if items == nil {
		items = []*resource.Resource{}
	}
	return common.WriteOutput(command, format, items, renderResourcesText)
}

func writeResource(command *cobra.Command, format string, item *resource.Resource) error {
	return common.WriteOutput(command, format, item, func(w io.Writer, value *resource.Resource) error {
		encoded, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = w.Write(encoded)
		return err
	})
}

func renderResourcesText(w io.Writer, items []*resource.Resource) error {
	for _, item := range items {
		id, ok := item.AttributeString("id")
		if !ok {
			id = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", id, summarize(item)); err != nil {
			return err
		}
	}
	return nil
}

func summarize(item *resource.Resource) string {
	for _, name := range summaryAttributes {
		if value, ok := item.AttributeString(name); ok && value != "" {
			return value
		}
	}
	return item.KindName()
}
