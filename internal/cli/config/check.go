package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/internal/cli/common"
)

type configCheckReport struct {
	Context  string `json:"context" yaml:"context"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Status   string `json:"status" yaml:"status"`
	Company  string `json:"company,omitempty" yaml:"company,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// newCheckCommand authenticates against the selected context and reads the
// company singleton.
func newCheckCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check credentials and connectivity of a context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			resolved, err := common.ResolveContext(command.Context(), deps, globalFlags)
			if err != nil {
				return err
			}
			endpoint, err := configdomain.ResolveEndpoint(resolved)
			if err != nil {
				return err
			}

			report := configCheckReport{
				Context:  resolved.Name,
				Endpoint: endpoint.BaseURL + endpoint.APIRoot,
				Status:   "ok",
			}
			checkErr := runConfigCheck(command, deps, resolved, &report)
			if checkErr != nil {
				report.Status = "failed"
				report.Error = checkErr.Error()
				if category, ok := faults.CategoryOf(checkErr); ok {
					report.Category = string(category)
				}
			}

			if err := common.WriteOutput(command, globalFlags.Output, report, renderConfigCheckText); err != nil {
				return err
			}
			return checkErr
		},
	}
}

func runConfigCheck(command *cobra.Command, deps common.CommandDependencies, cfg configdomain.Context, report *configCheckReport) error {
	if deps.NewClient == nil {
		return common.ValidationError("soldo client factory is not configured", nil)
	}
	client, err := deps.NewClient(command.Context(), cfg)
	if err != nil {
		return err
	}
	company, err := client.GetCompany(command.Context())
	if err != nil {
		return err
	}
	if name, ok := company.AttributeString("name"); ok {
		report.Company = name
	}
	return nil
}

func renderConfigCheckText(w io.Writer, report configCheckReport) error {
	if report.Status == "ok" {
		_, err := fmt.Fprintf(w, "%s\t%s\tok\t%s\n", report.Context, report.Endpoint, report.Company)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%s\tfailed\t%s\n", report.Context, report.Endpoint, report.Error)
	return err
}
