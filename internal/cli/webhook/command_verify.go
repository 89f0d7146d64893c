package webhook

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/internal/cli/common"
	webhookdomain "github.com/crmarques/soldo/webhook"
)

func newVerifyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var fingerprint string
	var fingerprintOrder string

	command := &cobra.Command{
		Use:   "verify",
		Short: "Verify a recorded webhook delivery",
		Long: strings.Join([]string{
			"Authenticate a webhook body against its fingerprint header using the webhook secret of the context.",
			"The body is read from --payload or stdin.",
		}, " "),
		Example: strings.Join([]string{
			"  soldo webhook verify --payload delivery.json --fingerprint 9f86d0...",
			"  cat delivery.json | soldo webhook verify --fingerprint 9f86d0... --fingerprint-order id,status,token",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if strings.TrimSpace(fingerprint) == "" {
				return common.ValidationError("flag --fingerprint is required", nil)
			}
			body, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			verifier, err := resolveVerifier(command, deps, globalFlags)
			if err != nil {
				return err
			}

			event, err := verifier.Verify(body, fingerprint, fingerprintOrder)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, event, renderEventText)
		},
	}

	command.Flags().StringVarP(&input.Payload, "payload", "f", "", "delivery body file path (use '-' to read from stdin)")
	command.Flags().StringVar(&fingerprint, "fingerprint", "", "value of the "+webhookdomain.HeaderFingerprint+" header")
	command.Flags().StringVar(&fingerprintOrder, "fingerprint-order", "", "comma separated fingerprint field order (context default when empty)")
	return command
}

func renderEventText(w io.Writer, event *webhookdomain.Event) error {
	id, ok := event.Resource().AttributeString("id")
	if !ok {
		id = "-"
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", event.Type(), event.Name(), id)
	return err
}
