package webhook

import (
	"github.com/spf13/cobra"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/internal/cli/common"
	"github.com/crmarques/soldo/soldo"
	webhookdomain "github.com/crmarques/soldo/webhook"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "webhook",
		Short: "Verify and receive Soldo webhook deliveries",
		Args:  cobra.NoArgs,
	}
	command.AddCommand(
		newVerifyCommand(deps, globalFlags),
		newServeCommand(deps, globalFlags),
	)
	return command
}

// resolveVerifier builds a verifier from the webhook section of the selected
// context. SOLDO_WEBHOOK_SECRET is applied by context resolution.
func resolveVerifier(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (webhookdomain.Verifier, error) {
	resolved, err := common.ResolveContext(command.Context(), deps, globalFlags)
	if err != nil {
		return webhookdomain.Verifier{}, err
	}
	return verifierForContext(resolved)
}

func verifierForContext(cfg config.Context) (webhookdomain.Verifier, error) {
	if cfg.Webhook == nil || cfg.Webhook.Secret == "" {
		return webhookdomain.Verifier{}, common.ValidationError(
			"webhook secret is not configured: set webhook.secret in the context or "+config.WebhookSecretEnvVar,
			nil,
		)
	}
	registry, err := soldo.NewRegistry()
	if err != nil {
		return webhookdomain.Verifier{}, err
	}

	order := cfg.Webhook.FingerprintOrder
	if order == "" {
		order = config.DefaultWebhookFingerprintOrder
	}
	return webhookdomain.Verifier{
		Registry:     registry,
		Secret:       cfg.Webhook.Secret,
		DefaultOrder: order,
	}, nil
}
