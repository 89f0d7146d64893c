package config

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/internal/cli/common"
)

const environmentCustom = "custom"

func shouldUseInteractiveCreate(command *cobra.Command, input common.InputFlags, prompter configPrompter) bool {
	if input.Payload != "" {
		return false
	}
	if common.HasPipedInput(command) {
		return false
	}
	return prompter.IsInteractive(command)
}

func promptCreateContext(command *cobra.Command, prompter configPrompter, contextName string) (configdomain.Context, error) {
	cfg := configdomain.Context{Name: strings.TrimSpace(contextName)}

	var err error
	if cfg.Name == "" {
		cfg.Name, err = prompter.Input(command, "Context name:", true)
		if err != nil {
			return configdomain.Context{}, err
		}
	}

	environment, err := prompter.Select(
		command,
		"Select environment",
		[]string{configdomain.EnvironmentDemo, configdomain.EnvironmentLive, environmentCustom},
	)
	if err != nil {
		return configdomain.Context{}, err
	}
	if environment == environmentCustom {
		cfg.BaseURL, err = prompter.Input(command, "Base URL:", true)
		if err != nil {
			return configdomain.Context{}, err
		}
	} else {
		cfg.Environment = environment
	}

	cfg.Credentials.ClientID, err = prompter.Input(command, "Client ID:", true)
	if err != nil {
		return configdomain.Context{}, err
	}
	cfg.Credentials.ClientSecret, err = prompter.Secret(command, "Client secret:", true)
	if err != nil {
		return configdomain.Context{}, err
	}

	rateLimit, err := prompter.Input(command, "Requests per second (optional, 0 disables):", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	if rateLimit != "" {
		cfg.RateLimit, err = strconv.ParseFloat(rateLimit, 64)
		if err != nil || cfg.RateLimit < 0 {
			return configdomain.Context{}, common.ValidationError("rate limit must be a non-negative number", err)
		}
	}

	configureWebhook, err := prompter.Confirm(command, "Configure webhook verification?", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	if configureWebhook {
		webhook := configdomain.Webhook{}
		webhook.Secret, err = prompter.Secret(command, "Webhook secret:", true)
		if err != nil {
			return configdomain.Context{}, err
		}
		webhook.FingerprintOrder, err = prompter.Input(command, "Fingerprint order (optional, default id,token):", false)
		if err != nil {
			return configdomain.Context{}, err
		}
		cfg.Webhook = &webhook
	}

	return cfg, nil
}
