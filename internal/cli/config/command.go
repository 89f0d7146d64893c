package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/internal/cli/common"
)

const redactedValue = "<redacted>"

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalPrompter{})
}

func newCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newPrintTemplateCommand(),
		newAddCommand(deps, prompter),
		newUpdateCommand(deps),
		newDeleteCommand(deps, prompter),
		newListCommand(deps, globalFlags),
		newUseCommand(deps, prompter),
		newShowCommand(deps, globalFlags, prompter),
		newCurrentCommand(deps, globalFlags),
		newResolveCommand(deps, globalFlags),
		newValidateCommand(deps),
		newCheckCommand(deps, globalFlags),
	)

	return command
}

func newPrintTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-template",
		Short: "Print a context YAML template with guidance comments",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, err := io.WriteString(command.OutOrStdout(), contextTemplateYAML)
			return err
		},
	}
}

func newAddCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	var input common.InputFlags
	var setCurrent bool

	command := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a context from input or interactively",
		Example: strings.Join([]string{
			"  soldo config add --payload context.yaml",
			"  cat context.yaml | soldo config add staging --set-current",
			"  soldo config add demo",
		}, "\n"),
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			}

			var cfg configdomain.Context
			if shouldUseInteractiveCreate(command, input, prompter) {
				cfg, err = promptCreateContext(command, prompter, name)
			} else {
				cfg, err = decodeContextStrict(command, input)
				if err == nil && name != "" {
					cfg.Name = name
				}
			}
			if err != nil {
				return err
			}

			if err := contexts.Create(command.Context(), cfg); err != nil {
				return err
			}
			if setCurrent {
				return contexts.SetCurrent(command.Context(), cfg.Name)
			}
			return nil
		},
	}

	bindContextInputFlags(command, &input)
	command.Flags().BoolVar(&setCurrent, "set-current", false, "make the new context current")
	return command
}

func newUpdateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update",
		Short: "Replace a stored context from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContextStrict(command, input)
			if err != nil {
				return err
			}
			return contexts.Update(command.Context(), cfg)
		},
	}

	bindContextInputFlags(command, &input)
	return command
}

func newDeleteCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a context (interactive when name is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				selected, err := selectContextForAction(command, contexts, prompter, "delete")
				if err != nil {
					return err
				}
				confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete context %q?", selected), false)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.WriteText(command, common.OutputText, "delete canceled")
				}
				name = selected
			}
			return contexts.Delete(command.Context(), name)
		},
	}
	registerSingleContextArgCompletion(command, deps)
	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}
			for idx := range items {
				items[idx] = redactContext(items[idx])
			}
			return common.WriteOutput(command, globalFlags.Output, items, func(w io.Writer, value []configdomain.Context) error {
				for _, item := range value {
					if _, writeErr := fmt.Fprintln(w, item.Name); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newUseCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "use [name]",
		Short: "Set current context (interactive when name is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContextForAction(command, contexts, prompter, "use")
				if err != nil {
					return err
				}
			}
			return contexts.SetCurrent(command.Context(), name)
		},
	}
	registerSingleContextArgCompletion(command, deps)
	return command
}

func newShowCommand(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	var showSecrets bool

	command := &cobra.Command{
		Use:   "show",
		Short: "Show a context from --context or interactive selection",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(globalFlags.Context)
			if name == "" {
				name, err = selectContextForAction(command, contexts, prompter, "show --context")
				if err != nil {
					return err
				}
			}

			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				if item.Name != name {
					continue
				}
				if !showSecrets {
					item = redactContext(item)
				}
				return common.WriteOutput(command, common.OutputYAML, item, nil)
			}
			return common.NotFoundError(fmt.Sprintf("context %q not found", name))
		},
	}

	command.Flags().BoolVar(&showSecrets, "show-secrets", false, "print credentials and webhook secret in clear")
	return command
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Get current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, redactContext(current), func(w io.Writer, value configdomain.Context) error {
				_, writeErr := fmt.Fprintln(w, value.Name)
				return writeErr
			})
		},
	}
}

func newResolveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var overrides []string

	command := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the active context with environment and overrides",
		Example: strings.Join([]string{
			"  soldo config resolve",
			"  soldo config resolve --context live",
			"  soldo config resolve --set api-version=2.1 --set rate-limit=5",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			overridesMap, err := parseOverrides(overrides)
			if err != nil {
				return err
			}

			resolved, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{
				Name:      globalFlags.Context,
				Overrides: overridesMap,
			})
			if err != nil {
				return err
			}
			endpoint, err := configdomain.ResolveEndpoint(resolved)
			if err != nil {
				return err
			}

			return common.WriteOutput(command, globalFlags.Output, resolvedView{
				Context:  redactContext(resolved),
				Endpoint: endpointView(endpoint),
			}, func(w io.Writer, value resolvedView) error {
				_, writeErr := fmt.Fprintf(w, "%s\t%s%s\n", value.Context.Name, value.Endpoint.BaseURL, value.Endpoint.APIRoot)
				return writeErr
			})
		},
	}

	command.Flags().StringArrayVarP(&overrides, "set", "e", nil, "override key=value (repeatable)")
	return command
}

type resolvedView struct {
	Context  configdomain.Context `json:"context" yaml:"context"`
	Endpoint endpointView         `json:"endpoint" yaml:"endpoint"`
}

type endpointView struct {
	BaseURL  string `json:"base_url" yaml:"base-url"`
	TokenURL string `json:"token_url" yaml:"token-url"`
	APIRoot  string `json:"api_root" yaml:"api-root"`
}

func newValidateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a context from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContextStrict(command, input)
			if err != nil {
				return err
			}
			return contexts.Validate(command.Context(), cfg)
		},
	}

	bindContextInputFlags(command, &input)
	return command
}

func selectContextForAction(
	command *cobra.Command,
	contexts configdomain.ContextService,
	prompter configPrompter,
	actionLabel string,
) (string, error) {
	items, err := contexts.List(command.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", common.ValidationError("no contexts available", nil)
	}
	if !prompter.IsInteractive(command) {
		return "", common.ValidationError(fmt.Sprintf("context name is required: soldo config %s <name>", actionLabel), nil)
	}

	options := make([]string, 0, len(items))
	for _, item := range items {
		options = append(options, item.Name)
	}
	return prompter.Select(command, "Choose context", options)
}

func parseOverrides(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	parsed := make(map[string]string, len(values))
	for _, value := range values {
		key, raw, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, common.ValidationError("invalid override: expected key=value", nil)
		}
		parsed[strings.TrimSpace(key)] = raw
	}

	return parsed, nil
}

func redactContext(cfg configdomain.Context) configdomain.Context {
	if cfg.Credentials.ClientSecret != "" {
		cfg.Credentials.ClientSecret = redactedValue
	}
	if cfg.Webhook != nil && cfg.Webhook.Secret != "" {
		webhook := *cfg.Webhook
		webhook.Secret = redactedValue
		cfg.Webhook = &webhook
	}
	return cfg
}
