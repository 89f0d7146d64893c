package config

import (
	"bytes"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	configdomain "github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/internal/cli/common"
)

func bindContextInputFlags(command *cobra.Command, input *common.InputFlags) {
	command.Flags().StringVarP(&input.Payload, "payload", "f", "", "context file path (use '-' to read from stdin)")
	command.Flags().StringVarP(&input.Format, "format", "i", common.OutputYAML, "input format: json|yaml")
	common.RegisterInputFormatFlagCompletion(command)
}

func decodeContextStrict(command *cobra.Command, flags common.InputFlags) (configdomain.Context, error) {
	data, err := common.ReadInput(command, flags)
	if err != nil {
		return configdomain.Context{}, err
	}
	return decodeContextStrictFromData(data, flags.Format)
}

// decodeContextStrictFromData rejects unknown keys. JSON input is decoded by
// the YAML decoder, which accepts it as a subset.
func decodeContextStrictFromData(data []byte, format string) (configdomain.Context, error) {
	switch format {
	case "", common.OutputYAML, common.OutputJSON:
	default:
		return configdomain.Context{}, common.ValidationError("invalid input format: use json or yaml", nil)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg configdomain.Context
	if err := decoder.Decode(&cfg); err != nil {
		return configdomain.Context{}, common.ValidationError("invalid context input", err)
	}
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return configdomain.Context{}, common.ValidationError("context input must contain a single document", err)
	}
	return cfg, nil
}
