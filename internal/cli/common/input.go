package common

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/crmarques/soldo/resource"
)

const (
	stdinFileIndicator  = "-"
	MissingInputMessage = "input is required: provide --payload <path|-> or stdin"
	maxInputBytes       = 4 << 20
)

// ReadInput reads --payload, or stdin when the flag is empty or "-".
func ReadInput(command *cobra.Command, flags InputFlags) ([]byte, error) {
	if flags.Payload != "" && flags.Payload != stdinFileIndicator {
		file, err := os.Open(flags.Payload)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		data, err := readAllWithLimit(file, maxInputBytes)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, ValidationError("input is empty", nil)
		}
		return data, nil
	}

	inputReader := command.InOrStdin()
	if stdinFile, ok := inputReader.(*os.File); ok {
		info, err := stdinFile.Stat()
		if err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
			return nil, ValidationError(MissingInputMessage, nil)
		}
	}

	data, err := readAllWithLimit(inputReader, maxInputBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ValidationError(MissingInputMessage, nil)
	}

	return data, nil
}

func readAllWithLimit(reader io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ValidationError("input exceeds maximum supported size", errors.New("input too large"))
	}
	return data, nil
}

// DecodeValue decodes a payload into a resource value. JSON keeps the key
// order of the input; YAML objects are normalized with sorted keys.
func DecodeValue(data []byte, format string) (resource.Value, error) {
	switch format {
	case "", OutputJSON:
		value, err := resource.DecodeJSON(data)
		if err != nil {
			return nil, ValidationError("invalid json input", err)
		}
		return value, nil
	case OutputYAML:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, ValidationError("invalid yaml input", err)
		}
		value, err := resource.Normalize(raw)
		if err != nil {
			return nil, ValidationError("invalid yaml input", err)
		}
		return value, nil
	default:
		return nil, ValidationError("invalid input format: use json or yaml", nil)
	}
}
