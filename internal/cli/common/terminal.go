package common

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func IsInteractiveTerminal(command *cobra.Command) bool {
	in, ok := command.InOrStdin().(*os.File)
	if !ok || in == nil {
		return false
	}
	out, ok := command.OutOrStdout().(*os.File)
	if !ok || out == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

func HasPipedInput(command *cobra.Command) bool {
	_, info, ok := fileFromReader(command.InOrStdin())
	if !ok || info == nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}

// IsTerminalWriter reports whether w is attached to a terminal.
func IsTerminalWriter(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func fileFromReader(reader io.Reader) (*os.File, os.FileInfo, bool) {
	file, ok := reader.(*os.File)
	if !ok {
		return nil, nil, false
	}
	info, err := file.Stat()
	if err != nil {
		return nil, nil, false
	}
	return file, info, true
}
