package testkit

import (
	"bytes"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var executeCommandForTestMu sync.Mutex

func ExecuteCommandForTest(command *cobra.Command, stdin string, args ...string) (string, error) {
	output, _, err := ExecuteCommandForTestWithStreams(command, stdin, args...)
	return output, err
}

func ExecuteCommandForTestWithStreams(command *cobra.Command, stdin string, args ...string) (string, string, error) {
	// Cobra mutates flag annotation maps while serving help and completion.
	executeCommandForTestMu.Lock()
	defer executeCommandForTestMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	err := command.Execute()
	return stdout.String(), stderr.String(), err
}

// RegisteredPaths lists every non-hidden command path below command.
func RegisteredPaths(command *cobra.Command, prefix []string) []string {
	paths := make([]string, 0)
	for _, child := range command.Commands() {
		name := child.Name()
		if name == "help" || strings.HasPrefix(name, "__") {
			continue
		}
		current := append(append([]string{}, prefix...), name)
		paths = append(paths, strings.Join(current, " "))
		paths = append(paths, RegisteredPaths(child, current)...)
	}
	return paths
}
