package config

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/internal/cli/common"
	"github.com/crmarques/soldo/internal/cli/testkit"
	"github.com/crmarques/soldo/soldo"
)

type scriptedPrompter struct {
	mu          sync.Mutex
	interactive bool
	answers     []string
	prompts     []string
}

func (p *scriptedPrompter) IsInteractive(*cobra.Command) bool { return p.interactive }

func (p *scriptedPrompter) Input(_ *cobra.Command, prompt string, _ bool) (string, error) {
	return p.next(prompt)
}

func (p *scriptedPrompter) Secret(_ *cobra.Command, prompt string, _ bool) (string, error) {
	return p.next(prompt)
}

func (p *scriptedPrompter) Select(_ *cobra.Command, prompt string, _ []string) (string, error) {
	return p.next(prompt)
}

func (p *scriptedPrompter) Confirm(_ *cobra.Command, prompt string, _ bool) (bool, error) {
	answer, err := p.next(prompt)
	return answer == "yes", err
}

func (p *scriptedPrompter) next(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", errors.New("unexpected prompt " + prompt)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func demoContext() configdomain.Context {
	return configdomain.Context{
		Name:        "demo",
		Environment: configdomain.EnvironmentDemo,
		Credentials: configdomain.Credentials{ClientID: "demo-id", ClientSecret: "demo-secret"},
		Webhook:     &configdomain.Webhook{Secret: "hook-secret"},
	}
}

func executeConfigCommand(
	t *testing.T,
	deps common.CommandDependencies,
	prompter configPrompter,
	stdin string,
	args ...string,
) (string, error) {
	t.Helper()

	var globalFlags common.GlobalFlags
	root := &cobra.Command{Use: "soldo", SilenceUsage: true, SilenceErrors: true}
	common.BindGlobalFlags(root, &globalFlags)
	root.AddCommand(newCommandWithPrompter(deps, &globalFlags, prompter))
	return testkit.ExecuteCommandForTest(root, stdin, append([]string{"config"}, args...)...)
}

func TestAddCommandFromInput(t *testing.T) {
	t.Parallel()

	contexts := testkit.NewContexts("demo", demoContext())
	deps := common.CommandDependencies{Contexts: contexts}

	input := `
name: ignored
environment: live
credentials:
  client-id: live-id
  client-secret: live-secret
rate-limit: 5
`
	if _, err := executeConfigCommand(t, deps, &scriptedPrompter{}, input, "add", "live", "--set-current"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	items, _ := contexts.List(context.Background())
	if len(items) != 2 || items[1].Name != "live" || items[1].RateLimit != 5 {
		t.Fatalf("unexpected contexts %#v", items)
	}
	if contexts.Current() != "live" {
		t.Fatalf("expected current context live, got %q", contexts.Current())
	}
}

func TestAddCommandRejectsInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		stdin string
		args  []string
		want  faults.ErrorCategory
	}{
		{name: "unknown field", stdin: "name: x\nunknown: true\n", args: []string{"add"}, want: faults.ValidationError},
		{name: "two documents", stdin: "name: x\n---\nname: y\n", args: []string{"add"}, want: faults.ValidationError},
		{name: "invalid format", stdin: "name: x\n", args: []string{"add", "--format", "toml"}, want: faults.ValidationError},
		{name: "duplicate", stdin: "name: demo\n", args: []string{"add"}, want: faults.ConflictError},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			deps := common.CommandDependencies{Contexts: testkit.NewContexts("demo", demoContext())}
			_, err := executeConfigCommand(t, deps, &scriptedPrompter{}, testCase.stdin, testCase.args...)
			if !faults.IsCategory(err, testCase.want) {
				t.Fatalf("expected %s, got %v", testCase.want, err)
			}
		})
	}
}

func TestAddCommandInteractive(t *testing.T) {
	t.Parallel()

	contexts := testkit.NewContexts("")
	deps := common.CommandDependencies{Contexts: contexts}
	prompter := &scriptedPrompter{
		interactive: true,
		answers: []string{
			"staging",
			environmentCustom,
			"https://sandbox.example.com",
			"client",
			"secret",
			"2.5",
			"yes",
			"hook",
			"id,status,token",
		},
	}

	if _, err := executeConfigCommand(t, deps, prompter, "", "add"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	items, _ := contexts.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected one context, got %#v", items)
	}
	got := items[0]
	if got.Name != "staging" || got.BaseURL != "https://sandbox.example.com" || got.Environment != "" {
		t.Fatalf("unexpected endpoint settings %#v", got)
	}
	if got.Credentials.ClientSecret != "secret" || got.RateLimit != 2.5 {
		t.Fatalf("unexpected credentials or rate %#v", got)
	}
	if got.Webhook == nil || got.Webhook.Secret != "hook" || got.Webhook.FingerprintOrder != "id,status,token" {
		t.Fatalf("unexpected webhook %#v", got.Webhook)
	}
}

func TestAddCommandInteractiveRejectsRate(t *testing.T) {
	t.Parallel()

	deps := common.CommandDependencies{Contexts: testkit.NewContexts("")}
	prompter := &scriptedPrompter{
		interactive: true,
		answers:     []string{configdomain.EnvironmentDemo, "client", "secret", "-1"},
	}

	_, err := executeConfigCommand(t, deps, prompter, "", "add", "dev")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListAndShowRedactSecrets(t *testing.T) {
	t.Parallel()

	deps := common.CommandDependencies{Contexts: testkit.NewContexts("demo", demoContext())}

	output, err := executeConfigCommand(t, deps, &scriptedPrompter{}, "", "list", "-o", "json")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	var listed []map[string]any
	if err := json.Unmarshal([]byte(output), &listed); err != nil {
		t.Fatalf("expected json list, got %q: %v", output, err)
	}
	if strings.Contains(output, "demo-secret") || strings.Contains(output, "hook-secret") {
		t.Fatalf("expected secrets to be redacted, got %q", output)
	}

	output, err = executeConfigCommand(t, deps, &scriptedPrompter{}, "", "show", "--context", "demo")
	if err != nil {
		t.Fatalf("show returned error: %v", err)
	}
	if !strings.Contains(output, "client-secret: "+redactedValue) {
		t.Fatalf("expected redacted client secret, got %q", output)
	}

	output, err = executeConfigCommand(t, deps, &scriptedPrompter{}, "", "show", "--context", "demo", "--show-secrets")
	if err != nil {
		t.Fatalf("show returned error: %v", err)
	}
	if !strings.Contains(output, "client-secret: demo-secret") {
		t.Fatalf("expected clear client secret, got %q", output)
	}

	_, err = executeConfigCommand(t, deps, &scriptedPrompter{}, "", "show", "--context", "missing")
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUseAndDeleteCommands(t *testing.T) {
	t.Parallel()

	live := demoContext()
	live.Name = "live"
	contexts := testkit.NewContexts("demo", demoContext(), live)
	deps := common.CommandDependencies{Contexts: contexts}

	if _, err := executeConfigCommand(t, deps, &scriptedPrompter{}, "", "use"); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError without name on a non interactive terminal, got %v", err)
	}
	if _, err := executeConfigCommand(t, deps, &scriptedPrompter{interactive: true, answers: []string{"live"}}, "", "use"); err != nil {
		t.Fatalf("use returned error: %v", err)
	}
	if contexts.Current() != "live" {
		t.Fatalf("expected current context live, got %q", contexts.Current())
	}

	output, err := executeConfigCommand(t, deps, &scriptedPrompter{interactive: true, answers: []string{"demo", "no"}}, "", "delete")
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if output != "delete canceled\n" {
		t.Fatalf("expected cancel message, got %q", output)
	}

	if _, err := executeConfigCommand(t, deps, &scriptedPrompter{}, "", "delete", "demo"); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	items, _ := contexts.List(context.Background())
	if len(items) != 1 || items[0].Name != "live" {
		t.Fatalf("unexpected contexts after delete %#v", items)
	}
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	contexts := testkit.NewContexts("demo", demoContext())
	deps := common.CommandDependencies{Contexts: contexts}
	output, err := executeConfigCommand(t, deps, &scriptedPrompter{}, "", "resolve", "--set", "rate-limit=5")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if want := "demo\thttps://api-demo.soldocloud.net/business/v2\n"; output != want {
		t.Fatalf("expected %q, got %q", want, output)
	}
	resolved := contexts.Resolved()
	if len(resolved) != 1 || resolved[0].Overrides["rate-limit"] != "5" {
		t.Fatalf("expected rate-limit override to reach the context service, got %#v", resolved)
	}

	_, err = executeConfigCommand(t, deps, &scriptedPrompter{}, "", "resolve", "--set", "novalue")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	server := testkit.NewResourceServer()
	server.Items["/company"] = map[string]any{"name": "Acme"}

	deps := common.CommandDependencies{
		Contexts: testkit.NewContexts("demo", demoContext()),
		NewClient: func(_ context.Context, _ configdomain.Context) (*soldo.Client, error) {
			return soldo.New(server)
		},
	}
	output, err := executeConfigCommand(t, deps, &scriptedPrompter{}, "", "check")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if want := "demo\thttps://api-demo.soldocloud.net/business/v2\tok\tAcme\n"; output != want {
		t.Fatalf("expected %q, got %q", want, output)
	}

	failing := common.CommandDependencies{
		Contexts: testkit.NewContexts("demo", demoContext()),
		NewClient: func(_ context.Context, _ configdomain.Context) (*soldo.Client, error) {
			return soldo.New(testkit.NewResourceServer())
		},
	}
	output, err = executeConfigCommand(t, failing, &scriptedPrompter{}, "", "check", "-o", "json")
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !strings.Contains(output, `"status": "failed"`) || !strings.Contains(output, `"category": "NotFoundError"`) {
		t.Fatalf("expected failed report, got %q", output)
	}
}

func TestContextTemplateDecodes(t *testing.T) {
	t.Parallel()

	cfg, err := decodeContextStrictFromData([]byte(contextTemplateYAML), common.OutputYAML)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Name != "my-context" || cfg.Environment != configdomain.EnvironmentDemo {
		t.Fatalf("unexpected template context %#v", cfg)
	}
}
