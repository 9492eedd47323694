package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"github.com/roach88/artisha/internal/genai"
	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/testutil"
)

// stubAI answers every request without a network.
type stubAI struct{}

var _ genai.Client = stubAI{}

const stubImage = "data:image/png;base64,iVBORw0KGgo="

func (stubAI) CreativeReply(_ context.Context, prompt string, _ []genai.Turn) string {
	return "A lovely idea. " + genai.FinalVisualMarker + " " + prompt
}

func (stubAI) GenerateImage(context.Context, string) mo.Option[string] {
	return mo.Some(stubImage)
}

func (stubAI) ProductDescription(_ context.Context, title, category string) string {
	return fmt.Sprintf("Hand-made %s (%s).", title, category)
}

func (stubAI) SupportReply(_ context.Context, message string, user mo.Option[model.User], orders []model.Order) string {
	name := "guest"
	if u, ok := user.Get(); ok {
		name = u.Name
	}
	return fmt.Sprintf("%s asked %q and has %d order(s).", name, message, len(orders))
}

// cliEnv runs commands against one database, the way separate shell
// invocations would.
type cliEnv struct {
	t      *testing.T
	config string
	ids    *testutil.SequenceIDGenerator
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "artisha.yaml")
	body := fmt.Sprintf(`database: %s
chat:
  support_typing_delay: 0s
  studio_typing_delay: 0s
`, filepath.Join(dir, "artisha.db"))
	require.NoError(t, os.WriteFile(config, []byte(body), 0o644))
	return &cliEnv{t: t, config: config, ids: testutil.NewSequenceIDGenerator()}
}

// run executes one command and returns its stdout.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	opts := &RootOptions{
		Clock: testutil.NewDeterministicClock(),
		IDs:   e.ids,
		AI:    stubAI{},
	}
	cmd := newRootCommand(opts)

	var out, diag bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&diag)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// mustRun fails the test if the command fails.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "artisha %v\n%s", args, out)
	return out
}

// runJSON executes a command with --format json and decodes the response.
func (e *cliEnv) runJSON(args ...string) (CLIResponse, error) {
	e.t.Helper()
	out, err := e.run(append([]string{"--format", "json"}, args...)...)
	var resp CLIResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

// data returns the response payload as an object.
func data(t *testing.T, resp CLIResponse) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return m
}
