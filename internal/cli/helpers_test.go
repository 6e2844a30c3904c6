package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// testRootOptions returns options that never read the user's config.
func testRootOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{Format: format, SearchPaths: []string{t.TempDir()}}
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// executeRoot runs the full CLI against a temp config file.
func executeRoot(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return execute(t, NewRootCommand(), append([]string{"--config", path}, args...)...)
}

// writeScenario writes a scenario file and returns its path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const wrongSuspectScenario = `name: wrong_suspect
seed: 12
steps:
  - action: interview
    target: witness
  - action: visit_scene
  - action: set_hypothesis
    target: witness
    claims: [presence]
    evidence: [testimonial, forensics]
  - action: arrest
expect:
  tier: failed
  outcome: failed
`
