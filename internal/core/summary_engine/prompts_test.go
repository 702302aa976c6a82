package summary_engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPromptCatalog(t *testing.T) {
	c := testPrompts()

	assert.Equal(t, []string{
		"System Architecture",
		"Technical Implementation",
		"Infrastructure & Setup",
		"Performance Analysis",
		"Optimization Techniques",
	}, c.Sections())

	sys, user, err := c.Render(PromptChunk, PromptData{Index: 2, Total: 5, Content: "GPU kernels fused"})
	require.NoError(t, err)
	assert.Contains(t, sys, "technical details")
	assert.Contains(t, user, "part 2 of 5")
	assert.Contains(t, user, "GPU kernels fused")

	_, user, err = c.Render(PromptFinal, PromptData{Content: "## Section 1\nnotes", Language: "de"})
	require.NoError(t, err)
	assert.Contains(t, user, "1. System Architecture")
	assert.Contains(t, user, "5. Optimization Techniques")
	assert.Contains(t, user, `"de"`)
	assert.Contains(t, user, "## Section 1\nnotes")

	_, user, err = c.Render(PromptFinal, PromptData{Content: "x"})
	require.NoError(t, err)
	assert.NotContains(t, user, "ISO 639-1")

	_, _, err = c.Render(PromptKind("nope"), PromptData{})
	assert.Error(t, err)
}

func TestLoadPromptCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sections: [Design, Results]
chunk:
  system: sys
  user: "chunk {{.Index}}: {{.Content}}"
meta:
  user: "meta {{.Content}}"
final:
  user: "{{range .Sections}}[{{.}}]{{end}} {{.Content}}"
`), 0o600))

	c, err := LoadPromptCatalog(path)
	require.NoError(t, err)

	_, user, err := c.Render(PromptChunk, PromptData{Index: 1, Content: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "chunk 1: abc", user)

	sys, user, err := c.Render(PromptFinal, PromptData{Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "", sys)
	assert.Equal(t, "[Design][Results] x", user)
}

func TestParsePromptCatalog_Errors(t *testing.T) {
	_, err := ParsePromptCatalog([]byte("sections: [a]\nchunk: {user: x}\nmeta: {user: y}\n"))
	assert.Error(t, err, "final prompt missing")

	_, err = ParsePromptCatalog([]byte("chunk: {user: x}\nmeta: {user: y}\nfinal: {user: z}\n"))
	assert.Error(t, err, "no sections")

	_, err = ParsePromptCatalog([]byte("sections: [a]\nchunk: {user: '{{.Nope'}\nmeta: {user: y}\nfinal: {user: z}\n"))
	assert.Error(t, err, "bad template")

	_, err = ParsePromptCatalog([]byte(":\n  - ["))
	assert.Error(t, err, "bad yaml")

	_, err = LoadPromptCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
