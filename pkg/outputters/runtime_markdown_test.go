package outputters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adwikataware/Hackcrypt/pkg/types"
)

func TestRuntimeMarkdownOutputterWritesTables(t *testing.T) {
	m := NewRuntimeMarkdownOutputter().(*RuntimeMarkdownOutputter)
	require.NoError(t, m.Initialize())

	outfile := filepath.Join(t.TempDir(), "history.md")
	m.SetOutputFile(outfile)

	table := types.MarkdownTable{
		TableHeading: "Scan History",
		Headers:      []string{"Hash", "Verdict"},
		Rows:         [][]string{{"abc123def456", "Likely Authentic"}},
	}
	require.NoError(t, m.Output(table))
	require.NoError(t, m.Output("not a table"))
	require.NoError(t, m.Complete())

	content, err := os.ReadFile(outfile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "abc123def456")
	assert.Contains(t, string(content), "Likely Authentic")
}
