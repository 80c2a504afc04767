package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLines(t *testing.T) {
	t.Parallel()

	lines := make([]string, 0)
	err := RunLines(strings.NewReader("insert 50\n\n  order Tea  \nbuy"), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"insert 50", "order Tea", "buy"}, lines)
}
