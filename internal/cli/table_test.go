package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Render(t *testing.T) {
	table := NewTable("Kod", "Nomi", "Summa").Align(2, AlignRight)
	table.AddRow("8471300000", "Noutbuklar", "1,265,050")
	table.AddRow("0901210000", "Kofe")
	table.AddRow("8517130000", "Smartfonlar", "5", "ignored")

	assert.Equal(t, 3, table.Len())

	lines := strings.Split(ansi.Strip(table.Render()), "\n")
	require.GreaterOrEqual(t, len(lines), 5)

	assert.Contains(t, lines[0], "Kod")
	assert.Contains(t, lines[0], "Summa")
	body := lines[len(lines)-3:]
	assert.True(t, strings.HasPrefix(body[0], "8471300000"))
	assert.NotContains(t, body[2], "ignored")

	// Right-aligned amounts end in the same column.
	first := strings.TrimRight(body[0], " ")
	last := strings.TrimRight(body[2], " ")
	assert.Equal(t, len(first), len(last))
}
