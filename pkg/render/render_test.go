package render

import (
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
)

func TestDuration_Milliseconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0ms", Duration(0))
	assert.Equal(t, "120ms", Duration(120))
	assert.Equal(t, "999ms", Duration(999))
}

func TestDuration_Seconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.0s", Duration(1000))
	assert.Equal(t, "2.5s", Duration(2500))
}

func TestDuration_Minutes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2m05s", Duration(125000))
}

func TestCount_SingularPlural(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 error", Count(1, "error", "errors"))
	assert.Equal(t, "2 errors", Count(2, "error", "errors"))
	assert.Equal(t, "0 errors", Count(0, "error", "errors"))
}

func TestCount_ThousandsSeparator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1,204 dependencies", Count(1204, "dependency", "dependencies"))
}

func TestStatusWord_Values(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", StatusWord(true))
	assert.Equal(t, "failed", StatusWord(false))
}

func TestTable_ContainsHeaderAndRows(t *testing.T) {
	t.Parallel()

	out := Table(table.Row{"HOST", "OK"}, []table.Row{{"web1", 3}, {"db1", 5}})

	assert.Contains(t, out, "HOST")
	assert.Contains(t, out, "web1")
	assert.Contains(t, out, "db1")
}

func TestTable_Deterministic(t *testing.T) {
	t.Parallel()

	rows := []table.Row{{"a", 1}}

	first := Table(table.Row{"K", "V"}, rows)
	second := Table(table.Row{"K", "V"}, rows)

	assert.Equal(t, first, second)
	assert.False(t, strings.Contains(first, "\x1b["))
}
