package handlers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

func TestTable_AlignsColumns(t *testing.T) {
	tbl := &table{header: []string{"A", "B"}}
	tbl.add("long value", "x")
	tbl.add("s", "y")

	var buf bytes.Buffer
	tbl.render(&buf, false)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	col := strings.Index(lines[0], "B")
	assert.Equal(t, col, strings.Index(lines[1], "x"))
	assert.Equal(t, col, strings.Index(lines[2], "y"))
}

func TestTable_PlainHasNoEscapes(t *testing.T) {
	tbl := &table{header: []string{"PHASE"}}
	tbl.add("Ready")

	var buf bytes.Buffer
	tbl.render(&buf, false)
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestCheckOutput(t *testing.T) {
	assert.NoError(t, checkOutput("json", OutputTable, OutputJSON))
	assert.Error(t, checkOutput("yaml", OutputTable, OutputJSON))
}

func TestWithLogger(t *testing.T) {
	assert.False(t, log.FromContext(withLogger(ctx, false)).Enabled())
	assert.True(t, log.FromContext(withLogger(ctx, true)).Enabled())
}
