package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "osoctl", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("kubeconfig"))
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, expected := range []string{"status", "records", "gc", "version"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 4)
}

func TestGC_Flags(t *testing.T) {
	cmd := GC()

	dryRun := cmd.Flags().Lookup("dry-run")
	require.NotNil(t, dryRun)
	assert.Equal(t, "false", dryRun.DefValue)
	assert.Equal(t, "table", cmd.Flags().Lookup("output").DefValue)
}

func TestRecords_Flags(t *testing.T) {
	cmd := Records()

	assert.NotNil(t, cmd.Flags().Lookup("owner"))
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
}

func TestRecords_RejectsArgs(t *testing.T) {
	cmd := Root()
	cmd.SetArgs([]string{"records", "extra"})
	assert.Error(t, cmd.Execute())
}
