package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "migrate", "seed", "index"} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCmd_Flags(t *testing.T) {
	root := newRootCmd()

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	for _, flag := range []string{"reset", "index", "admin-email", "admin-password"} {
		assert.NotNil(t, seed.Flags().Lookup(flag), flag)
	}

	index, _, err := root.Find([]string{"index"})
	require.NoError(t, err)
	assert.NotNil(t, index.Flags().Lookup("reset"))
}
