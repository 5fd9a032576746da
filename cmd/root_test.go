package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestRootCmd(t *testing.T) {
	// Reset flags and config
	viper.Reset()

	// Capture output
	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	// Test --help to ensure banner/template works
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "dynamic priority score")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "add")
	assert.Contains(t, output, "danger")
	assert.Contains(t, output, "watch")
}

func TestUnknownCommandFails(t *testing.T) {
	viper.Reset()

	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs([]string{"definitely-not-a-command"})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, "0.1.0", v)
}
