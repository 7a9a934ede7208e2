package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerifier(t *testing.T) {
	v, err := buildVerifier("none")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = buildVerifier("dns")
	require.NoError(t, err)
	assert.NotNil(t, v)

	v, err = buildVerifier("smtp")
	require.NoError(t, err)
	assert.NotNil(t, v)

	_, err = buildVerifier("carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown verification mode")
}

func TestVerifyEmailsCommand_FlagsValidation(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "verify-emails", "--first", "Jane", "--domain", "example.org")
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}
