package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseTogglesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debugf("hidden %s", "message")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debugf("shown %s", "message")
	assert.Contains(t, buf.String(), "shown message")
}

func TestWarnAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warnf("tree walk issue: %v", "permission denied")
	assert.Contains(t, buf.String(), "permission denied")
}
