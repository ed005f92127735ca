package boxlite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("phys", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[phys] DEBUG: shown 2")

	l.Infof("hello")
	assert.Contains(t, out.String(), "[phys] INFO: hello")

	l.Warnf("careful")
	l.Errorf("broken")
	assert.Contains(t, errOut.String(), "[phys] WARN: careful")
	assert.Contains(t, errOut.String(), "[phys] ERROR: broken")
	assert.NotContains(t, out.String(), "careful")
}

func TestLoggerWithoutPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger("", false, &out, &out)
	l.Infof("x=%v", 3)
	assert.Contains(t, out.String(), " INFO: x=3")
	assert.NotContains(t, out.String(), "[")
}

func TestNopLogger(t *testing.T) {
	l := loggerOrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	assert.NotPanics(t, func() { l.Errorf("ignored") })

	d := NewDefaultLogger("x", false)
	assert.Same(t, d, loggerOrNop(d))
}

func TestNamedLogger(t *testing.T) {
	var out bytes.Buffer
	parent := NewWriterLogger("phys", true, &out, &out)
	child := parent.Named("runner")

	assert.Equal(t, "phys/runner", child.Prefix())
	assert.True(t, child.DebugEnabled())

	child.Infof("tick")
	assert.Contains(t, out.String(), "[phys/runner] INFO: tick")

	// debug state is copied, not shared
	child.SetDebug(false)
	assert.True(t, parent.DebugEnabled())

	assert.Equal(t, "solo", NewWriterLogger("", false, &out, &out).Named("solo").Prefix())
}
