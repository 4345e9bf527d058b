package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusCmd(t *testing.T) {
	t.Setenv("TRACKER_STORE_DRIVER", "sqlite")
	t.Setenv("TRACKER_SQLITE_PATH", filepath.Join(t.TempDir(), "tracker.db"))
	t.Setenv("TRACKER_LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"status"})
	require.NoError(t, root.Execute())

	var report statusReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	assert.Nil(t, report.Profile)
	assert.Equal(t, int64(0), report.Counter)
	assert.Equal(t, 0, report.Activities)
	assert.Equal(t, "sqlite", report.Driver)
}

func TestStatusCmd_BadConfig(t *testing.T) {
	t.Setenv("TRACKER_STORE_DRIVER", "bolt")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"status"})
	assert.ErrorContains(t, root.Execute(), "unknown store driver")
}
