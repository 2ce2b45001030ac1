package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", true, &buf)
	t.Cleanup(func() { Setup("info", false, os.Stderr) })

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	For("leads").WithField("id", "abc").Info("Submit successful")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "leads", entry["component"])
	assert.Equal(t, "abc", entry["id"])
	assert.Equal(t, "Submit successful", entry["msg"])
}

func TestSetupUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup("verbose", false, &buf)
	t.Cleanup(func() { Setup("info", false, os.Stderr) })

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	For("x").Debug("hidden")
	assert.Empty(t, buf.String())
}
