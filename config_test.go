package saga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromYAML(t *testing.T) {
	config, err := NewConfigFromYAML([]byte(`
devMode: true
monitor:
  vendor: fs
  basePath: /tmp/saga-test/queue
policy:
  mode: auto
  block:
    - cancel
`))
	require.NoError(t, err)
	assert.True(t, config.DevMode)
	assert.Equal(t, "fs", config.Monitor.Vendor)
	assert.Equal(t, "/tmp/saga-test/queue", config.Monitor.BasePath)
	require.NotNil(t, config.Policy)
	assert.Equal(t, []string{"cancel"}, config.Policy.BlockList)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, (&Config{Monitor: MonitorConfig{Vendor: "memory"}}).Validate())
	assert.Error(t, (&Config{Monitor: MonitorConfig{Vendor: "fs"}}).Validate())
	assert.Error(t, (&Config{Monitor: MonitorConfig{Vendor: "kafka"}}).Validate())
}
