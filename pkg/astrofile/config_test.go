package astrofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrokit/astrofile/pkg/render"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "astrofile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `
rendering:
  outputfilename: m31.png
  mode: rgb
  transfer: sqrt
  blackquantile: 0.05
  whitequantile: 0.99

observatory:
  latitude: 52.95
  longitude: -1.15
  elevation: 46

telescope: "0.2m SCT"
`)

	c, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "m31.png", c.Rendering.OutputFilename)
	assert.Equal(t, render.ModeRGB, c.Rendering.RenderMode)
	assert.Equal(t, render.TransferSqrt, c.Rendering.TransferFunction)
	assert.Equal(t, 52.95, c.Observatory.Latitude)
	assert.Equal(t, "0.2m SCT", c.Telescope)
}

func TestConfigurationDefaults(t *testing.T) {
	c := NewConfiguration()
	require.NoError(t, c.FinalizeConfiguration())
	assert.Equal(t, render.ModeGrey8, c.Rendering.RenderMode)
	assert.Equal(t, render.TransferLinear, c.Rendering.TransferFunction)
	assert.Equal(t, "out.png", c.Rendering.OutputFilename)
}

func TestConfigurationRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "rendering:\n  mode: holographic\n")
	_, err := LoadConfiguration(path)
	require.Error(t, err)

	c := NewConfiguration()
	c.Rendering.BlackQuantile = 0.9
	c.Rendering.WhiteQuantile = 0.1
	require.Error(t, c.FinalizeConfiguration())

	_, err = LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
