package astrofile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/astrokit/astrofile/pkg/render"
)

/* Example config file ...

rendering:
  outputfilename: out.png
  mode: rgb
  transfer: sqrt
  gamma: 2.2
  blackquantile: 0.02
  whitequantile: 0.998

observatory:
  latitude: 52.95
  longitude: -1.15
  elevation: 46

telescope: "0.2m SCT"

*/

type RenderOptions struct {
	// Values from the config file
	OutputFilename string
	Mode           string
	Transfer       string
	Gamma          float64
	BlackQuantile  float64
	WhiteQuantile  float64

	// Values we derive/compute
	RenderMode       render.Mode             `yaml:"-"`
	TransferFunction render.TransferFunction `yaml:"-"`
}

type ObservatoryOptions struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

type Configuration struct {
	Rendering   RenderOptions
	Observatory ObservatoryOptions
	Telescope   string
}

func NewConfiguration() Configuration {
	return Configuration{
		Rendering: RenderOptions{
			OutputFilename: "out.png",
			BlackQuantile:  0.02,
			WhiteQuantile:  0.998,
			Gamma:          1.0,
		},
	}
}

func LoadConfiguration(filename string) (Configuration, error) {
	c := NewConfiguration()

	if contents, err := os.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, c.FinalizeConfiguration()
}

// FinalizeConfiguration does sanity checks and other post-processing
func (c *Configuration) FinalizeConfiguration() error {
	mode, err := render.ParseMode(c.Rendering.Mode)
	if err != nil {
		return err
	}
	c.Rendering.RenderMode = mode

	tf, err := render.ParseTransfer(c.Rendering.Transfer)
	if err != nil {
		return err
	}
	c.Rendering.TransferFunction = tf

	if c.Rendering.Gamma <= 0 {
		c.Rendering.Gamma = 1.0
	}
	if c.Rendering.BlackQuantile < 0 || c.Rendering.WhiteQuantile > 1 ||
		c.Rendering.BlackQuantile >= c.Rendering.WhiteQuantile {
		return fmt.Errorf("stretch quantiles [%f,%f] out of order",
			c.Rendering.BlackQuantile, c.Rendering.WhiteQuantile)
	}

	return nil
}
