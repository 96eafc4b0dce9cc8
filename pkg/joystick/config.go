package joystick

import (
	"flag"

	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

// Config defines the configurations for the Teleop.
type Config struct {
	DeviceIndex int
	DriveAxis   int
	TurnAxis    int
	StopButton  int
	// MaxSpeed is the value sent at full deflection.
	MaxSpeed int
	// Deadzone is the deflection below which an axis reads 0.
	Deadzone int
	Verbose  bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
	DriveAxis:   1,
	TurnAxis:    0,
	StopButton:  0,
	MaxSpeed:    2047,
	Deadzone:    1000,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.DriveAxis, "drive-axis", defaultConfig.DriveAxis, "Axis for driving, pushed forward is positive.")
	flag.IntVar(&defaultConfig.TurnAxis, "turn-axis", defaultConfig.TurnAxis, "Axis for turning.")
	flag.IntVar(&defaultConfig.StopButton, "stop-button", defaultConfig.StopButton, "Button to stop, -1 for none.")
	flag.IntVar(&defaultConfig.MaxSpeed, "max-speed", defaultConfig.MaxSpeed, "Value at full deflection, up to 2047.")
	flag.IntVar(&defaultConfig.Deadzone, "deadzone", defaultConfig.Deadzone, "Axis deadzone.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print joystick events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewTeleop creates a Teleop using the config.
func (c *Config) NewTeleop(d *st.Driver) *Teleop {
	t := NewTeleop(d)
	t.Config = *c
	return t
}
