package env

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/sabertooth/pkg/packet"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
	"github.com/robotalks/sabertooth/pkg/telemetry"
)

// Config provides common options to set up a line and the motor driver on it.
type Config struct {
	// Port is a device path or URL accepted by port.Open.
	Port string `toml:"port"`
	// Address is the default motor driver address.
	Address int `toml:"address"`
	// UseChecksum selects checksum instead of CRC.
	UseChecksum bool `toml:"checksum"`
	// PollIntervalMS is the poll interval in milliseconds, 0 or -1 disables polling.
	PollIntervalMS int64 `toml:"poll_interval_ms"`
	// TimeoutMS is the reply timeout in milliseconds, 0 takes the default,
	// -1 waits forever.
	TimeoutMS int64 `toml:"timeout_ms"`

	// MQTTURL specifies the broker readings are published to.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string `toml:"mqtt_url"`
	// Source names this line in published topics.
	Source string `toml:"source"`
	// Channels lists the channels to read, see telemetry.ParseChannel.
	Channels []string `toml:"channels"`

	// ConfigFile is loaded by NewConfig, its values override flags.
	ConfigFile string `toml:"-"`
}

var defaultConfig = Config{
	Port:           "/dev/ttyACM0",
	Address:        int(packet.MinAddress),
	PollIntervalMS: int64(st.DefaultPollInterval / time.Millisecond),
	TimeoutMS:      int64(st.DefaultTimeout / time.Millisecond),
	MQTTURL:        "mqtt://localhost:1883/sabertooth/",
}

func init() {
	if val := os.Getenv("ST_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("ST_ADDRESS"); val != "" {
		if addr, err := strconv.Atoi(val); err == nil {
			defaultConfig.Address = addr
		}
	}
	if val := os.Getenv("ST_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ST_CONFIG"); val != "" {
		defaultConfig.ConfigFile = val
	}
	defaultConfig.Source = MachineID()
}

// stringList is a repeatable flag.
type stringList struct {
	values *[]string
}

func (l stringList) String() string {
	if l.values == nil {
		return ""
	}
	return strings.Join(*l.values, ",")
}

func (l stringList) Set(val string) error {
	*l.values = append(*l.values, val)
	return nil
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	defaultConfig.SetupFlagSet(flag.CommandLine)
}

// SetupFlagSet registers flags bound to c.
func (c *Config) SetupFlagSet(fs *flag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "Serial device or port URL.")
	fs.IntVar(&c.Address, "addr", c.Address, "Motor driver address (128-135).")
	fs.BoolVar(&c.UseChecksum, "checksum", c.UseChecksum, "Use checksum instead of CRC.")
	fs.Int64Var(&c.PollIntervalMS, "poll-interval", c.PollIntervalMS, "Poll interval in ms, 0 or -1 sends get requests immediately.")
	fs.Int64Var(&c.TimeoutMS, "timeout", c.TimeoutMS, "Reply timeout in ms, 0 for default, -1 waits forever.")
	fs.StringVar(&c.MQTTURL, "mqtt", c.MQTTURL, "MQTT broker URL.")
	fs.StringVar(&c.Source, "source", c.Source, "Source name in published topics.")
	fs.Var(stringList{&c.Channels}, "channel", "Channel to read as ADDR:TN[:KIND[:raw]], repeatable.")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "TOML config file.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations, and loads
// ConfigFile if specified.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	conf.Channels = append([]string(nil), defaultConfig.Channels...)
	if conf.ConfigFile != "" {
		if err := conf.LoadFile(conf.ConfigFile); err != nil {
			return nil, err
		}
	}
	return &conf, nil
}

// LoadFile loads a TOML file into c. Keys absent in the file are left unchanged.
func (c *Config) LoadFile(fn string) error {
	md, err := toml.DecodeFile(fn, c)
	if err != nil {
		return fmt.Errorf("load config %s: %v", fn, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown keys %v", fn, undecoded)
	}
	return nil
}

// SerialConfig converts to the configuration of the protocol engine.
func (c *Config) SerialConfig() st.Config {
	conf := st.Config{
		PollInterval: st.DurationFromMS(c.PollIntervalMS),
		UseChecksum:  c.UseChecksum,
	}
	if c.TimeoutMS != 0 {
		conf.Timeout = st.DurationFromMS(c.TimeoutMS)
	}
	return conf
}

// ParseChannels parses Channels.
func (c *Config) ParseChannels() ([]telemetry.Channel, error) {
	return telemetry.ParseChannels(c.Channels)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must be specified")
	}
	if c.Address < int(packet.MinAddress) || c.Address > int(packet.MaxAddress) {
		return fmt.Errorf("invalid address %d, expect %d..%d",
			c.Address, packet.MinAddress, packet.MaxAddress)
	}
	if _, err := c.ParseChannels(); err != nil {
		return err
	}
	return c.SerialConfig().Validate()
}
