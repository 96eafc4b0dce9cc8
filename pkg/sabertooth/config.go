package sabertooth

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Defaults for Config.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultTimeout      = 3000 * time.Millisecond
)

// Config configures a Serial.
// Zero fields take defaults.
type Config struct {
	// PollInterval is the spacing between transmissions of a get request.
	// Infinite disables polling: requests are sent as soon as they are armed.
	// Zero takes the default, use DurationFromMS(0) or Infinite to disable.
	PollInterval time.Duration
	// Timeout is how long to wait for a reply. Infinite waits forever.
	Timeout time.Duration
	// UseChecksum selects checksum instead of CRC for new Drivers.
	UseChecksum bool
	// Clock is the time source, the wall clock by default.
	Clock clock.Clock
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: DefaultPollInterval,
		Timeout:      DefaultTimeout,
	}
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return c
}

// UseCRC indicates whether new Drivers use CRC.
func (c Config) UseCRC() bool {
	return !c.UseChecksum
}

// Validate checks the configuration. Negative durations other than
// Infinite are rejected.
func (c Config) Validate() error {
	if c.PollInterval < 0 && c.PollInterval != Infinite {
		return fmt.Errorf("invalid poll interval %v", c.PollInterval)
	}
	if c.Timeout < 0 && c.Timeout != Infinite {
		return fmt.Errorf("invalid timeout %v", c.Timeout)
	}
	return nil
}

// DurationFromMS converts milliseconds from configuration files, where
// zero or any negative number means Infinite.
func DurationFromMS(ms int64) time.Duration {
	if ms <= 0 {
		return Infinite
	}
	return time.Duration(ms) * time.Millisecond
}
