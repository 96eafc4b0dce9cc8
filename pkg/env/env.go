package env

import (
	"log"

	"github.com/pkg/errors"

	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/port"
	"github.com/robotalks/sabertooth/pkg/port/mqtt"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

// Env is an opened line with the default motor driver on it.
type Env struct {
	Config *Config
	Conn   port.Conn
	Serial *st.Serial
	Driver *st.Driver
}

// NewEnv opens the port and creates the protocol engine.
func (c *Config) NewEnv() (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	conn, err := port.Open(c.Port)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", c.Port)
	}
	env := &Env{
		Config: c,
		Conn:   conn,
		Serial: st.NewSerial(conn, c.SerialConfig()),
	}
	if env.Driver, err = st.NewDriver(env.Serial, byte(c.Address)); err != nil {
		conn.Close()
		return nil, err
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// NewQueue creates a Queue for the broker in MQTTURL, not connected yet.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	if c.MQTTURL == "" {
		return nil, errors.New("MQTT broker URL must be specified")
	}
	q, err := mqtt.NewQueueFromURL(c.MQTTURL)
	if err != nil {
		return nil, errors.Wrap(err, "create MQTT queue")
	}
	return q, nil
}

// AddToLoop runs the port with the loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun(e.Config.Port, e.Conn))
}

// Close closes the port.
func (e *Env) Close() error {
	return e.Conn.Close()
}
