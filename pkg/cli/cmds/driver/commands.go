package driver

import (
	"fmt"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/sabertooth/pkg/cli/sh"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
)

func setCmd(name string, aliases []string, help string, fn func(c *ishell.Context, d *st.Driver) error) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoSet(c, fn(c, sh.DriverFrom(c)))
		}),
	}
}

func numberValueCmd(name string, aliases []string, set func(d *st.Driver, number byte, value int) error) *ishell.Cmd {
	return setCmd(name, aliases, "NUMBER VALUE", func(c *ishell.Context, d *st.Driver) error {
		number, err := sh.ArgInt(c, 0, "NUMBER")
		if err != nil {
			return err
		}
		value, err := sh.ArgInt(c, 1, "VALUE")
		if err != nil {
			return err
		}
		return set(d, byte(number), value)
	})
}

func valueCmd(name string, aliases []string, set func(d *st.Driver, value int) error) *ishell.Cmd {
	return setCmd(name, aliases, "VALUE", func(c *ishell.Context, d *st.Driver) error {
		value, err := sh.ArgInt(c, 0, "VALUE")
		if err != nil {
			return err
		}
		return set(d, value)
	})
}

func getTypeCmd(name string, getType st.GetType) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: "NUMBER [raw]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			number, err := sh.ArgInt(c, 0, "NUMBER")
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoGet(c, st.TypeMotor, byte(number), getType, sh.HasFlag(c, 1, "raw"))
		}),
	}
}

var (
	// SetCmd sets a value of any channel.
	SetCmd = setCmd("set", []string{"s"}, "TN VALUE", func(c *ishell.Context, d *st.Driver) error {
		typ, number, err := sh.ArgTypeNumber(c, 0)
		if err != nil {
			return err
		}
		value, err := sh.ArgInt(c, 1, "VALUE")
		if err != nil {
			return err
		}
		return d.Set(typ, number, value)
	})

	// GetCmd gets a value of any channel.
	GetCmd = &ishell.Cmd{
		Name:    "get",
		Aliases: []string{"g"},
		Help:    "TN [value|battery|current|temperature] [raw]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			typ, number, err := sh.ArgTypeNumber(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			getType := st.GetTypeValue
			if len(c.Args) > 1 && c.Args[1] != "raw" {
				if getType, err = st.ParseGetType(c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			sh.DoGet(c, typ, number, getType, sh.HasFlag(c, 1, "raw"))
		}),
	}

	// MotorCmd sets a motor output.
	MotorCmd = numberValueCmd("motor", []string{"m"}, (*st.Driver).Motor)
	// PowerCmd sets a power output.
	PowerCmd = numberValueCmd("power", []string{"p"}, (*st.Driver).Power)
	// FreewheelCmd sets freewheeling of a motor.
	FreewheelCmd = setCmd("freewheel", []string{"q"}, "NUMBER [on|off|VALUE]", func(c *ishell.Context, d *st.Driver) error {
		number, err := sh.ArgInt(c, 0, "NUMBER")
		if err != nil {
			return err
		}
		value := st.FreewheelDefault
		if len(c.Args) > 1 {
			switch c.Args[1] {
			case "on":
			case "off":
				value = 0
			default:
				if value, err = sh.ArgInt(c, 1, "VALUE"); err != nil {
					return err
				}
			}
		}
		return d.Freewheel(byte(number), value)
	})
	// RampCmd sets ramping.
	RampCmd = setCmd("ramp", []string{"r"}, "NUMBER|* VALUE", func(c *ishell.Context, d *st.Driver) error {
		if len(c.Args) < 1 {
			return fmt.Errorf("NUMBER required")
		}
		number := st.NumberAll
		if c.Args[0] != "*" {
			n, err := sh.ArgInt(c, 0, "NUMBER")
			if err != nil {
				return err
			}
			number = byte(n)
		}
		value, err := sh.ArgInt(c, 1, "VALUE")
		if err != nil {
			return err
		}
		return d.SetRamping(number, value)
	})

	// DriveCmd sets the forward speed in mixed mode.
	DriveCmd = valueCmd("drive", []string{"dr"}, (*st.Driver).Drive)
	// TurnCmd sets the turning speed in mixed mode.
	TurnCmd = valueCmd("turn", []string{"t"}, (*st.Driver).Turn)

	// ShutdownCmd shuts down an output or brings it back.
	ShutdownCmd = setCmd("shutdown", nil, "TN [on|off]", func(c *ishell.Context, d *st.Driver) error {
		typ, number, err := sh.ArgTypeNumber(c, 0)
		if err != nil {
			return err
		}
		return d.ShutDown(typ, number, len(c.Args) < 2 || c.Args[1] != "off")
	})

	// TimeoutCmd sets the serial timeout of the driver.
	TimeoutCmd = valueCmd("timeout", nil, func(d *st.Driver, ms int) error {
		return d.SetTimeout(time.Duration(ms) * time.Millisecond)
	})

	// KeepAliveCmd resets the serial timeout of the driver.
	KeepAliveCmd = setCmd("keepalive", []string{"k"}, "", func(c *ishell.Context, d *st.Driver) error {
		return d.KeepAlive()
	})

	// BatteryCmd reads the battery voltage.
	BatteryCmd = getTypeCmd("battery", st.GetTypeBattery)
	// CurrentCmd reads the motor current.
	CurrentCmd = getTypeCmd("current", st.GetTypeCurrent)
	// TemperatureCmd reads the temperature.
	TemperatureCmd = getTypeCmd("temperature", st.GetTypeTemperature)
)

func init() {
	sh.AddCmds(
		SetCmd,
		GetCmd,
		MotorCmd,
		PowerCmd,
		FreewheelCmd,
		RampCmd,
		DriveCmd,
		TurnCmd,
		ShutdownCmd,
		TimeoutCmd,
		KeepAliveCmd,
		BatteryCmd,
		CurrentCmd,
		TemperatureCmd,
	)
}
