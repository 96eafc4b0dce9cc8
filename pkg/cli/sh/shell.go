package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/sabertooth/pkg/env"
	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/packet"
	"github.com/robotalks/sabertooth/pkg/port"
	st "github.com/robotalks/sabertooth/pkg/sabertooth"
	"github.com/robotalks/sabertooth/pkg/telemetry"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *env.Config
	Line   *Line
}

// Line is an opened port with a running loop.
type Line struct {
	Ctx    context.Context
	Cancel func()
	Env    *env.Env
	Loop   *fx.Loop
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&AddrCmd,
		&CRCCmd,
		&RawCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// DriverFrom gets the Driver of the opened line.
func DriverFrom(c *ishell.Context) *st.Driver {
	return ShellFrom(c).Line.Env.Driver
}

// MustBeConnected wraps command func requires an opened line.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Line == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// ArgInt parses c.Args[n] as an integer.
func ArgInt(c *ishell.Context, n int, name string) (int, error) {
	if len(c.Args) <= n {
		return 0, fmt.Errorf("%s required", name)
	}
	val, err := strconv.Atoi(c.Args[n])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return val, nil
}

// ArgTypeNumber parses c.Args[n] as a channel selector like M1.
func ArgTypeNumber(c *ishell.Context, n int) (typ, number byte, err error) {
	if len(c.Args) <= n {
		return 0, 0, fmt.Errorf("channel required, e.g. M1")
	}
	return st.ParseTypeNumber(c.Args[n])
}

// HasFlag checks if an argument after n equals name, e.g. raw.
func HasFlag(c *ishell.Context, n int, name string) bool {
	for i := n; i < len(c.Args); i++ {
		if c.Args[i] == name {
			return true
		}
	}
	return false
}

// DoSet reports the result of a set command.
func DoSet(c *ishell.Context, err error) error {
	if err != nil {
		c.Err(err)
		return err
	}
	if ShellFrom(c).OutputJSON {
		c.Println(`{"ok":true}`)
		return nil
	}
	c.Println("OK")
	return nil
}

// DoGet runs a get request on the current driver and prints the reading.
func DoGet(c *ishell.Context, typ, number byte, getType st.GetType, unscaled bool) error {
	s := ShellFrom(c)
	if s.Line == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	d := s.Line.Env.Driver
	value, err := d.Serial.Get(s.Line.Ctx, d.Request(typ, number, getType, unscaled))
	reading := &telemetry.Reading{
		Source: s.Config.Source,
		Channel: telemetry.Channel{
			Address:  d.Address(),
			Type:     typ,
			Number:   number,
			GetType:  getType,
			Unscaled: unscaled,
		},
		Value: value,
		Time:  time.Now(),
	}
	if err != nil {
		reading.Error = err.Error()
	}
	if s.OutputJSON {
		out, jsonErr := reading.JSON()
		if jsonErr != nil {
			c.Err(jsonErr)
			return jsonErr
		}
		c.Println(out)
		return err
	}
	if err != nil {
		c.Err(fmt.Errorf("%s: %v", reading.Channel, err))
		return err
	}
	c.Println(value)
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens a port, replacing the current line.
func (s *Shell) Connect(portURL string) error {
	conf := *s.Config
	conf.Port = portURL
	e, err := conf.NewEnv()
	if err != nil {
		return err
	}
	line := &Line{Env: e, Loop: fx.NewLoop().Add(e)}
	line.Ctx, line.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Line = line
	go func() {
		if err := line.Loop.Run(line.Ctx); err != nil && err != context.Canceled {
			log.Printf("%s: %v", portURL, err)
		}
	}()
	s.updatePrompt()
	return nil
}

// Disconnect closes current line.
func (s *Shell) Disconnect() {
	if s.Line != nil {
		s.Line.Cancel()
		s.Line.Env.Close()
		s.Line = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (s *Shell) updatePrompt() {
	if s.Line == nil {
		s.Shell.SetPrompt(unconnectedPrompt)
		return
	}
	d := s.Line.Env.Driver
	mode := "crc"
	if !d.UsingCRC() {
		mode = "sum"
	}
	s.Shell.SetPrompt(fmt.Sprintf("[%s %d %s] > ", s.Line.Env.Config.Port, d.Address(), mode))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Port)
		}
		if err := s.Connect(s.Config.Port); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Port, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := port.ListSerial()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			c.Println(strings.Join(ports, "\n"))
		},
	}

	// OpenCmd opens a port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"connect", "c"},
		Help:    "PORT",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			portURL := s.Config.Port
			if len(c.Args) > 0 {
				portURL = c.Args[0]
			}
			if err := s.Connect(portURL); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current port.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"disconnect", "d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// AddrCmd shows or switches the driver address.
	AddrCmd = ishell.Cmd{
		Name: "addr",
		Help: "[ADDRESS]",
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				c.Println(s.Line.Env.Driver.Address())
				return
			}
			addr, err := ArgInt(c, 0, "ADDRESS")
			if err != nil {
				c.Err(err)
				return
			}
			if addr < 0 || addr > 255 {
				c.Err(fmt.Errorf("invalid ADDRESS %d", addr))
				return
			}
			d, err := st.NewDriver(s.Line.Env.Serial, byte(addr))
			if err != nil {
				c.Err(err)
				return
			}
			if !s.Line.Env.Driver.UsingCRC() {
				d.UseChecksum()
			}
			s.Line.Env.Driver = d
			s.updatePrompt()
		}),
	}

	// CRCCmd shows or switches between CRC and checksum.
	CRCCmd = ishell.Cmd{
		Name: "crc",
		Help: "[on|off]",
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ShellFrom(c)
			d := s.Line.Env.Driver
			if len(c.Args) == 0 {
				c.Println(d.UsingCRC())
				return
			}
			switch c.Args[0] {
			case "on", "true", "1":
				d.UseCRC()
			case "off", "false", "0":
				d.UseChecksum()
			default:
				c.Err(fmt.Errorf("expect on or off"))
				return
			}
			s.updatePrompt()
		}),
	}

	// RawCmd sends a raw command.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "COMMAND [DATA...]",
		Func: MustBeConnected(func(c *ishell.Context) {
			cmd, err := ArgInt(c, 0, "COMMAND")
			if err != nil {
				c.Err(err)
				return
			}
			if cmd < 0 || cmd >= packet.CRCOffset {
				c.Err(fmt.Errorf("invalid COMMAND %d", cmd))
				return
			}
			data := make([]byte, 0, len(c.Args)-1)
			for n := 1; n < len(c.Args); n++ {
				val, err := ArgInt(c, n, "DATA")
				if err != nil || val < 0 || val > 127 {
					c.Err(fmt.Errorf("invalid DATA %q", c.Args[n]))
					return
				}
				data = append(data, byte(val))
			}
			if len(data) > packet.MaxDataLen {
				c.Err(fmt.Errorf("at most %d DATA bytes", packet.MaxDataLen))
				return
			}
			DoSet(c, DriverFrom(c).Command(packet.Command(cmd), data...))
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).WithAutoConnect(true).Run(flag.Args()...)
}
