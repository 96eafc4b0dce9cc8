package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/sabertooth/pkg/env"
	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/joystick"

	_ "github.com/robotalks/sabertooth/pkg/port/mqtt"
)

func init() {
	env.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	e := conf.MustNewEnv()
	defer e.Close()
	teleop := joystick.NewConfig().NewTeleop(e.Driver)
	loop := fx.NewLoop().Add(e, teleop)
	if err = fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
