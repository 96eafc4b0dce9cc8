package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/robotalks/sabertooth/pkg/env"
	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/telemetry"

	_ "github.com/robotalks/sabertooth/pkg/port/mqtt"
)

var interval = fx.DefaultInterval

func init() {
	env.SetupFlags()
	flag.DurationVar(&interval, "interval", interval, "Loop interval.")
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	channels, err := conf.ParseChannels()
	if err != nil {
		log.Fatalln(err)
	}
	if len(channels) == 0 {
		log.Fatalln("at least one -channel is required")
	}
	e := conf.MustNewEnv()
	defer e.Close()
	q, err := conf.NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	loop := fx.NewLoop().Add(
		e,
		telemetry.NewPoller(e.Serial, conf.Source, channels...),
		&telemetry.Publisher{Sink: q},
	)
	loop.Interval = interval
	if loop.Interval <= 0 {
		loop.Interval = time.Millisecond
	}
	if err = fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
