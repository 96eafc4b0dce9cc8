package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/robotalks/sabertooth/pkg/env"
	fx "github.com/robotalks/sabertooth/pkg/framework"
	"github.com/robotalks/sabertooth/pkg/port"
	"github.com/robotalks/sabertooth/pkg/port/mqtt"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	conn, err := port.Open(conf.Port)
	if err != nil {
		log.Fatalln(err)
	}
	stream, ok := conn.(*port.Stream)
	if !ok {
		log.Fatalf("%s can't be relayed", conf.Port)
	}
	defer stream.Close()
	q, err := conf.NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	relay := mqtt.NewRelay(q, stream)
	if err = fx.NewRunner().HandleSignals().Go(relay).Wait(); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
