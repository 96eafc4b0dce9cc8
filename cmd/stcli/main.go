package main

import (
	"github.com/robotalks/sabertooth/pkg/cli/sh"
	"github.com/robotalks/sabertooth/pkg/env"

	_ "github.com/robotalks/sabertooth/pkg/cli/cmds/driver"
	_ "github.com/robotalks/sabertooth/pkg/port/mqtt"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
