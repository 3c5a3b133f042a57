package main

import (
	"github.com/robotalks/hilval/pkg/cli/sh"
	"github.com/robotalks/hilval/pkg/env"
)

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
