package main

import (
	"github.com/coretalks/ulp.go/pkg/cli/sh"
	env "github.com/coretalks/ulp.go/pkg/rig/env/connector"

	_ "github.com/coretalks/ulp.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
