package rig

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/coretalks/ulp.go/pkg/cli/sh"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
)

var (
	// StatusCmd exposes RigStatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.RigStatusQuery{})
		}),
	}

	// PeekCmd exposes PeekQuery command reading retained memory.
	PeekCmd = ishell.Cmd{
		Name:    "peek",
		Aliases: []string{"pk"},
		Help:    "SYMBOL|ADDR",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SYMBOL or ADDR required"))
				return
			}
			var msg msgs.PeekQuery
			if addr, err := strconv.ParseUint(c.Args[0], 0, 32); err == nil {
				msg.Addr = uint32(addr)
			} else {
				msg.Symbol = c.Args[0]
			}
			sh.DoCommand(c, &msg)
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&PeekCmd,
	)
}
