package image

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/abiosoft/ishell"

	"github.com/coretalks/ulp.go/pkg/cli/sh"
	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/asm"
	ulpimage "github.com/coretalks/ulp.go/pkg/ulp/image"
)

var (
	// ImageCmd inspects an assembled image file without a connection.
	ImageCmd = ishell.Cmd{
		Name:    "image",
		Aliases: []string{"img"},
		Help:    "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			data, err := ioutil.ReadFile(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			img, err := ulpimage.Decode(data)
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				syms := make(map[string]uint16, len(img.Symbols))
				for _, sym := range img.Symbols {
					syms[sym.Name] = sym.Addr
				}
				out, err := json.Marshal(struct {
					Instrs  int               `json:"instrs"`
					Words   int               `json:"words"`
					Symbols map[string]uint16 `json:"symbols"`
				}{len(img.Text) / ulp.InstrSize, img.RetainedWords(), syms})
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			var w bytes.Buffer
			if err := asm.Dump(&w, img); err != nil {
				c.Err(err)
				return
			}
			c.Print(w.String())
		},
	}
)

func init() {
	sh.AddCmds(
		&ImageCmd,
	)
}
