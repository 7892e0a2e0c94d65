package main

//go-build: CGO_ENABLED=0

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/coretalks/ulp.go/pkg/blink"
	"github.com/coretalks/ulp.go/pkg/board"
	"github.com/coretalks/ulp.go/pkg/board/neopixel"
	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	env "github.com/coretalks/ulp.go/pkg/rig/env/controller"
	"github.com/coretalks/ulp.go/pkg/rig/panel"
	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

//go:generate go run github.com/coretalks/ulp.go/cmd/ulpasm -o ulp/blink.bin ulp/blink.s

//go:embed ulp/blink.bin
var blinkBin []byte

func init() {
	env.SetRigType("ulp-blink", rig.Meta{Description: "ULP blink demo"})
	env.SetupFlags()
	panel.SetupFlags()
}

func main() {
	flag.Parse()

	env := env.NewConfig().MustNewEnv()

	fmt.Println("Starting ULP Program...")
	img, err := image.Decode(blinkBin)
	if err != nil {
		log.Fatalln(err)
	}
	gpio := board.NewSim()
	core := ulp.NewCore(gpio)
	if err = core.Load(img); err != nil {
		log.Fatalln(err)
	}
	if err = core.Run(ulp.Config{WakeupSource: ulp.WakeupTimer, SleepDuration: time.Second}); err != nil {
		log.Fatalln(err)
	}

	fmt.Println("Starting RGB LED blinking...")
	conf := blink.NewConfig()
	strip := neopixel.NewStrip(1)
	if err = strip.SetPixel(conf.Pixel, neopixel.Off); err != nil {
		log.Fatalln(err)
	}
	strip.Show()
	ctl := conf.NewController(strip, core, env.Registrar)

	loop := fx.NewLoop().Add(env, core, board.NewPinWatcher(gpio), ctl)
	if panelConf := panel.NewConfig(); panelConf.Enabled {
		loop.Add(panelConf.NewAdapter().Subscribe(ctl))
	}
	loop.RunOrFail()
}
