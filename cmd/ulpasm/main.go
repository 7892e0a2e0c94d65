package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/coretalks/ulp.go/pkg/ulp/asm"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

var (
	outFile string
	dump    bool
)

func init() {
	flag.StringVar(&outFile, "o", outFile, "Output image file, defaults to the source name with .bin.")
	flag.BoolVar(&dump, "d", dump, "Dump the listing of an assembled image instead of assembling.")
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalln("exactly one input file expected")
	}
	name := flag.Arg(0)
	data, err := ioutil.ReadFile(name)
	if err != nil {
		log.Fatalln(err)
	}

	if dump {
		img, err := image.Decode(data)
		if err != nil {
			log.Fatalln(err)
		}
		if err = asm.Dump(os.Stdout, img); err != nil {
			log.Fatalln(err)
		}
		return
	}

	img, err := asm.Assemble(data)
	if err != nil {
		log.Fatalln(err)
	}
	out, err := image.Encode(img)
	if err != nil {
		log.Fatalln(err)
	}
	if outFile == "" {
		outFile = strings.TrimSuffix(name, filepath.Ext(name)) + ".bin"
	}
	if err = ioutil.WriteFile(outFile, out, 0644); err != nil {
		log.Fatalln(err)
	}
}
