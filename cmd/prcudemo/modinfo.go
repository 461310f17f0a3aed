// modinfo.go implements the 'prcudemo modinfo' command.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/mod/modfile"
)

// modinfoCommand parses a go.mod file with golang.org/x/mod/modfile and
// prints its module path, Go directive, and required modules.
//
// This reuses the same dependency the original racedetector tool
// declared for reading a target program's go.mod before overlaying its
// runtime; here it reads prcu's own go.mod instead, since this module has
// no source-instrumentation step to overlay anything into.
func modinfoCommand(args []string) {
	fs := flag.NewFlagSet("modinfo", flag.ExitOnError)
	file := fs.String("file", "go.mod", "path to the go.mod file to inspect")
	_ = fs.Parse(args)

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	mf, err := modfile.Parse(*file, data, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *file, err)
		os.Exit(1)
	}

	if mf.Module != nil {
		fmt.Printf("module:  %s\n", mf.Module.Mod.Path)
	}
	if mf.Go != nil {
		fmt.Printf("go:      %s\n", mf.Go.Version)
	}
	if mf.Toolchain != nil {
		fmt.Printf("toolchain: %s\n", mf.Toolchain.Name)
	}
	if len(mf.Require) == 0 {
		fmt.Println("require: (none)")
		return
	}
	fmt.Println("require:")
	for _, r := range mf.Require {
		indirect := ""
		if r.Indirect {
			indirect = " // indirect"
		}
		fmt.Printf("  %s %s%s\n", r.Mod.Path, r.Mod.Version, indirect)
	}
}
