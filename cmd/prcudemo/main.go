// Package main implements the prcudemo CLI tool.
//
// prcudemo is a small command-line companion to the prcu module. It does
// not instrument anything; it exists to let someone exercise the PRCU
// primitive from a shell without writing Go, and to sanity-check which
// module version and Go toolchain a given checkout declares.
//
// Usage:
//
//	prcudemo demo        # run a small reader/writer/callback workload
//	prcudemo modinfo      # print this module's declared path and toolchain
//	prcudemo version      # print the prcudemo tool version
package main

import (
	"fmt"
	"os"
)

const toolVersion = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		demoCommand(os.Args[2:])
	case "modinfo":
		modinfoCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("prcudemo version %s\n", toolVersion)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`prcudemo - Preemptible Read-Copy-Update demo tool

USAGE:
    prcudemo <command> [arguments]

COMMANDS:
    demo       Run a small reader/writer/callback workload against prcu
    modinfo    Print the module path and Go toolchain declared by go.mod
    version    Show version information
    help       Show this help message

EXAMPLES:
    prcudemo demo -readers 8 -shards 4
    prcudemo modinfo -file go.mod

`)
}
