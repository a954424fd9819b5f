package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Values already present in the environment win over .env entries.
	_ = godotenv.Load(".env")

	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches to a command and returns the process exit code.
// A first argument that is not a command starts a conversion, so
// `html2img page.html` and `html2img convert page.html` are equivalent.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		return runConvertCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "html2img %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(args[1:], env)
	}

	if looksLikeCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return runConvertCmd(args, env)
}

// looksLikeCommand reports whether arg is a bare word rather than a flag or
// a path, so typos like `html2img conver` are not treated as input files.
func looksLikeCommand(arg string) bool {
	if strings.HasPrefix(arg, "-") || strings.ContainsAny(arg, `./\`) {
		return false
	}
	_, err := os.Stat(arg)
	return err != nil
}
