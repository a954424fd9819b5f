package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2img <command> [flags] [args]")
	fmt.Fprintln(w, "       html2img <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Render HTML or Markdown files to PNG/JPEG images")
	fmt.Fprintln(w, "  doctor     Check browsers and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2img help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2img convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render each input to a full-page image. Pages taller than the viewport")
	fmt.Fprintln(w, "grow the capture up to 10000 pixels.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML/Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Directories are scanned for .html, .htm, .md, .markdown (not recursive)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each input)")
	fmt.Fprintln(w, "  -f, --format <s>          Image format: png, jpeg (default: png)")
	fmt.Fprintln(w, "  -W, --width <n>           Viewport width in pixels, 1-10000 (default: 1920)")
	fmt.Fprintln(w, "  -H, --height <n>          Minimum height in pixels, 1-10000 (default: 1080)")
	fmt.Fprintln(w, "  -q, --quality <n>         JPEG quality, 1-100 (default: 95)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --backend <s>         Automation backend: rod, chromedp (default: rod)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --strategy <s>        Acquisition order, repeatable or comma-separated:")
	fmt.Fprintln(w, "                            system-chrome, managed-chromium, system-edge")
	fmt.Fprintln(w, "      --no-sandbox          Disable the browser sandbox (Docker, CI)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (default: 60s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Readiness:")
	fmt.Fprintln(w, "      --readiness <s>       Settle policy: fixed, event (default: fixed)")
	fmt.Fprintln(w, "      --settle-load <d>     Wait after page load (default: 3s)")
	fmt.Fprintln(w, "      --settle-scroll <d>   Wait after scrolling to top (default: 1s)")
	fmt.Fprintln(w, "      --settle-resize <d>   Wait after resizing to content (default: 2s)")
	fmt.Fprintln(w, "      --settle-quiet <d>    Quiet period for the event policy (default: 250ms)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --style <name|path>   Embedded style name or CSS file")
	fmt.Fprintln(w, "      --code-theme <s>      Syntax highlighting theme")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config & Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging and detailed timing")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2IMG_* variables override the config file; flags override both.")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded at startup.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2img doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report which browsers each acquisition strategy would use, sandbox")
	fmt.Fprintln(w, "status, container/CI detection and temp directory access.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2img version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2img help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
