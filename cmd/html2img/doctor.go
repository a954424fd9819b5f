package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-html2img"
	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/hints"
)

// versionTimeout bounds `<browser> --version` so a hung binary cannot stall doctor.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status     string         `json:"status"` // "ready", "warnings", "errors"
	Strategies []strategyInfo `json:"strategies"`
	Sandbox    bool           `json:"sandbox"`
	Env        envInfo        `json:"environment"`
	System     systemInfo     `json:"system"`
	Warnings   []string       `json:"warnings,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
}

// strategyInfo holds what one acquisition strategy would use.
type strategyInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
	Note      string `json:"note,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"html2img_no_sandbox"`
	BrowserBin    string `json:"html2img_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	jsonOutput := fs.Bool("json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v: %v\n", ErrUsage, err)
		return ExitUsage
	}

	result := runDoctor(context.Background())

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("HTML2IMG_NO_SANDBOX"),
			BrowserBin: os.Getenv("HTML2IMG_BROWSER_BIN"),
		},
	}

	checkStrategies(ctx, result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkStrategies resolves the binary of every acquisition strategy without
// launching anything. The managed download is never triggered.
func checkStrategies(ctx context.Context, result *doctorResult) {
	anyLocal := false
	for _, name := range html2img.StrategyNames() {
		info := strategyInfo{Name: name}

		var (
			path string
			err  error
		)
		switch name {
		case html2img.StrategySystemChrome:
			path, err = html2img.ResolveSystemChrome("")
		case html2img.StrategySystemEdge:
			path, err = html2img.ResolveSystemEdge()
		case html2img.StrategyManagedChromium:
			path = html2img.ManagedChromiumPath()
			if !fileutil.FileExists(path) {
				info.Path = path
				info.Note = "not downloaded yet; fetched on first use (needs network)"
				result.Strategies = append(result.Strategies, info)
				continue
			}
		}

		if err != nil {
			info.Note = err.Error()
			result.Strategies = append(result.Strategies, info)
			continue
		}

		info.Available = true
		info.Path = path
		info.Version, err = browserVersion(ctx, path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not get %s version: %v", name, err))
		}
		anyLocal = true
		result.Strategies = append(result.Strategies, info)
	}

	if !anyLocal {
		result.Warnings = append(result.Warnings,
			"No local browser found; the managed Chromium will be downloaded on first run")
	}
}

// browserVersion runs `<bin> --version`.
func browserVersion(ctx context.Context, bin string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "--version").Output() // #nosec G204 -- resolved browser binary
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()
	result.Env.CI = hints.InCI()

	// Mirrors the launcher: CI=true disables the sandbox too.
	result.Sandbox = result.Env.NoSandbox != "1" && os.Getenv("CI") != "true"

	if (result.Env.Container || result.Env.CI) && result.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the sandbox is enabled. Set HTML2IMG_NO_SANDBOX=1 or pass --no-sandbox")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("HTML2IMG_CONTAINER") == "1" {
		return true, "HTML2IMG_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for Markdown inputs is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	result.System.TempDir = tmpDir

	f, err := os.CreateTemp(tmpDir, "html2img-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "html2img doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser strategies")
	for _, s := range r.Strategies {
		if !s.Available {
			fmt.Fprintf(w, "  [--] %s: %s\n", s.Name, s.Note)
			continue
		}
		fmt.Fprintf(w, "  [OK] %s: %s\n", s.Name, s.Path)
		if s.Version != "" {
			fmt.Fprintf(w, "       %s\n", s.Version)
		}
	}
	if r.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: writable (%s)\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: not writable (%s)\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
