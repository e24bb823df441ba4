//go:build ignore

// build.go - mortality dashboard build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, report, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const contractsPkg = "mortalitydash/pkg/contracts"

var (
	distDir = "dist"

	// key = directory under cmd/, value = binary name without extension
	executables = map[string]string{
		"web":    "mortalitydash",
		"report": "mortality-report",
	}

	info    = color.New(color.FgBlue)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	color.New(color.FgCyan, color.Bold).Println("Mortality Dashboard - Build")
	fmt.Println()

	start := time.Now()
	switch *target {
	case "all":
		for _, name := range []string{"web", "report"} {
			buildExecutable(name, *verbose)
		}
	case "web", "report":
		buildExecutable(*target, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	default:
		showHelp()
		os.Exit(1)
	}

	success.Printf("[SUCCESS] ")
	fmt.Printf("Build completed in %s\n", time.Since(start).Round(time.Millisecond))
}

func printInfo(msg string) {
	info.Printf("[INFO] ")
	fmt.Println(msg)
}

func fail(msg string) {
	failure.Printf("[ERROR] ")
	fmt.Println(msg)
	os.Exit(1)
}

// gitOutput returns trimmed git output, or "unknown" outside a checkout
func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func ldflags() string {
	vars := map[string]string{
		"BuildTime": time.Now().UTC().Format(time.RFC3339),
		"GitCommit": gitOutput("rev-parse", "--short", "HEAD"),
		"GitBranch": gitOutput("rev-parse", "--abbrev-ref", "HEAD"),
	}
	flags := []string{"-s", "-w"}
	for name, value := range vars {
		flags = append(flags, fmt.Sprintf("-X %s.%s=%s", contractsPkg, name, value))
	}
	return strings.Join(flags, " ")
}

func buildExecutable(name string, verbose bool) {
	binary, ok := executables[name]
	if !ok {
		fail(fmt.Sprintf("Unknown executable: %s", name))
	}
	if runtime.GOOS == "windows" {
		binary += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s...", name))
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		fail(fmt.Sprintf("Failed to create %s: %v", distDir, err))
	}

	output := filepath.Join(distDir, binary)
	args := []string{"build", "-trimpath", "-ldflags", ldflags(), "-o", output, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fail(fmt.Sprintf("Failed to build %s: %v", name, err))
	}

	if st, err := os.Stat(output); err == nil {
		success.Printf("[SUCCESS] ")
		fmt.Printf("Built %s (%.1f MB)\n", binary, float64(st.Size())/1024/1024)
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fail(fmt.Sprintf("Go tests failed: %v", err))
	}
}

func clean() {
	printInfo("Cleaning build artifacts and exports...")
	for _, dir := range []string{distDir, "exports", "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			fail(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all     build the dashboard server and the report CLI")
	fmt.Println("  web     build the dashboard server only")
	fmt.Println("  report  build the report CLI only")
	fmt.Println("  test    run go test -race ./...")
	fmt.Println("  clean   remove dist/, exports/ and logs/")
}
