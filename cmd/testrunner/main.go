// Command testrunner runs precompiled test binaries (built with
// `go test -c`) in a unit pass, then optionally re-runs selected packages
// in an integration pass against live dependencies.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"syscall"
)

type options struct {
	testsDir  string
	workDir   string
	short     bool
	parallel  int
	count     int
	verbose   bool
	integRun  string
	integPkgs []string
}

func main() {
	var (
		opts      options
		integPkgs string
	)
	flag.StringVar(&opts.testsDir, "tests-dir", "/app/tests", "directory containing compiled test binaries")
	flag.StringVar(&opts.workDir, "work-dir", "/app", "fallback working directory for binaries without a package dir")
	flag.BoolVar(&opts.short, "short", false, "run tests with -test.short")
	flag.IntVar(&opts.parallel, "pkg-parallel", runtime.NumCPU(), "number of packages to run in parallel")
	flag.IntVar(&opts.count, "count", 1, "pass -test.count to disable caching when set to 1")
	flag.StringVar(&opts.integRun, "integration-run", "", "regex of integration test(s) to run with -test.run")
	flag.StringVar(&integPkgs, "integration-path", "", "comma separated package paths like 'api/router,api/services/efi/db'")
	flag.BoolVar(&opts.verbose, "v", true, "add -test.v to test binaries")
	flag.Parse()
	opts.integPkgs = splitList(integPkgs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("==> All tests passed")
}

func run(ctx context.Context, opts options) error {
	bins, err := collectTestBinaries(opts.testsDir)
	if err != nil {
		return err
	}
	if len(bins) == 0 {
		return errors.New("no test binaries found")
	}

	var integBins []string
	if opts.integRun != "" {
		if len(opts.integPkgs) == 0 {
			return errors.New("integration-path is required when integration-run is set")
		}
		for _, pkg := range opts.integPkgs {
			bin := filepath.Join(opts.testsDir, filepath.FromSlash(pkg)+".test")
			if _, err := os.Stat(bin); err != nil {
				return fmt.Errorf("integration binary not found at %s: %w", bin, err)
			}
			integBins = append(integBins, bin)
		}
	}

	// Integration packages are left out of the unit pass so they run once.
	unitBins := make([]string, 0, len(bins))
	for _, b := range bins {
		if !containsFile(integBins, b) {
			unitBins = append(unitBins, b)
		}
	}

	fmt.Println("==> Running unit tests")
	if err := runBinaries(ctx, unitBins, testArgs(opts, 0), opts.parallel, opts.workDir); err != nil {
		return err
	}

	if len(integBins) > 0 {
		fmt.Printf("==> Running integration tests in %s with -test.run=%s\n", strings.Join(opts.integPkgs, ", "), opts.integRun)
		args := append(testArgs(opts, 1), "-test.run", opts.integRun)
		if err := runBinaries(ctx, integBins, args, 1, opts.workDir); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func collectTestBinaries(root string) ([]string, error) {
	var bins []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".test") {
			bins = append(bins, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(bins)
	return bins, nil
}

// testArgs builds the flags passed to every binary. testParallel of 0
// keeps the binary's default.
func testArgs(opts options, testParallel int) []string {
	var args []string
	if opts.verbose {
		args = append(args, "-test.v")
	}
	if opts.short {
		args = append(args, "-test.short")
	}
	if opts.count > 0 {
		args = append(args, fmt.Sprintf("-test.count=%d", opts.count))
	}
	if testParallel > 0 {
		args = append(args, fmt.Sprintf("-test.parallel=%d", testParallel))
	}
	return args
}

// runBinaries runs up to parallel binaries at once and reports every failure.
func runBinaries(ctx context.Context, bins, args []string, parallel int, workDir string) error {
	if parallel < 1 {
		parallel = 1
	}
	sem := make(chan struct{}, parallel)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, b := range bins {
		wg.Add(1)
		sem <- struct{}{}
		go func(bin string) {
			defer wg.Done()
			defer func() { <-sem }()

			cmd := exec.CommandContext(ctx, bin, args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			cmd.Env = os.Environ()
			cmd.Dir = packageDir(bin, workDir)

			fmt.Printf("[RUN] %s %s\n", bin, strings.Join(args, " "))
			if err := cmd.Run(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s failed: %w", bin, err))
				mu.Unlock()
			}
		}(b)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// packageDir runs a binary from the package-like directory next to it so
// relative fixtures and .env discovery behave as under `go test`.
func packageDir(bin, fallback string) string {
	dir := strings.TrimSuffix(bin, ".test")
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir
	}
	return fallback
}

func containsFile(list []string, path string) bool {
	p, _ := filepath.Abs(path)
	for _, item := range list {
		if q, _ := filepath.Abs(item); q == p {
			return true
		}
	}
	return false
}
