// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Command crate-avail checks whether crate names are available on crates.io.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/cheggaaa/pb"
	"github.com/fatih/color"
	"github.com/google/crate-avail/internal/cache"
	"github.com/google/crate-avail/internal/httpx"
	"github.com/google/crate-avail/pkg/avail"
	"github.com/google/crate-avail/pkg/registry/cratesio"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	quiet         bool
	availableOnly bool
	jsonOut       bool
	strategy      string
	configPath    string
	concurrency   int
	timeout       time.Duration
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// exitCode carries the availability outcome out of RunE: 1 if any name was
// unavailable, 3 if any lookup failed. Usage errors exit 2 via main.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "crate-avail [flags] [NAMES...]",
	Short: "Check whether crate names are truly available on crates.io",
	Long: `Check whether crate names are truly available on crates.io.

Each name passes three checks: validity (character rules, length), the
reserved names list (std, core, alloc, nul, com0, ...), and a live registry
lookup with canonical matching (hyphens and underscores are equivalent).
Names are read from the arguments and, when stdin is not a terminal, one per
line from stdin.

Recently deleted crates cannot be detected (that requires database access),
and a name passing all checks could still fail at publish time.

Exit codes: 0 all names available, 1 any name taken/reserved/invalid,
2 usage error, 3 any lookup failure.`,
	// Silence errors because main prints them itself.
	SilenceErrors: true,
	// Don't show usage for every error.
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, exit code only")
	rootCmd.Flags().BoolVarP(&availableOnly, "available-only", "a", false, "only print available names (lookup failures still shown)")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "output results as NDJSON (one JSON object per line)")
	rootCmd.Flags().StringVar(&strategy, "strategy", "index", "lookup strategy: index (sparse index) or api (crates.io API)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (flags take precedence)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", avail.MaxConcurrentRequests, "maximum simultaneous registry requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", cratesio.RequestTimeout, "per-request timeout")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "json")
	rootCmd.MarkFlagsMutuallyExclusive("available-only", "json")
}

type result struct {
	name   string
	status avail.Availability
	err    error
}

type jsonResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	names := slices.Clone(args)
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if trimmed := strings.TrimSpace(scanner.Text()); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "reading stdin")
		}
	}
	if len(names) == 0 {
		return errors.New("no crate names provided")
	}
	names = dedupe(names)

	cfg := &config{}
	if configPath != "" {
		var err error
		if cfg, err = loadConfig(configPath); err != nil {
			return err
		}
	}
	if !cmd.Flags().Changed("strategy") && cfg.Strategy != "" {
		strategy = cfg.Strategy
	}
	if !cmd.Flags().Changed("timeout") && cfg.Timeout != "" {
		timeout, _ = time.ParseDuration(cfg.Timeout)
	}
	if !cmd.Flags().Changed("concurrency") && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	if concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}

	checker, err := newChecker(cfg)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if len(names) > 1 && !quiet && !jsonOut && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = pb.New(len(names))
		bar.Output = cmd.ErrOrStderr()
		bar.Start()
	}

	// Results are keyed by input index so output order matches input order
	// regardless of which worker finishes first.
	results := make([]result, len(names))
	jobs := make(chan int)
	go func() {
		for i := range names {
			jobs <- i
		}
		close(jobs)
	}()
	var wg sync.WaitGroup
	for range min(concurrency, len(names)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				status, err := checker.Check(cmd.Context(), names[i])
				results[i] = result{name: names[i], status: status, err: err}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	return render(cmd, results)
}

// newChecker wires the lookup strategy behind a shared caching client, so
// duplicate probes within one batch hit the network once.
func newChecker(cfg *config) (avail.Checker, error) {
	client := httpx.NewCachedClient(&httpx.WithUserAgent{
		BasicClient: &http.Client{Timeout: timeout},
		UserAgent:   cratesio.UserAgent,
	}, &cache.CoalescingMemoryCache{})
	var registry avail.Registry
	switch strategy {
	case "api":
		r := cratesio.HTTPRegistry{Client: client}
		if cfg.RegistryURL != "" {
			u, err := url.Parse(cfg.RegistryURL)
			if err != nil {
				return avail.Checker{}, errors.Wrap(err, "parsing registry_url")
			}
			r.URL = u
		}
		registry = r
	case "index":
		r := cratesio.SparseIndex{Client: client}
		if cfg.IndexURL != "" {
			u, err := url.Parse(cfg.IndexURL)
			if err != nil {
				return avail.Checker{}, errors.Wrap(err, "parsing index_url")
			}
			r.URL = u
		}
		registry = r
	default:
		return avail.Checker{}, errors.Errorf("unknown strategy %q (want index or api)", strategy)
	}
	return avail.Checker{Registry: registry}, nil
}

func render(cmd *cobra.Command, results []result) error {
	out := cmd.OutOrStdout()
	var anyUnavailable bool
	var errorCount int
	for _, r := range results {
		isAvailable := r.err == nil && r.status == avail.Available
		var lookupErr *avail.LookupError
		isLookupFailure := errors.As(r.err, &lookupErr)
		// Lookup failures mean availability is undetermined; invalid names
		// are definitively unavailable.
		if !isAvailable && !isLookupFailure {
			anyUnavailable = true
		}
		if isLookupFailure {
			errorCount++
		}
		if quiet {
			continue
		}
		if jsonOut {
			jr := jsonResult{Name: r.name}
			switch {
			case r.err == nil:
				jr.Status = r.status.String()
			case isLookupFailure:
				jr.Status = "error"
				jr.Error = r.err.Error()
			default:
				jr.Status = "invalid"
				jr.Error = r.err.Error()
			}
			b, err := json.Marshal(jr)
			if err != nil {
				return errors.Wrap(err, "encoding result")
			}
			fmt.Fprintln(out, string(b))
			continue
		}
		if availableOnly && !isAvailable && !isLookupFailure {
			continue
		}
		var status string
		switch {
		case r.err != nil:
			status = sanitize(r.err.Error())
		case r.status == avail.Available:
			status = green(r.status.String())
		case r.status == avail.Taken:
			status = red(r.status.String())
		default:
			status = yellow(r.status.String())
		}
		fmt.Fprintf(out, "%s\t%s\n", sanitize(r.name), status)
	}
	if errorCount > 0 && !quiet {
		plural := ""
		if errorCount != 1 {
			plural = "s"
		}
		fmt.Fprintln(cmd.ErrOrStderr(), yellow("warning:"), fmt.Sprintf("%d name%s could not be checked (lookup failure)", errorCount, plural))
	}
	switch {
	case errorCount > 0:
		exitCode = 3
	case anyUnavailable:
		exitCode = 1
	}
	return nil
}

// dedupe drops names that share a canonical form with an earlier entry,
// preserving first-seen order and original spelling.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if canonical := avail.CanonicalName(name); !seen[canonical] {
			seen[canonical] = true
			out = append(out, name)
		}
	}
	return out
}

// sanitize escapes control characters so arbitrary input cannot corrupt the
// tab-separated output.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		switch {
		case ch == '\n':
			b.WriteString(`\n`)
		case ch == '\r':
			b.WriteString(`\r`)
		case ch == '\t':
			b.WriteString(`\t`)
		case ch == 0:
			b.WriteString(`\0`)
		case unicode.IsControl(ch):
			fmt.Fprintf(&b, `\x%02x`, ch)
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}
