// internal/report/targets.go
// Package report summarizes several benchmark prefixes and renders the results.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mwiater/runsummary/internal/summary"
)

// ErrBadTarget is returned for a target argument without a prefix.
var ErrBadTarget = errors.New("invalid target")

// Target is one benchmark prefix and the label printed for it.
type Target struct {
	Prefix string `json:"prefix"`
	Label  string `json:"label"`
}

// ParseTarget parses "prefix=label". A bare prefix is labelled with its base name.
func ParseTarget(arg string) (Target, error) {
	prefix, label, found := strings.Cut(arg, "=")
	if prefix == "" {
		return Target{}, fmt.Errorf("%w %q: empty prefix", ErrBadTarget, arg)
	}
	if !found {
		label = filepath.Base(prefix)
	}
	return Target{Prefix: prefix, Label: label}, nil
}

// ParseTargets parses every argument with ParseTarget.
func ParseTargets(args []string) ([]Target, error) {
	targets := make([]Target, 0, len(args))
	for _, arg := range args {
		t, err := ParseTarget(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Discover returns a target for every file in dir whose name ends with
// revisionSuffix, sorted by name. The label is the file name without the suffix.
func Discover(dir, revisionSuffix string) ([]Target, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}

	var targets []Target
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, revisionSuffix) || name == revisionSuffix {
			continue
		}
		label := strings.TrimSuffix(name, revisionSuffix)
		targets = append(targets, Target{Prefix: filepath.Join(dir, label), Label: label})
	}
	return targets, nil
}

// Collect summarizes every target concurrently and returns the summaries in
// target order. If any target fails, the error of the first failing target is
// returned.
func Collect(targets []Target, opts summary.Options) ([]summary.Summary, error) {
	results := make([]summary.Summary, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			results[i], errs[i] = summary.Summarize(t.Prefix, t.Label, opts)
		}(i, t)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", targets[i].Label, err)
		}
	}
	return results, nil
}
