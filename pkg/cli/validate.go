package cli

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/uniclear/clearance/pkg/soap"
)

var validateKind string

var validateCmd = &cobra.Command{
	Use:   "validate [--kind KIND] FILE|PATTERN|-...",
	Short: "Check the structure of request or response documents",
	Long: `Check the structure of request or response documents.

Kinds:
  request    envelope, auth and parameter checks (default)
  response   ResponseParameters or a status code element
  envelope   Envelope, Header and Body only
  auth       UsernameToken, Username and SessionToken only
  params     RequestParameters only

Arguments may be files, doublestar glob patterns or - for stdin.
The command exits non-zero when any document fails.

Examples:
  clearance validate request.xml
  clearance validate --kind response 'captures/**/*.xml'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "request", "Document kind: request, response, envelope, auth, params")
}

// validationResult is the JSON shape of one validated document.
type validationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

type checkFunc func(v *soap.Validator, xml string) (bool, []string)

var validationKinds = map[string][]checkFunc{
	"request": {
		(*soap.Validator).ValidateEnvelope,
		(*soap.Validator).ValidateAuthSection,
		(*soap.Validator).ValidateParameterSection,
	},
	"response": {(*soap.Validator).ValidateResponseSection},
	"envelope": {(*soap.Validator).ValidateEnvelope},
	"auth":     {(*soap.Validator).ValidateAuthSection},
	"params":   {(*soap.Validator).ValidateParameterSection},
}

func runValidate(cmd *cobra.Command, args []string) error {
	checks, ok := validationKinds[strings.ToLower(validateKind)]
	if !ok {
		return fmt.Errorf("unknown --kind %q", validateKind)
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	results := make([]validationResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			results[i] = validateFile(file, checks)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
		}
	}

	if err := printResult(results, func() {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("OK    %s\n", r.File)
				continue
			}
			fmt.Printf("FAIL  %s\n", r.File)
			for _, e := range r.Errors {
				fmt.Printf("      - %s\n", e)
			}
		}
		fmt.Printf("\n%d checked, %d failed\n", len(results), failed)
	}); err != nil {
		return err
	}

	if failed > 0 {
		return ErrValidationFailed
	}
	return nil
}

// validateFile reads and checks one document with its own Validator, so
// files can be checked in parallel.
func validateFile(file string, checks []checkFunc) validationResult {
	data, err := readInput(file)
	if err != nil {
		return validationResult{File: file, Errors: []string{err.Error()}}
	}
	res := validationResult{File: file}
	res.Valid, res.Errors = runChecks(soap.NewValidator(), checks, string(data))
	return res
}

// runChecks runs every check against xml. A malformed document is reported
// once rather than once per check.
func runChecks(v *soap.Validator, checks []checkFunc, xml string) (bool, []string) {
	var errs []string
	for _, check := range checks {
		ok, e := check(v, xml)
		if ok {
			continue
		}
		if len(e) == 1 && (strings.HasPrefix(e[0], "malformed XML") || e[0] == "empty XML document") {
			return false, e
		}
		errs = append(errs, e...)
	}
	return len(errs) == 0, errs
}

// expandInputs resolves glob patterns. Plain paths and - pass through so a
// missing file is reported as a failure rather than silently skipped.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, arg := range args {
		if arg == "-" || !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			add(m)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
