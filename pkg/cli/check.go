package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/cli/internal/output"
	"github.com/uniclear/clearance/pkg/cli/internal/parse"
)

var checkFile string

var checkCmd = &cobra.Command{
	Use:   "check [INDEXNO...]",
	Short: "Check the admission status of many candidates",
	Long: `Check the admission status of many candidates.

Index numbers come from arguments (comma-separated lists allowed) and from
--file, one per line. Calls are made one at a time in input order. The
command fails only when a call itself fails; non-success status codes are
reported, not raised.

Examples:
  clearance check S0123/0001/2023 S0123/0002/2023
  clearance check --file candidates.txt --json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "File with one index number per line (- for stdin)")
}

// checkResult is the JSON shape of one batch entry.
type checkResult struct {
	IndexID     string `json:"indexId"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Message     string `json:"message,omitempty"`
	Description string `json:"statusDescription,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	indexNos, err := collectIndexNos(args, checkFile)
	if err != nil {
		return err
	}

	c, closeAll, err := newClient()
	if err != nil {
		return err
	}
	defer closeAll()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	results, err := c.CheckStatuses(ctx, indexNos)
	if err != nil {
		return fmt.Errorf("interrupted after %d of %d: %w", len(results), len(indexNos), err)
	}

	rows := make([]checkResult, len(results))
	failed := 0
	for i, r := range results {
		row := checkResult{IndexID: r.IndexID}
		if r.Err != nil {
			row.Error = r.Err.Error()
			failed++
		} else {
			row.StatusCode = r.Response.StatusCode
			row.Message = r.Response.Message()
			row.Description = r.Response.StatusDescription
			row.Success = r.Response.IsSuccess()
		}
		rows[i] = row
	}

	if err := printResult(rows, func() {
		w := output.Table()
		_, _ = fmt.Fprintln(w, "INDEX\tCODE\tMESSAGE")
		for _, r := range rows {
			if r.Error != "" {
				_, _ = fmt.Fprintf(w, "%s\t-\terror: %s\n", r.IndexID, r.Error)
				continue
			}
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", r.IndexID, r.StatusCode, r.Message)
		}
		_ = w.Flush()
	}); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, len(rows))
	}
	return nil
}

func collectIndexNos(args []string, file string) ([]string, error) {
	var out []string
	for _, arg := range args {
		out = append(out, parse.SplitTrim(arg, ",")...)
	}
	if file != "" {
		data, err := readInput(file)
		if err != nil {
			return nil, err
		}
		out = append(out, parse.Lines(string(data))...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no index numbers given")
	}
	return out, nil
}
