package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/cli/internal/flags"
	"github.com/uniclear/clearance/pkg/client"
	"github.com/uniclear/clearance/pkg/soap"
)

var (
	callParamsFile string
	callParams     flags.StringSlice
	callExpect     string
	callStrict     bool
)

var callCmd = &cobra.Command{
	Use:   "call OPERATION",
	Short: "Send an operation to the authority and print the parsed response",
	Long: `Send an operation to the authority and print the parsed response.

Every status code the authority returns is printed. Use --strict to exit
non-zero on a non-success code, or --expect to assert on the response with an
expression. The expression sees StatusCode, IndexID, StatusDescription,
Success, Categories and Data.

Examples:
  clearance call CheckStatus -p f4indexno=S0123/0001/2023
  clearance call GetProgrammes --json
  clearance call CheckStatus -p f4indexno=S1 --expect 'StatusCode in [200, 230]'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVarP(&callParamsFile, "params", "f", "", "YAML file with request parameters (- for stdin)")
	callCmd.Flags().VarP(&callParams, "param", "p", "Request parameter as key=value (repeatable)")
	callCmd.Flags().StringVar(&callExpect, "expect", "", "Boolean expression the response must satisfy")
	callCmd.Flags().BoolVar(&callStrict, "strict", false, "Fail on a non-success status code")
}

func runCall(cmd *cobra.Command, args []string) error {
	op := args[0]
	if _, ok := soap.LookupOperation(op); !ok {
		return fmt.Errorf("unknown operation %q (see: clearance operations)", op)
	}
	params, err := loadParams(callParamsFile, callParams)
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

	resp, err := c.Call(ctx, op, params)
	if err != nil {
		return err
	}

	out := newParseOutput(resp)
	if err := printResult(out, func() { printResponse(out) }); err != nil {
		return err
	}

	if callExpect != "" {
		ok, err := evalExpect(callExpect, resp)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrExpectationFailed, callExpect)
		}
	}
	if callStrict {
		return client.CheckStatus(op, resp)
	}
	return nil
}

// newClient builds a client from the effective config. The returned function
// closes the audit trail and the log file.
func newClient() (*client.Client, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := resolveCredential(cfg); err != nil {
		return nil, nil, err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	c, err := client.FromConfig(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return c, func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close audit log", "error", err)
		}
		closeLog()
	}, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// expectEnv exposes a response to --expect expressions.
func expectEnv(resp *soap.Response) map[string]any {
	out := newParseOutput(resp)
	data, _ := resp.Data.ToAny().(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return map[string]any{
		"StatusCode":        resp.StatusCode,
		"IndexID":           resp.IndexID,
		"StatusDescription": resp.StatusDescription,
		"Success":           out.Success,
		"Categories":        out.Categories,
		"Data":              data,
	}
}

func evalExpect(expression string, resp *soap.Response) (bool, error) {
	env := expectEnv(resp)
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile --expect %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval --expect %q: %w", expression, err)
	}
	ok, _ := result.(bool)
	return ok, nil
}
