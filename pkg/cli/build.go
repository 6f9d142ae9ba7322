package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/cli/internal/flags"
	"github.com/uniclear/clearance/pkg/soap"
)

var (
	buildParamsFile string
	buildParams     flags.StringSlice
	buildIndent     int
)

var buildCmd = &cobra.Command{
	Use:   "build [OPERATION]",
	Short: "Build a request envelope without sending it",
	Long: `Build a request envelope without sending it.

With an OPERATION the parameters are checked against the operation catalog
and the Operation parameter is added. Without one the parameters are
serialized as given.

The credential comes from the config file or CLEARANCE_USERNAME and
CLEARANCE_SESSION_TOKEN; on a terminal missing values are prompted for.

Examples:
  clearance build CheckStatus -p f4indexno=S0123/0001/2023
  clearance build AddApplicant --params applicant.yaml
  clearance build --params raw.yaml --indent 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildParamsFile, "params", "f", "", "YAML file with request parameters (- for stdin)")
	buildCmd.Flags().VarP(&buildParams, "param", "p", "Request parameter as key=value (repeatable)")
	buildCmd.Flags().IntVar(&buildIndent, "indent", 2, "Indent width; 0 for compact output")
}

// buildOutput is the JSON shape of build.
type buildOutput struct {
	Operation string `json:"operation,omitempty"`
	Envelope  string `json:"envelope"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cred, err := resolveCredential(cfg)
	if err != nil {
		return err
	}
	params, err := loadParams(buildParamsFile, buildParams)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	b := soap.NewBuilder(soap.WithIndent(buildIndent), soap.WithBuilderLogger(logger))

	var envelope, op string
	if len(args) == 1 {
		op = args[0]
		envelope, err = b.BuildOperation(cred, op, params)
	} else {
		envelope, err = b.Build(cred, params)
	}
	if err != nil {
		return err
	}

	return printResult(buildOutput{Operation: op, Envelope: envelope}, func() {
		fmt.Println(envelope)
	})
}
