package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uniclear/clearance/pkg/cli/internal/output"
	"github.com/uniclear/clearance/pkg/soap"
)

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "List the operations the authority supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ops := soap.Operations()
		return printResult(ops, func() {
			w := output.Table()
			_, _ = fmt.Fprintln(w, "OPERATION\tREQUIRED\tDESCRIPTION")
			for _, op := range ops {
				required := strings.Join(op.Required, ", ")
				if required == "" {
					required = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, required, op.Description)
			}
			_ = w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(operationsCmd)
}
