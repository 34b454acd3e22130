// File: cmd/classify.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// newClassifyCmd prints how the scanner would treat each control label.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <label>...",
		Short:   "Show how control labels are classified (actionable, ignorable, terminal)",
		Example: `  snapbuy classify 立即抢购 添加提醒 已抢光`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, label := range args {
				c := buyer.Classify(label)
				if _, err := fmt.Fprintf(w, "%s\t%q\n", c.Kind, c.Text); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
