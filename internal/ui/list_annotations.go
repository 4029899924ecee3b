package ui

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/sargassum-watch/sargassum-dataset/internal/delivery"
	"github.com/spf13/cobra"
)

func newListAnnotationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-annotations",
		Short: "List annotation files with their class, feature count and dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			infos, err := delivery.ListAnnotations(cfg.RawDir)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				PrintWarning(cmd.OutOrStdout(), fmt.Sprintf("No annotation files found in %s", cfg.RawDir))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tCLASS\tFEATURES\tFIRST\tLAST")
			for _, info := range infos {
				first, last := "-", "-"
				if len(info.Dates) > 0 {
					first = info.Dates[0].Format("2006-01-02")
					last = info.Dates[len(info.Dates)-1].Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", filepath.Base(info.Path), info.Class, info.Features, first, last)
			}
			return w.Flush()
		},
	}
}
