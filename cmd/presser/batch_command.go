package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every pending entry in the queue file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer sess.close()
			if err := sess.cfg.RequireUpload(); err != nil {
				return err
			}

			// batch entries never pause for interactive review
			orch := sess.orchestrator(false)
			summary, err := orch.RunBatch(sess.ctx, dryRun)
			fmt.Fprintf(cmd.OutOrStdout(), "Batch: %s\n", summary)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate each submission without creating torrents on the tracker")
	return cmd
}

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Scrape configured listing pages and queue unseen album links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer sess.close()

			orch := sess.orchestrator(false)
			fresh, err := orch.Discover(sess.ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(fresh) == 0 {
				fmt.Fprintln(out, "No new album links found")
				return nil
			}
			for _, link := range fresh {
				fmt.Fprintln(out, link)
			}
			fmt.Fprintf(out, "Queued %d new albums\n", len(fresh))
			return nil
		},
	}
}
