package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"presser/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent tracker submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer sess.close()
			if sess.store == nil {
				return services.Wrap(services.ErrConfiguration, "history", "store",
					"history database unavailable", nil)
			}

			subs, err := sess.store.Recent(sess.ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No submissions recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(subs))
			for _, sub := range subs {
				mode := "upload"
				if sub.DryRun {
					mode = "dry-run"
				}
				rows = append(rows, []string{
					strconv.FormatInt(sub.ID, 10),
					sub.SubmittedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(sub.AlbumPath),
					strconv.FormatInt(sub.TorrentID, 10),
					strconv.FormatInt(sub.GroupID, 10),
					mode,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Submitted", "Album", "Torrent", "Group", "Mode"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of submissions to list")
	return cmd
}
