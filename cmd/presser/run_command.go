package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presser/internal/catalog"
	"presser/internal/workflow"
)

func newTerminalEditor() *catalog.Editor {
	return catalog.NewEditor(os.Stdin, os.Stdout)
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var folderFlag string
	var dryRun bool
	var auto bool

	cmd := &cobra.Command{
		Use:   "run [album-url]",
		Short: "Process a single album from a URL or an existing folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sourceURL string
			if len(args) == 1 {
				sourceURL = args[0]
			}
			if sourceURL == "" && folderFlag == "" {
				return fmt.Errorf("provide an album URL or --folder")
			}
			if sourceURL != "" && folderFlag != "" {
				return fmt.Errorf("an album URL and --folder are mutually exclusive")
			}

			sess, err := ctx.newSession()
			if err != nil {
				return err
			}
			defer sess.close()
			if err := sess.cfg.RequireUpload(); err != nil {
				return err
			}

			interactive := !auto && stdinIsTerminal()
			orch := sess.orchestrator(interactive)
			result, err := orch.Run(sess.ctx, workflow.RunOptions{
				SourceURL: sourceURL,
				Folder:    folderFlag,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprintf(out, "Dry run accepted for %s\n", result.AlbumPath)
				return nil
			}
			fmt.Fprintf(out, "Uploaded %s (torrent %d, group %d)\n",
				result.AlbumPath, result.Receipt.TorrentID, result.Receipt.GroupID)
			return nil
		},
	}

	cmd.Flags().StringVar(&folderFlag, "folder", "", "Use an existing album folder in the destination directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the submission without creating the torrent on the tracker")
	cmd.Flags().BoolVar(&auto, "auto", false, "Skip the interactive field review")
	return cmd
}
