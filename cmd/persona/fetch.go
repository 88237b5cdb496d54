package main

import (
	"bytes"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/persona/internal/output"
	"github.com/cognicore/persona/internal/reddit"
	"github.com/cognicore/persona/pkg/persona/config"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		src       sourceFlags
		outputDir string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a user's activity into a JSONL dump (and the --db cache)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src.apply(cmd, a.cfg)
			if cmd.Flags().Changed("output-dir") {
				a.cfg.Paths.OutputDir = outputDir
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			snap, err := a.snapshot(ctx, src, st)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := reddit.WriteJSONL(&buf, snap); err != nil {
				return err
			}
			dest := out
			if dest == "" {
				dest = filepath.Join(a.cfg.Paths.OutputDir, reddit.SanitizeFilename(snap.Subject)+".jsonl")
			}
			if err := output.Write(ctx, dest, buf.String()); err != nil {
				return err
			}

			printLines(a.out, "Snapshot saved",
				field{"User", snap.Subject},
				field{"Posts", humanize.Comma(int64(len(snap.Posts)))},
				field{"Comments", humanize.Comma(int64(len(snap.Comments)))},
				field{"Output", dest},
				field{"Size", humanize.Bytes(uint64(buf.Len()))},
			)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", config.Default().Paths.OutputDir, "Directory for the dump")
	cmd.Flags().StringVar(&out, "out", "", "Exact destination: a file path or s3://bucket/key")
	return cmd
}
