package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvappshub/opsboard/internal/storyboard"
)

func newStoryboardCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var useS3 bool

	cmd := &cobra.Command{
		Use:   "storyboard",
		Short: "Write the demo storyboard and render a placeholder clip when ffmpeg is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var sink storyboard.Sink
			if useS3 {
				s3cfg := cfg.Storyboard.S3
				if !s3cfg.Enabled() {
					return errors.New("storyboard: --s3 requires OPSBOARD_S3_BUCKET")
				}
				client, err := storyboard.NewS3Client(cmd.Context(), storyboard.S3Config{
					Endpoint:     s3cfg.Endpoint,
					Region:       s3cfg.Region,
					AccessKey:    s3cfg.AccessKey,
					SecretKey:    s3cfg.SecretKey,
					UsePathStyle: s3cfg.PathStyle,
				})
				if err != nil {
					return err
				}
				sink, err = storyboard.NewS3Sink(client, s3cfg.Bucket, s3cfg.Prefix)
				if err != nil {
					return err
				}
			} else {
				dir := strings.TrimSpace(outDir)
				if dir == "" {
					dir = cfg.Storyboard.Dir
				}
				sink = storyboard.NewDirSink(dir)
			}

			renderer, err := storyboard.NewRenderer(cfg.Storyboard.Encoder, storyboard.DefaultPlaceholder())
			if err != nil {
				return err
			}

			res, err := storyboard.Run(cmd.Context(), sink, renderer, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Rendered() {
				fmt.Fprintln(out, "Rendered:", res.Clip)
			} else {
				fmt.Fprintln(out, "ffmpeg not found; generated storyboard only.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (overrides OPSBOARD_STORYBOARD_DIR)")
	cmd.Flags().BoolVar(&useS3, "s3", false, "Store the output in the configured S3 bucket")
	return cmd
}
