package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maxaizer/internship-scraper/internal/backup"
	"github.com/maxaizer/internship-scraper/internal/digest"
	"github.com/maxaizer/internship-scraper/internal/notifier"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type digestFlags struct {
	input  string
	output string
	post   bool
}

func newDigestCommand(a *app) *cobra.Command {
	flags := &digestFlags{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Render a chat digest from a run backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDigest(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "backup file (default is today's backup)")
	cmd.Flags().StringVar(&flags.output, "output", "", "digest file (default is $DIGEST_PATH)")
	cmd.Flags().BoolVar(&flags.post, "post", false, "post the digest to the configured Telegram chat")
	return cmd
}

func (a *app) runDigest(cmd *cobra.Command, flags *digestFlags) error {
	now := time.Now()

	input := flags.input
	if input == "" {
		input = backup.PathFor(a.cfg.Output.BackupDir, now)
	}

	output := flags.output
	if output == "" {
		output = a.cfg.Output.DigestPath
	}

	runBackup, err := backup.Read(input)
	if err != nil {
		return err
	}

	text, count := digest.Build(runBackup.Items, now)

	if dir := filepath.Dir(output); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "can't create directory for %s", output)
		}
	}
	if err = os.WriteFile(output, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "can't write digest %s", output)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated digest with %d items in %s\n", count, output)

	if !flags.post {
		return nil
	}

	telegram, err := notifier.NewTelegramNotifier(a.cfg.Telegram)
	if err != nil {
		return err
	}

	sent, err := telegram.PostDigest(cmd.Context(), text)
	if err != nil {
		return errors.Wrap(err, "can't post digest")
	}
	log.Infof("Digest posted in %d messages", sent)
	return nil
}
