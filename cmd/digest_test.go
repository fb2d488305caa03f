package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/internship-scraper/internal/backup"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DigestCommand_WritesDigestFromBackup(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2026, 1, 24, 8, 0, 0, 0, time.UTC)

	input, err := backup.Write(dir, backup.Backup{
		ScrapeDate: date,
		Items: []entities.RawItem{
			entities.RawItem(`{"title":"Marketing Intern","details":"<p>Grow the brand</p>","seo_url":"https://unstop.com/m"}`),
		},
	}, date)
	require.NoError(t, err)

	output := filepath.Join(dir, "out", "digest.txt")
	a := &app{cfg: &config.Config{Output: config.OutputConfig{BackupDir: dir, DigestPath: output}}}

	cmd := newDigestCommand(a)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--input", input})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(text), "📌 *Marketing Intern*\n_Grow the brand_\n🔗 Apply: https://unstop.com/m")
	assert.Contains(t, stdout.String(), "Generated digest with 1 items")
}

func Test_DigestCommand_MissingBackupFails(t *testing.T) {
	dir := t.TempDir()
	a := &app{cfg: &config.Config{Output: config.OutputConfig{BackupDir: dir, DigestPath: filepath.Join(dir, "d.txt")}}}

	cmd := newDigestCommand(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_DigestCommand_PostRequiresTelegramConfig(t *testing.T) {
	dir := t.TempDir()
	date := time.Now()
	input, err := backup.Write(dir, backup.Backup{ScrapeDate: date}, date)
	require.NoError(t, err)

	a := &app{cfg: &config.Config{Output: config.OutputConfig{BackupDir: dir, DigestPath: filepath.Join(dir, "d.txt")}}}

	cmd := newDigestCommand(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--input", input, "--post"})

	err = cmd.ExecuteContext(context.Background())

	assert.Error(t, err)
	text, readErr := os.ReadFile(filepath.Join(dir, "d.txt"))
	require.NoError(t, readErr)
	assert.Contains(t, string(text), "No internships found for today.")
}
