package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codesnippet/internal/config"
	"codesnippet/internal/language"
	"codesnippet/internal/services/tesseract"
)

func newTessdataCommand(ctx *commandContext) *cobra.Command {
	tessdataCmd := &cobra.Command{
		Use:   "tessdata",
		Short: "Manage tesseract language data",
	}
	tessdataCmd.AddCommand(newTessdataFetchCommand(ctx))
	return tessdataCmd
}

func newTessdataFetchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var langFlag string
	var urlFlag string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download missing traineddata files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.OCR.TessdataDir
			if strings.TrimSpace(dirFlag) != "" {
				if dir, err = config.ExpandPath(strings.TrimSpace(dirFlag)); err != nil {
					return fmt.Errorf("resolve tessdata dir: %w", err)
				}
			}
			if dir == "" {
				return fmt.Errorf("%w: set ocr.tessdata_dir, TESSDATA_PREFIX, or --dir", tesseract.ErrNoTessdataDir)
			}
			langs := cfg.OCR.Language
			if strings.TrimSpace(langFlag) != "" {
				langs = language.TesseractCode(langFlag)
			}
			baseURL := cfg.OCR.TessdataURL
			if strings.TrimSpace(urlFlag) != "" {
				baseURL = urlFlag
			}

			client := &http.Client{Timeout: 10 * time.Minute}
			written, err := tesseract.EnsureLanguageData(cmd.Context(), client, dir, langs, baseURL)
			out := cmd.OutOrStdout()
			for _, path := range written {
				fmt.Fprintf(out, "Downloaded %s\n", path)
			}
			if err != nil {
				return err
			}
			if len(written) == 0 {
				fmt.Fprintf(out, "Language data for %s already present in %s\n", langs, dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Tessdata directory (defaults to ocr.tessdata_dir)")
	cmd.Flags().StringVar(&langFlag, "lang", "", "Languages to fetch, joined with + (defaults to ocr.language)")
	cmd.Flags().StringVar(&urlFlag, "url", "", "Base URL serving <lang>.traineddata files")
	return cmd
}
