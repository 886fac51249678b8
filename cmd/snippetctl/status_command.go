package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codesnippet/internal/config"
	"codesnippet/internal/deps"
	"codesnippet/internal/language"
	"codesnippet/internal/preflight"
)

// versionProbe resolves a version string for an available executable.
type versionProbe func(ctx context.Context, command string, args ...string) (string, error)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var online bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show engine availability and environment checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, configLines(cfg, ctx.configPath, ctx.configSeen, colorize)...)
			lines = append(lines, "")

			statuses := preflight.CheckSystemDeps(cfg, preflight.ToolAll)
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyTable(cmd.Context(), statuses, deps.ProbeVersion))
			lines = append(lines, dependencyLines(statuses, colorize)...)
			lines = append(lines, "")

			results := preflight.RunAll(cmd.Context(), cfg)
			if online {
				results = append(results, preflight.CheckTessdataSource(cmd.Context(), cfg.OCR.TessdataURL, cfg.OCR.Language))
			}
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			lines = append(lines, checkLines(results, colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "Also check that the tessdata download location is reachable")
	return cmd
}

func configLines(cfg *config.Config, path string, exists bool, colorize bool) []string {
	configMsg := fmt.Sprintf("%s (exists: %s)", path, yesNo(exists))
	configKind := statusOK
	if !exists {
		configKind = statusInfo
	}
	return []string{
		renderStatusLine("Config file", configKind, configMsg, colorize),
		renderStatusLine("Transcribe engine", statusInfo, fmt.Sprintf("%s (model %s, language %s)", cfg.Transcribe.Engine, cfg.Transcribe.Model, language.DisplayName(cfg.Transcribe.Language)), colorize),
		renderStatusLine("OCR language", statusInfo, fmt.Sprintf("%s (%s)", cfg.OCR.Language, language.DisplayName(cfg.OCR.Language)), colorize),
		renderStatusLine("Log format", statusInfo, fmt.Sprintf("%s (%s)", cfg.Logging.Format, cfg.Logging.Level), colorize),
	}
}

func dependencyTable(ctx context.Context, statuses []deps.Status, probe versionProbe) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		state := "missing"
		version := "-"
		if status.Available {
			state = "ready"
			version = probeVersion(ctx, status, probe)
		} else if status.Optional {
			state = "optional"
		}
		rows = append(rows, []string{status.Name, status.Command, state, version})
	}
	return renderTable(
		[]string{"Name", "Command", "Status", "Version"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func probeVersion(ctx context.Context, status deps.Status, probe versionProbe) string {
	args, ok := deps.VersionArgs[filepath.Base(status.Command)]
	if !ok || probe == nil {
		return "-"
	}
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	version, err := probe(probeCtx, status.Path, args...)
	if err != nil {
		return "unknown"
	}
	return version
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	var lines []string
	missing := make([]string, 0)
	for _, status := range statuses {
		if status.Available {
			continue
		}
		detail := strings.TrimSpace(status.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if status.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
		missing = append(missing, status.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, fmt.Sprintf("%s (install them and re-run; tesseract language data: snippetctl tessdata fetch)", strings.Join(missing, ", ")), colorize))
	} else {
		lines = append(lines, renderStatusLine("Summary", statusOK, "All dependencies available", colorize))
	}
	return lines
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	return lines
}
