package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kotoba-dev/kotoba/internal/cli"
	"github.com/kotoba-dev/kotoba/internal/pdf"
	"github.com/kotoba-dev/kotoba/internal/statistics"
)

type ReportFormat string

func (f *ReportFormat) Set(val string) error {
	for _, format := range allReportFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid report format: %s", val)
}

func (f ReportFormat) String() string {
	return string(f)
}

func (f *ReportFormat) Type() string {
	return "ReportFormat"
}

const (
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatPDF      ReportFormat = "pdf"
)

var (
	_                pflag.Value = (*ReportFormat)(nil)
	allReportFormats             = []ReportFormat{ReportFormatMarkdown, ReportFormatPDF}
)

func newReportCommand() *cobra.Command {
	var userID string
	format := ReportFormatMarkdown

	command := &cobra.Command{
		Use:   "report",
		Short: "Write a statistics report as markdown or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			repo, db, err := openRepository(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			aggregator := statistics.NewAggregator(repo)
			overview, err := aggregator.Overview(ctx, userID)
			if err != nil {
				return fmt.Errorf("compute overview: %w", err)
			}
			forecast, err := aggregator.Forecast(ctx, userID, cfg.Scheduler.ForecastDays)
			if err != nil {
				return fmt.Errorf("compute forecast: %w", err)
			}

			now := time.Now()
			content := cli.RenderReport(userID, now, overview, forecast)

			if err := os.MkdirAll(cfg.Reports.Directory, 0o755); err != nil {
				return fmt.Errorf("create reports directory: %w", err)
			}
			reportPath := filepath.Join(cfg.Reports.Directory, fmt.Sprintf("report-%s-%s.md", userID, now.Format("2006-01-02")))
			if err := os.WriteFile(reportPath, content, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("Wrote %s\n", reportPath)

			if format == ReportFormatPDF {
				pdfPath, err := pdf.RenderMarkdown(reportPath, content)
				if err != nil {
					return fmt.Errorf("render PDF: %w", err)
				}
				fmt.Printf("Wrote %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id to report on")
	command.Flags().Var(&format, "format", "report format (markdown or pdf)")
	_ = command.MarkFlagRequired("user")

	return command
}
