// Command export fetches the selected symbols and writes the CSV or xlsx
// artifact to disk without running the dashboard server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"stockdash/internal/cache"
	"stockdash/internal/chart"
	"stockdash/internal/config"
	"stockdash/internal/exporter"
	"stockdash/internal/infrastructure"
	"stockdash/internal/provider"
	"stockdash/internal/services"
)

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "comma-separated ticker symbols (required)")
		rangeFlag   = flag.String("range", "", "range preset: 1wk 1mo 3mo 6mo 1y custom (default: configured)")
		startFlag   = flag.String("start", "", "custom range start, YYYY-MM-DD")
		endFlag     = flag.String("end", "", "custom range end, YYYY-MM-DD")
		formatFlag  = flag.String("format", "csv", "export format: csv or xlsx")
		outFlag     = flag.String("out", ".", "output directory")
	)
	flag.Parse()

	if err := run(*symbolsFlag, *rangeFlag, *startFlag, *endFlag, *formatFlag, *outFlag); err != nil {
		color.Red("export failed: %v", err)
		os.Exit(1)
	}
}

func run(symbolsFlag, rangeFlag, startFlag, endFlag, formatFlag, outFlag string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	format := exporter.Format(formatFlag)
	if !format.Valid() {
		return fmt.Errorf("unsupported format %q", formatFlag)
	}

	sel := services.Selection{
		Range:     rangeFlag,
		ChartType: chart.Line, // unused by export, required by validation
	}
	if sel.Range == "" {
		sel.Range = cfg.Market.DefaultRange
	}
	for _, raw := range strings.Split(symbolsFlag, ",") {
		if s := strings.ToUpper(strings.TrimSpace(raw)); s != "" {
			sel.Symbols = append(sel.Symbols, s)
		}
	}
	if startFlag != "" {
		if sel.Start, err = time.Parse("2006-01-02", startFlag); err != nil {
			return fmt.Errorf("parse start date: %w", err)
		}
	}
	if endFlag != "" {
		if sel.End, err = time.Parse("2006-01-02", endFlag); err != nil {
			return fmt.Errorf("parse end date: %w", err)
		}
	}

	yahoo := provider.NewYahooClient(
		cfg.Market.ProviderBaseURL,
		cfg.Market.RequestTimeout,
		cfg.Market.RateRPS,
		cfg.Market.RateBurst,
		logger,
	)
	seriesCache := cache.New(cfg.Market.CacheTTL)
	defer seriesCache.Stop()

	service := services.NewDashboardService(yahoo, seriesCache, cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	color.Cyan("fetching %d symbol(s), range %s...", len(sel.Symbols), sel.Range)

	order, data, err := service.CollectSeries(ctx, sel)
	if err != nil {
		return err
	}
	for _, symbol := range order {
		color.Green("  %-6s %d bars", symbol, len(data[symbol]))
	}
	for _, symbol := range sel.Symbols {
		if _, ok := data[symbol]; !ok {
			color.Yellow("  %-6s no data, skipped", symbol)
		}
	}

	path := filepath.Join(outFlag, exporter.Filename(format, time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if format == exporter.FormatXLSX {
		err = exporter.NewExcelExporter(logger).WriteWorkbook(file, order, data)
	} else {
		err = exporter.NewCSVExporter(logger).WriteCombined(file, order, data)
	}
	if err != nil {
		return err
	}

	color.Green("wrote %s", path)
	return nil
}
