package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"isicfetch/pkg/config"
	"isicfetch/pkg/logger"
	"isicfetch/pkg/paginator"
	"isicfetch/pkg/storage"
	"isicfetch/pkg/ui"
)

var (
	// Fetch command flags
	diagnosis  string
	outputDir  string
	baseURL    string
	offset     int
	limit      int
	pageSize   int
	concurrent int
	timeout    time.Duration
	createDir  bool
	noProgress bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download all images matching a diagnosis",
	Long: `Search the ISIC Archive for images with the given diagnosis and download
each full-resolution image to the output directory.

Pagination follows the server's next cursor until the limit is reached, a
page comes back empty, or no cursor is left. On success the final image
number (offset plus images processed) is printed.`,
	Example: `  # Download every melanoma image
  isicfetch fetch --diagnosis melanoma --output ./melanoma --create-dir

  # Download 100 images starting at the 200th match
  isicfetch fetch -d "basal cell carcinoma" --offset 200 --limit 100

  # Download with four parallel transfers
  isicfetch fetch -d nevus --concurrent 4`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&diagnosis, "diagnosis", "d", "", "diagnosis to search for (exact phrase)")
	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ./images)")
	fetchCmd.Flags().StringVar(&baseURL, "base-url", "", "ISIC API base URL")
	fetchCmd.Flags().IntVar(&offset, "offset", 0, "number of matches to skip")
	fetchCmd.Flags().IntVar(&limit, "limit", -1, "maximum number of images to download (-1 for no limit)")
	fetchCmd.Flags().IntVar(&pageSize, "page-size", config.DefaultPageSize, "records requested per search page")
	fetchCmd.Flags().IntVar(&concurrent, "concurrent", 1, "number of parallel image downloads")
	fetchCmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP timeout per request")
	fetchCmd.Flags().BoolVar(&createDir, "create-dir", false, "create the output directory if it does not exist")
	fetchCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
}

// fetchFlags maps the flags the user set explicitly onto config keys
func fetchFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags(cmd)
	changed := cmd.Flags().Changed

	if changed("diagnosis") {
		flags["diagnosis"] = diagnosis
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("base-url") {
		flags["base-url"] = baseURL
	}
	if changed("offset") {
		flags["offset"] = offset
	}
	if changed("limit") {
		flags["limit"] = limit
	}
	if changed("page-size") {
		flags["page-size"] = pageSize
	}
	if changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if changed("timeout") {
		flags["timeout"] = timeout
	}
	if changed("create-dir") {
		flags["create-dir"] = createDir
	}
	if changed("no-progress") {
		flags["progress"] = !noProgress
	}
	return flags
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, fetchFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("isicfetch starting")

	if cfg.UI.Quiet {
		ui.SetQuietMode(true)
	}
	if !cfg.UI.ColorEnabled {
		ui.SetColorEnabled(false)
	}

	ui.PrintBanner()
	ui.PrintInfo("Diagnosis", cfg.Query.Diagnosis)
	ui.PrintInfo("Output", cfg.Output.Directory)
	if cfg.Query.Limit != nil {
		ui.PrintInfo("Limit", strconv.Itoa(*cfg.Query.Limit))
	}

	if cfg.Output.CreateDirectory {
		if err := storage.EnsureDir(cfg.Output.Directory); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := paginator.RequestFromConfig(cfg)

	var opts []paginator.Option
	var reporter *ui.ProgressReporter
	if cfg.UI.ProgressEnabled && !cfg.UI.Quiet {
		reporter = ui.NewProgressReporter(cmd.ErrOrStderr(), cfg.Query.Diagnosis, req.Offset, req.Limit)
		opts = append(opts, paginator.WithObserver(reporter))
	}

	ui.PrintHighlight("[FETCHING]")
	p := paginator.NewFromConfig(cfg, log, opts...)
	imageNum, err := p.Fetch(ctx, req)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		return err
	}

	if reporter != nil {
		tracker := reporter.Tracker()
		ui.PrintSuccess(fmt.Sprintf("Fetched %s (%.1f images/min)", tracker.Summary(), tracker.GetDownloadRate()))
	}
	fmt.Fprintln(cmd.OutOrStdout(), imageNum)
	return nil
}
