package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/spicemodel/internal/config"
	"github.com/mvp-joe/spicemodel/internal/extract"
	"github.com/mvp-joe/spicemodel/internal/store"
)

var (
	extractWatch bool
	extractQuiet bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [path...]",
	Short: "Extract .model and .subckt directives from SPICE netlists",
	Long: `Extract parses one or more netlist files, classifies each .model
parameter as numeric or opaque, and writes surviving models and
subcircuits into the configured store. Malformed directives are logged
and skipped rather than aborting the whole file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "re-extract files as they change")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if extractWatch {
		cfg.Extract.Watch = true
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	logSink, closeLog, err := extract.NewLogSink(cfg.Extract.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open extraction log: %w", err)
	}
	defer closeLog()

	driver := extract.NewDriver(logSink)
	reporter := NewExtractionProgressReporter(extractQuiet)

	runOnce := func() error {
		reporter.OnDiscoveryStart()
		reporter.OnDiscoveryComplete(len(args))

		var total extract.Summary
		for _, path := range args {
			handler := store.NewHandler(st)
			summary, err := driver.ExtractFile(path, handler)
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", path, err)
			}
			if err := handler.Err(); err != nil {
				return fmt.Errorf("failed to store records from %s: %w", path, err)
			}
			total.ModelsExtracted += summary.ModelsExtracted
			total.ModelsDropped += summary.ModelsDropped
			total.SubcircuitsExtracted += summary.SubcircuitsExtracted
			reporter.OnFileExtracted(path, summary)
		}

		reporter.OnComplete(total)
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}
	if !cfg.Extract.Watch {
		return nil
	}

	return watchAndReextract(args, runOnce)
}

// watchAndReextract re-runs extraction whenever any of paths changes,
// debounced per-file by extract.Watcher.
func watchAndReextract(paths []string, runOnce func() error) error {
	var watchers []*extract.Watcher
	defer func() {
		for _, w := range watchers {
			w.Close()
		}
	}()

	errCh := make(chan error, 1)
	onChange := func() {
		if err := runOnce(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}

	for _, path := range paths {
		w, err := extract.NewWatcher(path, onChange)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		watchers = append(watchers, w)
	}

	return <-errCh
}
