package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/spicemodel/internal/extract"
)

// ExtractionProgressReporter renders a progress bar across the files
// being extracted and prints a summary report when extraction finishes.
type ExtractionProgressReporter struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewExtractionProgressReporter creates a reporter. When quiet is true,
// no bar or log lines are emitted.
func NewExtractionProgressReporter(quiet bool) *ExtractionProgressReporter {
	return &ExtractionProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// OnDiscoveryStart is called once file discovery begins.
func (r *ExtractionProgressReporter) OnDiscoveryStart() {
	if r.quiet {
		return
	}
	log.Println("discovering netlist files...")
}

// OnDiscoveryComplete is called once the file list is known.
func (r *ExtractionProgressReporter) OnDiscoveryComplete(fileCount int) {
	if r.quiet {
		return
	}
	log.Printf("extracting %d file(s)\n", fileCount)

	r.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// OnFileExtracted advances the bar by one file.
func (r *ExtractionProgressReporter) OnFileExtracted(path string, summary extract.Summary) {
	if r.quiet {
		return
	}
	if r.bar != nil {
		r.bar.Add(1)
	}
}

// OnComplete prints the aggregate extraction summary.
func (r *ExtractionProgressReporter) OnComplete(total extract.Summary) {
	if r.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("done in %.1fs\n", time.Since(r.startTime).Seconds())
	fmt.Printf("  models extracted:      %s\n", formatNumber(total.ModelsExtracted))
	fmt.Printf("  models dropped:        %s\n", formatNumber(total.ModelsDropped))
	fmt.Printf("  subcircuits extracted: %s\n", formatNumber(total.SubcircuitsExtracted))
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
