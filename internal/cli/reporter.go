package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// barReporter renders pipeline progress as a terminal progress bar. The bar
// is created on the first Progress call, once the total is known.
type barReporter struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newBarReporter() *barReporter {
	return &barReporter{}
}

func (r *barReporter) StageStarted(stage, detail string) {
	fmt.Printf("%s: %s\n", stage, detail)
}

func (r *barReporter) StageCompleted(stage, detail string) {
	fmt.Printf("%s complete: %s\n", stage, detail)
}

func (r *barReporter) StageFailed(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", stage, err)
}

func (r *barReporter) Progress(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total == 0 {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}
	r.bar.Set(done)
}
