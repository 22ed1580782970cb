package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"heic2jpg/contracts"
)

// consoleReporter prints "<input> => <output>" per completed file and
// keeps a progress bar on a separate stream.
type consoleReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newConsoleReporter(out io.Writer, progressOut io.Writer, total int, showProgress bool) *consoleReporter {
	r := &consoleReporter{out: out}
	if showProgress {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *consoleReporter) Report(result contracts.ConversionResult, done int, total int) {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, formatResult(result))
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *consoleReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

func formatResult(result contracts.ConversionResult) string {
	if !result.Failed() {
		return fmt.Sprintf("%s => %s", result.InputPath, result.OutputPath)
	}
	var convErr *contracts.ConversionError
	if errors.As(result.Err, &convErr) {
		return fmt.Sprintf("%s => ERROR: %s", result.InputPath, convErr.Reason())
	}
	return fmt.Sprintf("%s => ERROR: %v", result.InputPath, result.Err)
}
