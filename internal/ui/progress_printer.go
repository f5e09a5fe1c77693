package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

const (
	progressLineTemplateConstant = "%s %s\n"
	progressMarkerConstant       = "==>"
	warningMarkerConstant        = "!"
	successMarkerConstant        = "✓"
	failureMarkerConstant        = "✗"
	noticeMarkerConstant         = "-"
)

// ProgressPrinter renders workflow progress lines, coloured by severity.
type ProgressPrinter struct {
	writer   io.Writer
	mutex    sync.Mutex
	progress *color.Color
	warning  *color.Color
	success  *color.Color
	failure  *color.Color
	notice   *color.Color
}

// NewProgressPrinter constructs a printer writing to writer. Colours are only emitted when
// colorEnabled is true.
func NewProgressPrinter(writer io.Writer, colorEnabled bool) *ProgressPrinter {
	if writer == nil {
		writer = io.Discard
	}
	printer := &ProgressPrinter{
		writer:   writer,
		progress: color.New(color.FgCyan),
		warning:  color.New(color.FgYellow),
		success:  color.New(color.FgGreen, color.Bold),
		failure:  color.New(color.FgRed, color.Bold),
		notice:   color.New(color.FgHiBlack),
	}
	for _, palette := range []*color.Color{printer.progress, printer.warning, printer.success, printer.failure, printer.notice} {
		if colorEnabled {
			palette.EnableColor()
		} else {
			palette.DisableColor()
		}
	}
	return printer
}

// Progress prints a step announcement.
func (printer *ProgressPrinter) Progress(message string) {
	printer.printLine(printer.progress, progressMarkerConstant, message)
}

// Warning prints a non-fatal problem.
func (printer *ProgressPrinter) Warning(message string) {
	printer.printLine(printer.warning, warningMarkerConstant, message)
}

// Success prints the final success message.
func (printer *ProgressPrinter) Success(message string) {
	printer.printLine(printer.success, successMarkerConstant, message)
}

// Failure prints the final failure message.
func (printer *ProgressPrinter) Failure(message string) {
	printer.printLine(printer.failure, failureMarkerConstant, message)
}

// Notice prints supplementary information such as a run summary line.
func (printer *ProgressPrinter) Notice(message string) {
	printer.printLine(printer.notice, noticeMarkerConstant, message)
}

func (printer *ProgressPrinter) printLine(palette *color.Color, marker string, message string) {
	printer.mutex.Lock()
	defer printer.mutex.Unlock()
	_, _ = fmt.Fprintf(printer.writer, progressLineTemplateConstant, palette.Sprint(marker), palette.Sprint(message))
}

// ColorSupported reports whether standard output is a terminal that accepts colour codes.
func ColorSupported() bool {
	return !color.NoColor
}
