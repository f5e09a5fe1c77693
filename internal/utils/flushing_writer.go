package utils

import (
	"io"
	"sync"
)

// FlushingWriter serializes writes to the create command's output and flushes buffered
// writers after each one, so progress lines and the confirmation prompt appear before
// input is read.
type FlushingWriter struct {
	mutex  sync.Mutex
	target io.Writer
}

// NewFlushingWriter wraps target. A nil target discards output and a FlushingWriter is
// returned unchanged.
func NewFlushingWriter(target io.Writer) io.Writer {
	switch typedTarget := target.(type) {
	case nil:
		return io.Discard
	case *FlushingWriter:
		return typedTarget
	default:
		return &FlushingWriter{target: target}
	}
}

// Write writes data and then flushes the target.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.target.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushTarget(writer.target)
}

// Unwrap returns the wrapped writer.
func (writer *FlushingWriter) Unwrap() io.Writer {
	return writer.target
}

func flushTarget(target io.Writer) error {
	switch flushable := target.(type) {
	case interface{ Flush() error }:
		return flushable.Flush()
	case interface{ Flush() }:
		flushable.Flush()
	}
	return nil
}
