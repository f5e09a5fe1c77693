// Package prompt asks the operator to confirm a provisioning run.
package prompt

import (
	"bufio"
	"io"
	"strings"
)

const (
	lineTerminatorConstant = '\n'
	shortYesConstant       = "y"
	longYesConstant        = "yes"
)

// ConfirmationPrompter asks a yes/no question.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// IOConfirmationPrompter reads answers line by line from a reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter writing questions to output.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes prompt and reports whether the answer was y or yes. Anything else,
// including end of input, declines.
func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString(lineTerminatorConstant)
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case shortYesConstant, longYesConstant:
		return true, nil
	default:
		return false, nil
	}
}
