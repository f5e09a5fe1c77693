package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/reposeed/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// reportedError marks errors whose message a command already printed.
type reportedError interface {
	Reported() bool
}

// main executes the reposeed command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}
	var reported reportedError
	if !errors.As(executionError, &reported) || !reported.Reported() {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(1)
}
