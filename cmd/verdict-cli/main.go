package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Evaluation ran and passed any requested checks
	ExitInconsistent = 1 // --strict and a matrix is over the threshold
	ExitError        = 2 // Bad input or runtime error
)

// InconsistencyError means the hierarchy evaluated but at least one
// comparison matrix has a consistency ratio over the threshold.
type InconsistencyError struct {
	MaxCR     float64
	Threshold float64
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent judgments: max CR %.4f exceeds %.2f", e.MaxCR, e.Threshold)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var inconsistent *InconsistencyError
		if errors.As(err, &inconsistent) {
			os.Exit(ExitInconsistent)
		}
		os.Exit(ExitError)
	}
}
