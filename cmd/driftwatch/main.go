package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := Execute()
	closeLog()
	if err == nil {
		return
	}

	var ee *exitError
	if !errors.As(err, &ee) || ee.err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
