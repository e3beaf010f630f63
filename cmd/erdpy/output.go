package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/display"
)

func (e *environment) success(format string, args ...any) {
	fmt.Fprintln(e.out, color.GreenString(format, args...))
}

// writeResult prints v as JSON, or saves it to outfile when one is given
func (e *environment) writeResult(outfile string, v any) error {
	if outfile == "" {
		return display.PrintJSON(e.out, v)
	}

	var buf bytes.Buffer
	if err := display.PrintJSON(&buf, v); err != nil {
		return err
	}
	if err := os.WriteFile(outfile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outfile, err)
	}
	e.success("Saved to %s", outfile)
	return nil
}
