package main

import (
	"fmt"
	"os"

	"github.com/kalambet/quirk/internal/pipeline"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

// printResult renders one pipeline result for human consumption. Failures
// include suggestions when the server offers any.
func printResult(result pipeline.Result) {
	if !result.Success {
		if result.Error != nil {
			printError("%s: %s", result.Error.Code, result.Error.Message)
			for _, s := range result.Error.Suggestions {
				fmt.Fprintf(os.Stderr, "    - %s\n", s)
			}
		} else {
			printError("resolution failed")
		}
		return
	}

	cfg := result.Config
	fmt.Printf("%s (%s, confidence %.2f)\n", colorize(colorBold, cfg.Profile.Name), cfg.Profile.Type, cfg.Confidence)
	for _, tr := range cfg.Profile.Traits {
		fmt.Printf("  %s %s (%d/10)\n", colorize(colorCyan, tr.Category+":"), tr.Name, tr.Intensity)
	}
	if len(cfg.Profile.Mannerisms) > 0 {
		fmt.Println("  Mannerisms:")
		for _, m := range cfg.Profile.Mannerisms {
			fmt.Printf("    - %s\n", m)
		}
	}
	if cfg.Environment.Active {
		printSuccess("Wrote %s configuration to %s", cfg.Environment.TypeTag, cfg.Environment.WrittenPath)
	}
}
