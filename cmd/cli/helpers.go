package main

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"

	"github.com/prlocal/prlocal/internal/core"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// statusColor picks a color matching the weight of a status.
func statusColor(status core.PRStatus) *color.Color {
	switch status {
	case core.StatusApproved, core.StatusMerged:
		return successColor
	case core.StatusChangesRequested:
		return errorColor
	case core.StatusPending:
		return warnColor
	default:
		return dimColor
	}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
