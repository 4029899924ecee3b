package ui

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

var (
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgBlue)
)

func PrintBanner(w io.Writer) {
	banner := figure.NewFigure("Sargassum", "isometric1", true)
	color.New(color.FgCyan).Fprintln(w, banner.String())
}

func PrintWarning(w io.Writer, message string) {
	warningColor.Fprintf(w, "\nWarning:\n%s\n", message)
}

func PrintError(w io.Writer, message string) {
	errorColor.Fprintf(w, "\nError: %s\n", message)
}

func PrintSuccess(w io.Writer, message string) {
	successColor.Fprintf(w, "\n%s\n", message)
}

func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}
