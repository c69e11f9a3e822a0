package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Print the laser-etched SVG for some text")
	fmt.Fprintln(w, "  export     Save the SVG as a file through the download chain")
	fmt.Fprintln(w, "  serve      Run the web widget")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check Chrome and system setup")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'laseretch help <command>' for details on a specific command.")
}

// printGlyphUsage prints the flags shared by every composing command.
func printGlyphUsage(w io.Writer) {
	fmt.Fprintln(w, "Glyph:")
	fmt.Fprintln(w, "      --font-size <f>       Glyph cell size in px (default 48)")
	fmt.Fprintln(w, "      --stroke-width <f>    Outline stroke width (default 0.2)")
	fmt.Fprintln(w, "      --padding <f>         Canvas padding in px (default 20)")
	fmt.Fprintln(w, "  -s, --style <name>        Style: laser, cut, or a custom style")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory holding styles/<name>.css")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch generate [text...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compose the SVG and print it. Text defaults to config text.default, then LASER.")
	fmt.Fprintln(w, "Text is placed in the markup as typed; < and & are not escaped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write to a file instead of stdout")
	fmt.Fprintln(w)
	printGlyphUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch export [text...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save the SVG as laser_etched_text.svg. An object URL download is tried first,")
	fmt.Fprintln(w, "then a data URI; if both fail the SVG is printed for manual copy.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "      --host <s>            Host: file, browser (default file)")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Download directory (default .)")
	fmt.Fprintln(w, "      --filename <s>        Download file name")
	fmt.Fprintln(w, "  -i, --input <path>        Export an existing SVG file")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser step timeout (e.g., 30s)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox")
	fmt.Fprintln(w)
	printGlyphUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the web widget: text input, live preview, markup viewer, download.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w)
	printGlyphUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration in effect as YAML, defaults filled in.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: laseretch doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox settings, the temp directory and embedded styles.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: laseretch version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: laseretch help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
