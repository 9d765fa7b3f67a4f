// Package cli parses command-line flags for the talk binary.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// Parsed is the decoded command line. The binary has no subcommands; absent
// --doctor/--version/--help it runs the menu-bar app.
type Parsed struct {
	ConfigPath  string
	Debug       bool
	RunDoctor   bool
	ShowVersion bool
	ShowHelp    bool
}

func Parse(args []string) (Parsed, error) {
	var parsed Parsed

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
		case "--version":
			parsed.ShowVersion = true
		case "--debug":
			parsed.Debug = true
		case "--doctor":
			parsed.RunDoctor = true
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}
			return Parsed{}, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags]

Runs the menu-bar dictation app. Press the toggle hotkey to start recording,
press it again to transcribe and type the result at the cursor.

Flags:
  --config PATH   Config file path (default: ~/Library/Application Support/talk-local/config.jsonc)
  --debug         Enable debug logging
  --doctor        Run configuration and environment checks, then exit
  --version       Show version
  -h, --help      Show help
`, binaryName)
}
