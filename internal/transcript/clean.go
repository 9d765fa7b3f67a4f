// Package transcript extracts recognized text from whisper.cpp CLI output.
package transcript

import "strings"

// diagnosticPrefixes mark whisper-cli lines that carry loader/runtime chatter
// rather than recognized speech.
var diagnosticPrefixes = []string{
	"whisper_",
	"ggml_",
	"system_info",
	"main:",
	"error:",
}

// Clean strips whisper-cli diagnostics from stdout and returns the joined,
// whitespace-normalized transcript. An empty result is a valid outcome.
func Clean(stdout string) string {
	lines := strings.Split(stdout, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isDiagnostic(line) {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, " ")
	return strings.Join(strings.Fields(joined), " ")
}

func isDiagnostic(line string) bool {
	for _, prefix := range diagnosticPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	// Timestamped segments look like "[00:00:00.000 --> ...]" when -nt is not honored.
	if strings.HasPrefix(line, "[") {
		return true
	}
	// Loader stats ("load time: ...") put a colon within the first few runes.
	if idx := strings.IndexRune(line, ':'); idx >= 0 && idx < 10 {
		return true
	}
	return false
}
