package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanExtractsSpeechLines(t *testing.T) {
	stdout := `whisper_init_from_file_with_params_no_state: loading model from 'ggml-tiny.en.bin'
whisper_model_load: n_vocab = 51864
system_info: n_threads = 4
main: processing 'rec.wav' (32000 samples, 2.0 sec)

 hello world
`
	require.Equal(t, "hello world", Clean(stdout))
}

func TestCleanJoinsMultipleSegments(t *testing.T) {
	stdout := " This is the first part.\n And this is   the second.\n"
	require.Equal(t, "This is the first part. And this is the second.", Clean(stdout))
}

func TestCleanDropsTimestampedAndStatLines(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   string
	}{
		{name: "timestamps", stdout: "[00:00:00.000 --> 00:00:02.000]  hi there\nhi there", want: "hi there"},
		{name: "load stats", stdout: "load time: 52.31 ms\nokay", want: "okay"},
		{name: "ggml chatter", stdout: "ggml_metal_init: allocating\nfine", want: "fine"},
		{name: "empty output", stdout: "", want: ""},
		{name: "whitespace only", stdout: "   \n\t\n", want: ""},
		{name: "diagnostics only", stdout: "whisper_print_timings: total time = 1.2s\n", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Clean(tc.stdout))
		})
	}
}
