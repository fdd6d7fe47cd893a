package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pure_object",
			input: `{"results":[]}`,
			want:  `{"results":[]}`,
		},
		{
			name:  "pure_array",
			input: `[{"index":0}]`,
			want:  `[{"index":0}]`,
		},
		{
			name:  "object_with_preamble",
			input: `Here is the classification: {"results":[{"index":0}]} done.`,
			want:  `{"results":[{"index":0}]}`,
		},
		{
			name:  "array_with_preamble",
			input: `Result: [{"index":0}]`,
			want:  `[{"index":0}]`,
		},
		{
			name:  "no_json",
			input: "just some text",
			want:  "just some text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no_fence",
			input: `{"results":[]}`,
			want:  `{"results":[]}`,
		},
		{
			name:  "fence_with_language_tag",
			input: "```json\n{\"results\":[]}\n```",
			want:  `{"results":[]}`,
		},
		{
			name:  "fence_without_language_tag",
			input: "```\n{\"results\":[]}\n```",
			want:  `{"results":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripCodeFence(tt.input)
			if got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBatchResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{
			name:    "wrapper_format",
			input:   `{"results":[{"index":0,"sentiment":"negative","category":"network","confidence":0.8}]}`,
			wantLen: 1,
		},
		{
			name:    "bare_array",
			input:   `[{"index":0,"sentiment":"positive","category":"other","confidence":0.7}]`,
			wantLen: 1,
		},
		{
			name:    "fenced_wrapper",
			input:   "```json\n{\"results\":[{\"index\":0,\"sentiment\":\"neutral\",\"category\":\"other\",\"confidence\":0.5}]}\n```",
			wantLen: 1,
		},
		{
			name:    "garbage",
			input:   "the model refused to answer",
			wantErr: true,
		},
		{
			name:    "empty_results",
			input:   `{"results":[]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBatchResponse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseBatchResponse(%q) expected error, got %v", tt.input, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("parseBatchResponse(%q) unexpected error: %v", tt.input, err)
			}

			if len(got) != tt.wantLen {
				t.Errorf("parseBatchResponse(%q) returned %d results, want %d", tt.input, len(got), tt.wantLen)
			}
		})
	}
}
