package gemini

import "testing"

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"city\": \"delhi\"}\n```": `{"city": "delhi"}`,
		"```\n[1, 2]\n```":                    `[1, 2]`,
		`{"plain": true}`:                     `{"plain": true}`,
		"  {\"padded\": 1}  ":                 `{"padded": 1}`,
	}
	for in, want := range cases {
		if got := StripCodeFence(in); got != want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripCodeFence_UnterminatedFenceLeftAlone(t *testing.T) {
	in := "```json\n{\"city\": \"delhi\"}"
	if got := StripCodeFence(in); got != in {
		t.Errorf("unterminated fence modified: %q", got)
	}
}
