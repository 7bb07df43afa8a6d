package script

import (
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "ellipsis becomes period plus pause",
			in:   "Hello... world",
			want: `Hello.<pause value="0.5"></pause> world`,
		},
		{
			name: "pause token",
			in:   "Wait (pause) done",
			want: `Wait <pause value="0.5"></pause> done`,
		},
		{
			name: "bare pause tag closed",
			in:   `<pause value="2">`,
			want: `<pause value="2"></pause>`,
		},
		{
			name: "self-closing pause normalized",
			in:   `<pause value="1"/>`,
			want: `<pause value="1"></pause>`,
		},
		{
			name: "already closed pause untouched",
			in:   `<pause value="1"></pause>`,
			want: `<pause value="1"></pause>`,
		},
		{
			name: "pause with content keeps it nested",
			in:   `<pause value="1">after</pause>`,
			want: `<pause value="1">after</pause>`,
		},
		{
			name: "bare sound tag closed",
			in:   `<sound value="beep"> next`,
			want: `<sound value="beep"></sound> next`,
		},
		{
			name: "bare tag at end of input",
			in:   `end <sound value="pop">`,
			want: `end <sound value="pop"></sound>`,
		},
		{
			name: "entities unescaped",
			in:   "Tom &amp; Jerry say &quot;hi&quot; &lt;now&gt;",
			want: `Tom & Jerry say "hi" <now>`,
		},
		{
			name: "longer tag name not touched",
			in:   "<pauses>",
			want: "<pauses>",
		},
		{
			name: "plain text untouched",
			in:   "Just a sentence.",
			want: "Just a sentence.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreprocessEllipsisFeedsParser(t *testing.T) {
	out := Preprocess("Hello... world")
	if !strings.Contains(out, `<pause value="0.5"></pause>`) {
		t.Fatalf("output %q lacks a pause element", out)
	}

	root, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var pauses int
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Type == ElementNode && n.Data == "pause" {
			pauses++
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	if pauses != 1 {
		t.Errorf("found %d pause elements, want 1", pauses)
	}
}
