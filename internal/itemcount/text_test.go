package itemcount

import "testing"

func TestCountSeparatedItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n ", 0},
		{"single word", "dog", 1},
		{"single multi-word item", "the blue sky", 1},
		{"commas", "dog, cat, tree", 3},
		{"commas without spaces", "dog,cat,tree", 3},
		{"periods", "The sky. The grass. A bird.", 3},
		{"semicolons", "a dog; a cat; a tree", 3},
		{"and", "dog and cat", 2},
		{"multiple ands", "dog and cat and tree", 3},
		{"comma and and combined", "dog, cat, and tree", 3},
		{"multi-word items", "the blue sky, a red car", 2},
		{"newlines", "dog\ncat\ntree", 3},
		{"five items", "the sky, my desk, a pen, a cup, the window", 5},
		{"trailing comma", "dog, cat,", 2},
		{"and inside a word", "sand and candle", 2},
		{"band is not a separator", "a rubber band", 1},
		{"period without space", "3.5 inch screen", 1},
		{"only separators", ", , ;", 1},
		{"leading and trailing blanks", "  dog, cat  \n", 2},
		{"crlf lines", "dog\r\ncat", 2},
		{"period before no-break space", "The sky.\u00a0The grass", 2},
		{"semicolon before no-break space", "a dog;\u00a0a cat", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountSeparatedItems(tt.text)
			if got != tt.want {
				t.Errorf("CountSeparatedItems(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountSeparatedItemsNoSeparatorIsOne(t *testing.T) {
	inputs := []string{"x", "a big old oak", "Sky", "  lamp  ", "coffee-mug"}
	for _, in := range inputs {
		if got := CountSeparatedItems(in); got != 1 {
			t.Errorf("CountSeparatedItems(%q) = %d, want 1", in, got)
		}
	}
}

func TestCountSeparatedItemsIdempotent(t *testing.T) {
	text := "dog, cat and tree. bird"
	first := CountSeparatedItems(text)
	for i := 0; i < 3; i++ {
		if got := CountSeparatedItems(text); got != first {
			t.Fatalf("call %d = %d, want %d", i, got, first)
		}
	}
}
