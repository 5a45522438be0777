package monster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "no comment", line: "1\t2\t\"Slime\"   ", want: "1\t2\t\"Slime\""},
		{name: "trailing comment", line: "1 2 \"Slime\" // boss", want: "1 2 \"Slime\""},
		{name: "comment inside quotes", line: `1 "http://x" 3`, want: `1 "http://x" 3`},
		{name: "comment after quoted slashes", line: `1 "a//b" 3 // c`, want: `1 "a//b" 3`},
		{name: "escaped quote keeps state", line: `1 "a\"//b" 3`, want: `1 "a\"//b" 3`},
		{name: "whole line comment", line: "// header", want: ""},
		{name: "single slash", line: "1 / 2", want: "1 / 2"},
		{name: "empty", line: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComment(tt.line))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "tabs and spaces", text: "1\t2  3", want: []string{"1", "2", "3"}},
		{name: "quoted name with spaces", text: `5 "Red Dragon" 7`, want: []string{"5", "Red Dragon", "7"}},
		{name: "empty quoted token", text: `5 "" 7`, want: []string{"5", "", "7"}},
		{name: "adjacent runs concatenate", text: `a"b c"d`, want: []string{"ab cd"}},
		{name: "backslash escape", text: `a\ b c`, want: []string{"a b", "c"}},
		{name: "escaped quote inside quotes", text: `"say \"hi\""`, want: []string{`say "hi"`}},
		{name: "single quotes", text: `'Tom"s' x`, want: []string{`Tom"s`, "x"}},
		{name: "blank", text: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Unterminated(t *testing.T) {
	for _, text := range []string{`1 "Slime 3`, `1 'x`, `1 2 \`} {
		_, err := Tokenize(text)
		require.Error(t, err, "text %q", text)
		assert.ErrorIs(t, err, ErrUnterminatedQuote)
	}
}
