package monster

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
)

// ErrUnterminatedQuote is returned by Tokenize when a quote or a trailing
// escape is left open.
var ErrUnterminatedQuote = errors.New("unterminated quoting")

// StripComment cuts a trailing // comment that sits outside double quotes
// and trims trailing whitespace. A backslash escapes the next character,
// so \" does not toggle the quote state.
func StripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			inQuote = !inQuote
		case '/':
			if !inQuote && i+1 < len(line) && line[i+1] == '/' {
				return strings.TrimRightFunc(line[:i], unicode.IsSpace)
			}
		}
	}
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// Tokenize splits text into shell-like words: whitespace separates, double
// and single quotes group (quotes are removed), backslash escapes and
// adjacent quoted/unquoted runs concatenate.
func Tokenize(text string) ([]string, error) {
	words, err := shellquote.Split(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnterminatedQuote, err)
	}
	return words, nil
}
