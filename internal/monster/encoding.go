package monster

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

// Encoding labels understood by Decode and Encode.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-sig"
	EncodingCP1250  = "cp1250"
	EncodingCP1251  = "cp1251"
	EncodingCP1252  = "cp1252"
	EncodingLatin1  = "latin-1"
	EncodingEUCKR   = "euc-kr"
)

// DefaultEncodings is the detection order used when none is configured.
var DefaultEncodings = []string{EncodingUTF8, EncodingCP1250, EncodingCP1252, EncodingLatin1}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var legacyEncodings = map[string]encoding.Encoding{
	EncodingCP1250: charmap.Windows1250,
	EncodingCP1251: charmap.Windows1251,
	EncodingCP1252: charmap.Windows1252,
	EncodingLatin1: charmap.ISO8859_1,
	EncodingEUCKR:  korean.EUCKR,
}

var encodingAliases = map[string]string{
	"utf8":         EncodingUTF8,
	"utf-8-bom":    EncodingUTF8BOM,
	"windows-1250": EncodingCP1250,
	"windows-1251": EncodingCP1251,
	"windows-1252": EncodingCP1252,
	"latin1":       EncodingLatin1,
	"iso-8859-1":   EncodingLatin1,
	"cp949":        EncodingEUCKR,
}

// NormalizeEncoding maps a user supplied label to its canonical form.
// Unknown labels come back lowercased and are rejected by KnownEncoding.
func NormalizeEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canon, ok := encodingAliases[n]; ok {
		return canon
	}
	return n
}

// KnownEncoding reports whether name (after normalization) can be used.
func KnownEncoding(name string) bool {
	n := NormalizeEncoding(name)
	if n == EncodingUTF8 || n == EncodingUTF8BOM {
		return true
	}
	_, ok := legacyEncodings[n]
	return ok
}

// Decode tries each candidate with strict decoding and returns the first
// that succeeds. When none does, the bytes are read as UTF-8 with every
// invalid byte replaced by U+FFFD and the label is utf-8.
func Decode(raw []byte, candidates []string) (string, string) {
	if len(candidates) == 0 {
		candidates = DefaultEncodings
	}
	for _, c := range candidates {
		if text, label, ok := decodeStrict(raw, NormalizeEncoding(c)); ok {
			return text, label
		}
	}
	return decodeLossy(raw), EncodingUTF8
}

func decodeStrict(raw []byte, name string) (string, string, bool) {
	switch name {
	case EncodingUTF8, EncodingUTF8BOM:
		if !utf8.Valid(raw) {
			return "", "", false
		}
		if bytes.HasPrefix(raw, utf8BOM) {
			// BOM is carried by the label, not by the first line
			return string(raw[len(utf8BOM):]), EncodingUTF8BOM, true
		}
		return string(raw), EncodingUTF8, true
	}

	enc, ok := legacyEncodings[name]
	if !ok {
		return "", "", false
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", "", false
	}
	return string(out), name, true
}

func decodeLossy(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for len(raw) > 0 {
		// invalid bytes decode to RuneError one at a time
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

// Encode renders text in the named encoding. Characters the target cannot
// represent become '?'. Unknown names encode as UTF-8.
func Encode(text, name string) []byte {
	name = NormalizeEncoding(name)
	switch name {
	case EncodingUTF8BOM:
		return append(bytes.Clone(utf8BOM), text...)
	case EncodingUTF8:
		return []byte(text)
	}

	enc, ok := legacyEncodings[name]
	if !ok {
		return []byte(text)
	}
	if cm, ok := enc.(*charmap.Charmap); ok {
		out := make([]byte, 0, len(text))
		for _, r := range text {
			b, ok := cm.EncodeRune(r)
			if !ok {
				b = '?'
			}
			out = append(out, b)
		}
		return out
	}
	// multi-byte code pages: per rune, so a failure costs one '?'
	e := enc.NewEncoder()
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, err := e.String(string(r))
		if err != nil {
			out = append(out, '?')
			continue
		}
		out = append(out, b...)
	}
	return out
}
