package spawnxml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/udisondev/monsteredit/internal/backup"
)

// DefaultGenerator is the comment written after the declaration on save.
const DefaultGenerator = "Generated by MU Monster Editor"

const indentSpaces = 2

var (
	// ErrNoRoot is returned when a document has no root element.
	ErrNoRoot = errors.New("document has no root element")

	// ErrNotChild is returned when a node is removed from a parent it does not belong to.
	ErrNotChild = errors.New("node is not a child of the given parent")

	errMultipleRoots = errors.New("more than one root element")
	errTextOutside   = errors.New("text outside the root element")
)

// Store holds a spawn document in memory. It is not safe for concurrent use.
type Store struct {
	doc *etree.Document
}

// New creates a store with an empty root element.
func New(rootName string) *Store {
	doc := etree.NewDocument()
	doc.CreateElement(rootName)
	return &Store{doc: doc}
}

// Root returns the document root.
func (s *Store) Root() *etree.Element { return s.doc.Root() }

// Load parses the spawn document at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spawn document: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	slog.Info("loaded spawn document", "path", path, "maps", len(s.Maps()))
	return s, nil
}

// Parse reads the document. Comments inside the root are kept; the
// prolog (declaration, comments, doctype) is dropped since Render writes
// its own.
func Parse(r io.Reader) (*Store, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}

	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return nil, errMultipleRoots
			}
			root = t
		case *etree.CharData:
			if !t.IsWhitespace() {
				return nil, errTextOutside
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	out := etree.NewDocument()
	out.SetRoot(root)
	return &Store{doc: out}, nil
}

// Render serializes the whole tree with canonical 2-space indentation.
// Output is always UTF-8 and starts with the fixed declaration and a
// generator comment. The store itself is not modified.
func (s *Store) Render(generator string) []byte {
	if generator == "" {
		generator = DefaultGenerator
	}
	root := s.Root().Copy()
	sanitize(root)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.CreateComment(" " + commentSafe(generator) + " ")
	doc.SetRoot(root)
	doc.WriteSettings.CanonicalAttrVal = true
	doc.Indent(indentSpaces)

	var buf bytes.Buffer
	_, _ = doc.WriteTo(&buf)
	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n')
}

func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return sanitizeText(s)
}

// sanitize replaces characters XML 1.0 cannot carry in attribute values,
// text and comments.
func sanitize(e *etree.Element) {
	for i := range e.Attr {
		e.Attr[i].Value = sanitizeText(e.Attr[i].Value)
	}
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.Element:
			sanitize(t)
		case *etree.CharData:
			t.Data = sanitizeText(t.Data)
		case *etree.Comment:
			t.Data = sanitizeText(t.Data)
		}
	}
}

func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		if legalXMLChar(r) {
			return r
		}
		return '?'
	}, s)
}

func legalXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Save canonicalizes the tree and writes it to path, backing up the
// previous file first.
func (s *Store) Save(path, generator string, w *backup.Writer) error {
	if _, err := w.Replace(path, s.Render(generator)); err != nil {
		return fmt.Errorf("saving spawn document: %w", err)
	}
	slog.Info("spawn document saved", "path", path, "maps", len(s.Maps()))
	return nil
}
