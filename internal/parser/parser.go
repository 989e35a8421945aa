package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"fmt"
	"strings"
	"unicode"
)

// maxWords bounds how many leading keywords are kept per statement.
const maxWords = 8

// Statement is one SQL statement from a script.
type Statement struct {
	// Text is the statement without its terminating semicolon, trimmed.
	Text string
	// Location is the byte offset of the statement in the original script.
	Location int
	// Words holds the leading bare words of the statement, upper-cased,
	// with comments skipped. Quoted identifiers appear with their quotes.
	Words []string
	// Raw holds the same words as written.
	Raw []string
}

// Ident returns word i as an identifier: as written, with any quoting
// removed. It returns "" when i is out of range.
func (s Statement) Ident(i int) string {
	if i < 0 || i >= len(s.Raw) {
		return ""
	}

	return Unquote(s.Raw[i])
}

// Unquote strips SQLite identifier quoting ("x", `x`, [x]) and undoes
// doubled quote characters. Bare words are returned unchanged.
func Unquote(ident string) string {
	if len(ident) < 2 {
		return ident
	}

	first, last := ident[0], ident[len(ident)-1]

	switch {
	case first == '[' && last == ']':
		return ident[1 : len(ident)-1]
	case (first == '"' || first == '`') && last == first:
		q := string(first)

		return strings.ReplaceAll(ident[1:len(ident)-1], q+q, q)
	default:
		return ident
	}
}

// Keyword returns the first word of the statement, or "".
func (s Statement) Keyword() string {
	if len(s.Words) == 0 {
		return ""
	}

	return s.Words[0]
}

// HasPrefix reports whether the statement's leading words equal words.
func (s Statement) HasPrefix(words ...string) bool {
	if len(words) > len(s.Words) {
		return false
	}

	for i, w := range words {
		if s.Words[i] != w {
			return false
		}
	}

	return true
}

// Contains reports whether word appears among the leading words.
func (s Statement) Contains(word string) bool {
	for _, w := range s.Words {
		if w == word {
			return true
		}
	}

	return false
}

// ParseResult holds the split statements and original SQL.
type ParseResult struct {
	Stmts []Statement
	SQL   string
}

// Parse splits a SQLite script into statements. It understands quoted
// strings and identifiers, line and block comments, and BEGIN...END bodies of
// CREATE TRIGGER. Returns an empty result for empty or whitespace-only input,
// and an error for an unterminated quote or comment.
func Parse(sql string) (*ParseResult, error) {
	if strings.TrimSpace(sql) == "" {
		return &ParseResult{SQL: sql}, nil
	}

	s := &scanner{src: sql}
	if err := s.run(); err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	return &ParseResult{Stmts: s.stmts, SQL: sql}, nil
}

type scanner struct {
	src   string
	pos   int
	start int
	words []string
	raw   []string
	depth int
	stmts []Statement
}

func (s *scanner) run() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\'' || c == '"' || c == '`':
			word, err := s.quoted(c, c)
			if err != nil {
				return err
			}

			if c != '\'' {
				s.addWord(word, word)
			}
		case c == '[':
			word, err := s.quoted('[', ']')
			if err != nil {
				return err
			}

			s.addWord(word, word)
		case c == '-' && s.peek(1) == '-':
			s.lineComment()
		case c == '/' && s.peek(1) == '*':
			if err := s.blockComment(); err != nil {
				return err
			}
		case c == ';':
			s.pos++

			if s.depth == 0 {
				s.flush(s.pos - 1)
			}
		case isWordByte(c):
			s.word()
		default:
			s.pos++
		}
	}

	s.flush(len(s.src))

	return nil
}

func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}

	return s.src[s.pos+n]
}

func (s *scanner) quoted(open, closing byte) (string, error) {
	begin := s.pos
	s.pos++

	for s.pos < len(s.src) {
		if s.src[s.pos] == closing {
			// A doubled closing quote is an escaped quote, except for [...].
			if open != '[' && s.peek(1) == closing {
				s.pos += 2
				continue
			}

			s.pos++

			return s.src[begin:s.pos], nil
		}

		s.pos++
	}

	return "", fmt.Errorf("unterminated %c at offset %d", open, begin)
}

func (s *scanner) lineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) blockComment() error {
	begin := s.pos
	end := strings.Index(s.src[s.pos+2:], "*/")

	if end < 0 {
		return fmt.Errorf("unterminated comment at offset %d", begin)
	}

	s.pos += end + 4

	return nil
}

func (s *scanner) word() {
	begin := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		// A dot joins qualified names such as main.users into one word.
		if !isWordByte(c) && (c != '.' || !isWordByte(s.peek(1))) {
			break
		}

		s.pos++
	}

	raw := s.src[begin:s.pos]
	w := strings.ToUpper(raw)

	if s.isTrigger() {
		switch w {
		case "BEGIN", "CASE":
			s.depth++
		case "END":
			if s.depth > 0 {
				s.depth--
			}
		}
	}

	s.addWord(w, raw)
}

// isTrigger reports whether the statement being scanned is CREATE [TEMP] TRIGGER.
func (s *scanner) isTrigger() bool {
	if len(s.words) < 2 || s.words[0] != "CREATE" {
		return false
	}

	if s.words[1] == "TRIGGER" {
		return true
	}

	return len(s.words) >= 3 && (s.words[1] == "TEMP" || s.words[1] == "TEMPORARY") && s.words[2] == "TRIGGER"
}

func (s *scanner) addWord(w, raw string) {
	if len(s.words) < maxWords {
		s.words = append(s.words, w)
		s.raw = append(s.raw, raw)
	}
}

func (s *scanner) flush(end int) {
	raw := s.src[s.start:end]
	text := strings.TrimSpace(raw)

	if text != "" && len(s.words) > 0 {
		lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		s.stmts = append(s.stmts, Statement{
			Text:     text,
			Location: s.start + lead,
			Words:    s.words,
			Raw:      s.raw,
		})
	}

	s.start = end + 1
	s.words = nil
	s.raw = nil
	s.depth = 0
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
