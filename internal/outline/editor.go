// Package outline implements the bullet editor used for note bodies: a text
// buffer plus a cursor, edited through Indent, Outdent and NewLine intents.
//
// Cursor offsets count runes, not bytes, so "•" is one position.
package outline

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteflow/internal/apperr"
)

// Intent is a logical key press.
type Intent string

const (
	Indent  Intent = "indent"  // Tab
	Outdent Intent = "outdent" // Shift+Tab
	NewLine Intent = "newline" // Enter
)

// Unit is one level of indentation.
const Unit = "  "

// Bullet is the marker inserted for new bullet lines.
const Bullet = "• "

// MaxLevel is the deepest level reachable with InsertBullet.
const MaxLevel = 3

// ParseIntent maps a wire value to an Intent.
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case Indent:
		return Indent, nil
	case Outdent:
		return Outdent, nil
	case NewLine:
		return NewLine, nil
	}
	return "", fmt.Errorf("%w: unknown intent %q", apperr.ErrValidation, s)
}

// Buffer is the editor state.
type Buffer struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

// Apply dispatches intent to the matching transition.
func (b Buffer) Apply(intent Intent) (Buffer, error) {
	switch intent {
	case Indent:
		return b.Indent(), nil
	case Outdent:
		return b.Outdent(), nil
	case NewLine:
		return b.NewLine(), nil
	}
	return b, fmt.Errorf("%w: unknown intent %q", apperr.ErrValidation, intent)
}

// Indent inserts one Unit at the cursor, wherever it is on the line.
func (b Buffer) Indent() Buffer {
	r, c := b.runes()
	return splice(r, c, c, Unit, c+len(Unit))
}

// Outdent removes one Unit from the start of the current line when the text
// between line start and cursor begins with one. Otherwise nothing changes.
func (b Buffer) Outdent() Buffer {
	r, c := b.runes()
	start := lineStart(r, c)
	if !strings.HasPrefix(string(r[start:c]), Unit) {
		return Buffer{Text: string(r), Cursor: c}
	}
	return splice(r, start, start+len(Unit), "", c-len(Unit))
}

// NewLine breaks the line at the cursor. The new line keeps the current
// line's leading whitespace and, if the current line is a bullet, starts
// with a fresh Bullet. A line that holds nothing but a bullet marker is
// replaced by a plain line break instead.
func (b Buffer) NewLine() Buffer {
	r, c := b.runes()
	start := lineStart(r, c)
	line := r[start:c]

	if isEmptyBullet(line) {
		return splice(r, start, c, "\n", start+1)
	}

	insert := "\n" + leadingSpace(line)
	if hasBullet(line) {
		insert += Bullet
	}
	return splice(r, c, c, insert, c+runeLen(insert))
}

// InsertBullet inserts a new bullet line of the given level (1..MaxLevel)
// at the cursor and moves the cursor past it. Level 1 is a top-level
// bullet; each further level adds one Unit.
func (b Buffer) InsertBullet(level int) (Buffer, error) {
	if err := validation.Validate(level, validation.Required, validation.Min(1), validation.Max(MaxLevel)); err != nil {
		return b, fmt.Errorf("%w: level: %v", apperr.ErrValidation, err)
	}
	r, c := b.runes()
	insert := "\n" + strings.Repeat(Unit, level-1) + Bullet
	return splice(r, c, c, insert, c+runeLen(insert)), nil
}

// runes returns the text as runes with the cursor clamped to it.
func (b Buffer) runes() ([]rune, int) {
	r := []rune(b.Text)
	c := b.Cursor
	if c < 0 {
		c = 0
	}
	if c > len(r) {
		c = len(r)
	}
	return r, c
}

func splice(r []rune, from, to int, insert string, cursor int) Buffer {
	var sb strings.Builder
	sb.WriteString(string(r[:from]))
	sb.WriteString(insert)
	sb.WriteString(string(r[to:]))
	return Buffer{Text: sb.String(), Cursor: cursor}
}

func lineStart(r []rune, c int) int {
	for i := c - 1; i >= 0; i-- {
		if r[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func leadingSpace(line []rune) string {
	n := 0
	for n < len(line) && unicode.IsSpace(line[n]) {
		n++
	}
	return string(line[:n])
}

func isMarker(r rune) bool {
	return r == '•' || r == '-' || r == '*'
}

func hasBullet(line []rune) bool {
	rest := line[len([]rune(leadingSpace(line))):]
	return len(rest) > 0 && isMarker(rest[0])
}

func isEmptyBullet(line []rune) bool {
	trimmed := []rune(strings.TrimSpace(string(line)))
	return len(trimmed) == 1 && isMarker(trimmed[0])
}

func runeLen(s string) int { return len([]rune(s)) }
