// Package naming renders generated file names from %-style templates such as
// "k%(level)d-%(file_id)s.tile".
package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Variable names accepted inside %(...) placeholders.
const (
	VarLevel     = "level"
	VarFileID    = "file_id"
	VarWidth     = "width"
	VarHeight    = "height"
	VarTimestamp = "timestamp"
)

// ErrTemplate is matched by every *TemplateError.
var ErrTemplate = errors.New("invalid name template")

// TemplateError reports a template that cannot be compiled.
type TemplateError struct {
	Template string
	Pos      int
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid name template %q at offset %d: %s", e.Template, e.Pos, e.Reason)
}

// Is reports whether target is ErrTemplate.
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplate
}

// Vars holds the values substituted into a template.
type Vars struct {
	Level     int
	FileID    string
	Width     int
	Height    int
	Timestamp int64
}

type verb byte

const (
	verbDecimal verb = 'd'
	verbString  verb = 's'
)

// segment is either a literal (name == "") or a placeholder.
type segment struct {
	literal   string
	name      string
	verb      verb
	width     int
	zeroPad   bool
	leftAlign bool
}

// Template is a compiled name template. It is immutable and safe for
// concurrent use.
type Template struct {
	source   string
	segments []segment
}

// Parse compiles template. Unknown variables, malformed placeholders and
// stray '%' characters are reported as *TemplateError.
func Parse(template string) (*Template, error) {
	t := &Template{source: template}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	fail := func(pos int, reason string) (*Template, error) {
		return nil, &TemplateError{Template: template, Pos: pos, Reason: reason}
	}

	for i := 0; i < len(template); {
		c := template[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(template) {
			return fail(i, "incomplete format")
		}
		switch template[i+1] {
		case '%':
			lit.WriteByte('%')
			i += 2
			continue
		case '(':
		default:
			return fail(i, fmt.Sprintf("unsupported format character %q", template[i+1]))
		}

		end := strings.IndexByte(template[i+2:], ')')
		if end < 0 {
			return fail(i, "unterminated variable name")
		}
		seg := segment{name: template[i+2 : i+2+end]}
		if !isKnown(seg.name) {
			return fail(i, fmt.Sprintf("unknown variable %q", seg.name))
		}
		j := i + 2 + end + 1
		for ; j < len(template); j++ {
			if template[j] == '0' {
				seg.zeroPad = true
			} else if template[j] == '-' {
				seg.leftAlign = true
			} else {
				break
			}
		}
		start := j
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j > start {
			w, err := strconv.Atoi(template[start:j])
			if err != nil {
				return fail(start, "invalid width")
			}
			seg.width = w
		}
		if j >= len(template) {
			return fail(i, "incomplete format")
		}
		switch template[j] {
		case 'd', 'i':
			if seg.name == VarFileID {
				return fail(i, "%d format requires a number, file_id is a string")
			}
			seg.verb = verbDecimal
		case 's':
			seg.verb = verbString
		default:
			return fail(j, fmt.Sprintf("unsupported format character %q", template[j]))
		}
		flush()
		t.segments = append(t.segments, seg)
		i = j + 1
	}
	flush()
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(template string) *Template {
	t, err := Parse(template)
	if err != nil {
		panic(err)
	}
	return t
}

// Render parses template and renders it with vars in one step.
func Render(template string, vars Vars) (string, error) {
	t, err := Parse(template)
	if err != nil {
		return "", err
	}
	return t.Render(vars), nil
}

// Render substitutes vars into the template.
func (t *Template) Render(vars Vars) string {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.name == "" {
			b.WriteString(seg.literal)
			continue
		}
		b.WriteString(seg.format(vars))
	}
	return b.String()
}

// String returns the template source.
func (t *Template) String() string {
	return t.source
}

// Variables returns the variable names referenced by the template, in order
// of appearance.
func (t *Template) Variables() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.name != "" {
			names = append(names, seg.name)
		}
	}
	return names
}

// UsesFileID reports whether rendered names embed the unique file id. Without
// it, concurrent workers may overwrite each other's files.
func (t *Template) UsesFileID() bool {
	for _, seg := range t.segments {
		if seg.name == VarFileID {
			return true
		}
	}
	return false
}

func isKnown(name string) bool {
	switch name {
	case VarLevel, VarFileID, VarWidth, VarHeight, VarTimestamp:
		return true
	}
	return false
}

func (s segment) format(vars Vars) string {
	var v string
	switch s.name {
	case VarLevel:
		v = strconv.Itoa(vars.Level)
	case VarFileID:
		v = vars.FileID
	case VarWidth:
		v = strconv.Itoa(vars.Width)
	case VarHeight:
		v = strconv.Itoa(vars.Height)
	case VarTimestamp:
		v = strconv.FormatInt(vars.Timestamp, 10)
	}
	return s.pad(v)
}

func (s segment) pad(v string) string {
	n := s.width - len(v)
	if n <= 0 {
		return v
	}
	switch {
	case s.leftAlign:
		return v + strings.Repeat(" ", n)
	case s.zeroPad && s.verb == verbDecimal:
		if strings.HasPrefix(v, "-") {
			return "-" + strings.Repeat("0", n) + v[1:]
		}
		return strings.Repeat("0", n) + v
	default:
		return strings.Repeat(" ", n) + v
	}
}
