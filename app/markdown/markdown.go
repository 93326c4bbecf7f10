// Package markdown renders the small markdown subset used for post bodies:
// headings, bold, italic, inline code, fenced code blocks, links,
// single-level unordered lists and paragraphs.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

const fence = "```"

var (
	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	codePattern   = regexp.MustCompile("`([^`]+)`")
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	defaultRenderer = New(Options{})
)

// Options tunes the renderer.
type Options struct {
	// SafeLinks replaces link targets whose scheme is not http, https,
	// mailto or a data:image payload with "#".
	SafeLinks bool
}

// Renderer converts markdown text to HTML. It holds no mutable state and is
// safe for concurrent use.
type Renderer struct {
	opts Options
}

// New returns a Renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// ToHTML renders md with the default options.
func ToHTML(md string) string {
	return defaultRenderer.Render(md)
}

// Render converts md to HTML. It never fails; empty input yields "".
func (r *Renderer) Render(md string) string {
	if md == "" {
		return ""
	}
	src := escaper.Replace(strings.ReplaceAll(md, "\r\n", "\n"))

	s := &scanner{
		r: r,
		// A trailing unmatched fence is literal text.
		fences: strings.Count(src, fence) &^ 1,
	}
	for i, line := range strings.Split(src, "\n") {
		if i > 0 && s.state == inFence {
			s.code.WriteByte('\n')
		}
		s.feed(line)
	}
	s.closeList()
	s.flushBlanks(true)
	return strings.Join(s.out, "\n")
}

type scanState int

const (
	inText scanState = iota
	inList
	inFence
)

// scanner walks the escaped source one line at a time.
type scanner struct {
	r      *Renderer
	state  scanState
	fences int
	code   strings.Builder
	items  []string
	out    []string
	// blanks counts empty source lines not yet written to out.
	blanks int
}

func (s *scanner) feed(line string) {
	whole := true
	for {
		i := -1
		if s.fences > 0 {
			i = strings.Index(line, fence)
		}
		if s.state == inFence {
			if i < 0 {
				s.code.WriteString(line)
				return
			}
			s.code.WriteString(line[:i])
			s.emit("<pre><code>" + s.code.String() + "</code></pre>")
			s.state = inText
		} else {
			if i < 0 {
				s.block(line, whole)
				return
			}
			s.block(line[:i], false)
			s.closeList()
			s.flushBlanks(false)
			s.code.Reset()
			s.state = inFence
		}
		s.fences--
		line = line[i+len(fence):]
		whole = false
	}
}

// block handles a run of text outside any code fence. Fragments that only
// share a line with a fence are dropped when they hold nothing but spaces.
// Empty lines are held back so that list items separated by them still
// form one list.
func (s *scanner) block(line string, whole bool) {
	if line == "" {
		if whole {
			s.blanks++
		}
		return
	}
	if strings.TrimSpace(line) == "" {
		if !whole {
			return
		}
		s.closeList()
		s.flushBlanks(false)
		s.emit(line)
		return
	}

	if item, ok := listItem(line); ok {
		if s.state == inList {
			s.blanks = 0
		} else {
			s.flushBlanks(false)
		}
		s.state = inList
		s.items = append(s.items, "<li>"+s.inline(item)+"</li>")
		return
	}
	s.closeList()
	s.flushBlanks(false)

	if level, text, ok := heading(line); ok {
		tag := "h" + strconv.Itoa(level)
		s.emit("<" + tag + ">" + s.inline(text) + "</" + tag + ">")
		return
	}
	html := s.inline(line)
	if strings.HasPrefix(html, "<") {
		s.emit(html)
		return
	}
	s.emit("<p>" + html + "</p>")
}

func (s *scanner) closeList() {
	if s.state != inList {
		return
	}
	s.emit("<ul>" + strings.Join(s.items, "") + "</ul>")
	s.items = s.items[:0]
	s.state = inText
}

// flushBlanks writes the held empty lines. Any run of two or more newlines
// becomes exactly one blank line, so a run between two blocks yields one
// empty line while a run at either end of the document keeps two newlines.
func (s *scanner) flushBlanks(final bool) {
	n := s.blanks
	s.blanks = 0
	if n == 0 {
		return
	}
	switch {
	case len(s.out) == 0 && final:
		n = min(n, 3)
	case len(s.out) == 0 || final:
		n = min(n, 2)
	default:
		n = 1
	}
	for ; n > 0; n-- {
		s.emit("")
	}
}

func (s *scanner) emit(line string) {
	s.out = append(s.out, line)
}

func (s *scanner) inline(text string) string {
	text = boldPattern.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicPattern.ReplaceAllString(text, "<em>${1}</em>")
	text = codePattern.ReplaceAllString(text, "<code>${1}</code>")
	return linkPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := linkPattern.FindStringSubmatch(m)
		return `<a href="` + s.r.href(sub[2]) + `" target="_blank">` + sub[1] + `</a>`
	})
}

func heading(line string) (int, string, bool) {
	for level := 3; level >= 1; level-- {
		marker := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, marker) {
			return level, line[len(marker):], true
		}
	}
	return 0, "", false
}

func listItem(line string) (string, bool) {
	rest := strings.TrimLeft(line, " \t")
	if len(rest) < 2 || (rest[0] != '-' && rest[0] != '*') || rest[1] != ' ' {
		return "", false
	}
	return rest[2:], true
}
