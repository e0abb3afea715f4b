package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/minilang/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "feed", "edit", "clear", "quit"}

// isWordBoundary reports whether r ends a completable word: whitespace,
// the member-access dot, or any operator or punctuation character.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', ':', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets. The
// word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain ending just before wordStart,
// e.g. "cfg.db" for "x + cfg.db.ho" with the word "ho". Top-level words
// have no parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// candidates returns the completions for a word whose member-access
// parent is parent: keywords and bound names at the top level, map keys
// after a dot.
func (s *session) candidates(parent string) []string {
	if parent != "" {
		return s.keys(parent)
	}

	names := append(token.Keywords(), s.names()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches ranks the candidates for the word at the cursor. An empty
// word matches nothing at the top level so the hint line stays visible;
// after a dot it lists every key of the map.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = m.session.candidates(parent)

		if word == "" {
			if parent == "" {
				return nil, wordStart, wordEnd
			}

			for i, c := range candidates {
				matches = append(matches, fuzzy.Match{Str: c, Index: i})
			}

			return matches, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar lays the matches out on one line, truncated with an
// ellipsis to fit width. The selected match is highlighted while cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	cycling bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	for i, match := range matches {
		item := renderCandidate(match, cycling && i == selected)

		w := lipgloss.Width(item)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && lipgloss.Width(b.String())+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)
	}

	return b.String()
}

// renderCandidate highlights the matched characters of a candidate.
// Built-in functions get a "()" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, bold := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, bold = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(bold.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if _, ok := builtins[match.Str]; ok {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
