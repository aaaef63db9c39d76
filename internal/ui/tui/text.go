package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, "...")
}

// formatDetail renders label followed by text wrapped to width, with
// continuation lines indented under the first.
func formatDetail(label, text string, width int) string {
	labelWidth := runewidth.StringWidth(label)
	if width <= labelWidth {
		return label + text
	}
	lines := strings.Split(wrapText(text, width-labelWidth), "\n")

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(label)
			b.WriteString(line)
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", labelWidth))
		b.WriteString(line)
	}
	return b.String()
}

// wrapText wraps on whitespace. Words wider than width, such as long
// manifest paths, are broken after a '/' where possible.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(strings.ReplaceAll(text, "\n", " "))
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range words {
		for j, piece := range breakWord(word, width) {
			w := runewidth.StringWidth(piece)
			switch {
			case lineWidth == 0:
			case j > 0 || lineWidth+1+w > width:
				flush()
			default:
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(piece)
			lineWidth += w
		}
	}
	if lineWidth > 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}

func breakWord(word string, width int) []string {
	var pieces []string
	for runewidth.StringWidth(word) > width {
		head := runewidth.Truncate(word, width, "")
		if i := strings.LastIndex(head, "/"); i > 0 {
			head = head[:i+1]
		}
		if head == "" {
			break
		}
		pieces = append(pieces, head)
		word = word[len(head):]
	}
	if word != "" {
		pieces = append(pieces, word)
	}
	return pieces
}
