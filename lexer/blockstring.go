package lexer

import (
	"strings"
)

// BlockStringValue returns the string value of a raw block string body, as
// found between the """ quotes: \""" is unescaped, the common indentation of
// all lines but the first is removed and leading and trailing blank lines
// are dropped.
func BlockStringValue(raw string) string {
	raw = strings.ReplaceAll(raw, `\"""`, `"""`)
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")

	commonIndent := -1
	for _, line := range lines[1:] {
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue
		}
		if commonIndent < 0 || indent < commonIndent {
			commonIndent = indent
		}
	}
	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) < commonIndent {
				lines[i] = ""
				continue
			}
			lines[i] = lines[i][commonIndent:]
		}
	}

	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func isBlank(line string) bool {
	return leadingWhitespace(line) == len(line)
}
