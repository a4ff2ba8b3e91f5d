package terminal

import "strings"

const glyphRows = 5

var glyphs = map[rune][glyphRows]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {"  █", "  █", "  █", "  █", "  █"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
}

// bigText renders digits and colons as block glyphs, one string per row.
func bigText(value string) []string {
	rows := make([]string, glyphRows)
	for row := range rows {
		parts := make([]string, 0, len(value))
		for _, char := range value {
			glyph, ok := glyphs[char]
			if !ok {
				continue
			}
			parts = append(parts, glyph[row])
		}
		rows[row] = strings.Join(parts, " ")
	}
	return rows
}
