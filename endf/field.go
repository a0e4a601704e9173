package endf

import (
	"strconv"
	"strings"
)

const (
	// FieldWidth is the width of one numeric field.
	FieldWidth = 11
	// FieldsPerLine is the number of numeric fields in columns 0-65.
	FieldsPerLine = 6
)

// ParseFloat decodes an ENDF floating point field. The exponent marker may
// be omitted: a sign following the mantissa starts the exponent, so
// "1.234560+2" is 123.456. A blank field is 0.
func ParseFloat(s string) (float64, error) {
	var sb strings.Builder
	inNumber := false
	inExponent := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			continue
		}
		if inNumber {
			if !inExponent {
				if c == '+' || c == '-' {
					sb.WriteByte('e')
					inExponent = true
				} else if c == 'e' || c == 'E' || c == 'd' || c == 'D' {
					inExponent = true
					// a sign directly after an explicit marker belongs to it
					sb.WriteByte('e')
					if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
						sb.WriteByte(s[i+1])
						i++
					}
					continue
				}
			}
		} else if c == '.' || (c >= '0' && c <= '9') {
			inNumber = true
		}
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return 0, nil
	}
	return strconv.ParseFloat(sb.String(), 64)
}

// ParseInt decodes an ENDF integer field. A blank field is 0.
func ParseInt(s string) (int, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, nil
	}
	return strconv.Atoi(t)
}

// column returns line[start:start+length], padding short lines with blanks.
func column(line string, start, length int) string {
	if start >= len(line) {
		return strings.Repeat(" ", length)
	}
	end := start + length
	if end > len(line) {
		return line[start:] + strings.Repeat(" ", end-len(line))
	}
	return line[start:end]
}

func field(line string, slot int) string {
	return column(line, slot*FieldWidth, FieldWidth)
}
