package session

import (
	"fmt"
	"strconv"
	"strings"

	"goslop/src/overlay"
)

// Format expands the output template:
//
//	%x %y %w %h  rounded geometry
//	%g           WxH+X+Y
//	%i           window id (0 for a dragged region)
//	%c           1 when cancelled, else 0
//	%%           a literal percent sign
//
// The escapes \n and \t are expanded as well.
func Format(format string, res overlay.Result, cancelled bool) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '\\' && i+1 < len(format) && (format[i+1] == 'n' || format[i+1] == 't'):
			i++
			if format[i] == 'n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte('\t')
			}
		case c == '%':
			if i+1 >= len(format) {
				return "", fmt.Errorf("format %q ends with a bare %%", format)
			}
			i++
			if err := writeVerb(&b, format[i], res, cancelled); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func writeVerb(b *strings.Builder, verb byte, res overlay.Result, cancelled bool) error {
	switch verb {
	case 'x':
		b.WriteString(strconv.Itoa(round(res.X)))
	case 'y':
		b.WriteString(strconv.Itoa(round(res.Y)))
	case 'w':
		b.WriteString(strconv.Itoa(round(res.W)))
	case 'h':
		b.WriteString(strconv.Itoa(round(res.H)))
	case 'g':
		fmt.Fprintf(b, "%dx%d+%d+%d", round(res.W), round(res.H), round(res.X), round(res.Y))
	case 'i':
		b.WriteString(strconv.FormatUint(uint64(res.WindowID), 10))
	case 'c':
		if cancelled {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	case '%':
		b.WriteByte('%')
	default:
		return fmt.Errorf("unknown format option %%%c", verb)
	}
	return nil
}
