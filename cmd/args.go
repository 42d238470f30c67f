package cmd

import (
	"encoding/hex"
	"errors"
	"strings"
)

var errUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// splitArgs splits a REPL line into arguments the way redis-cli does.
// Double quoted arguments take C-style escapes, single quoted ones only \'.
func splitArgs(line string) ([]string, error) {
	var argv []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return argv, nil
		}

		switch q := line[i]; q {
		case '"', '\'':
			j := i + 1
			for j < len(line) && line[j] != q {
				if line[j] == '\\' && j+1 < len(line) {
					j++
				}
				j++
			}
			// closing quote must end the argument
			if j == len(line) || (j+1 < len(line) && !isSpace(line[j+1])) {
				return nil, errUnbalancedQuotes
			}
			body := line[i+1 : j]
			if q == '"' {
				argv = append(argv, string(unescape(body)))
			} else {
				argv = append(argv, strings.ReplaceAll(body, `\'`, "'"))
			}
			i = j + 1
		default:
			j := i
			for j < len(line) && !isSpace(line[j]) {
				j++
			}
			argv = append(argv, line[i:j])
			i = j
		}
	}
}

// unescape decodes \n \r \t \b \a and \xHH. Any other escaped byte stands
// for itself, so \\ and \" give a backslash and a quote.
func unescape(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'a':
			out = append(out, '\a')
		case 'x':
			if i+2 < len(s) {
				if b, err := hex.DecodeString(s[i+1 : i+3]); err == nil {
					out = append(out, b[0])
					i += 2
					continue
				}
			}
			out = append(out, 'x')
		default:
			out = append(out, s[i])
		}
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
