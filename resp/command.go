package resp

import "strconv"

// Command builds the array of blob strings a client sends for a command.
func Command(command string, arguments ...string) Array {
	elems := make([]Value, 0, len(arguments)+1)
	elems = append(elems, BlobString{Value: command})
	for _, arg := range arguments {
		elems = append(elems, BlobString{Value: arg})
	}
	return Array{Elements: elems}
}

// ConvertToRESP returns the wire encoding of a command.
func ConvertToRESP(command string, arguments ...string) []byte {
	return AppendValue(nil, Command(command, arguments...))
}

// FormatCommand builds a command from a printf-like template. Words are
// separated by spaces; %s takes a string, %b a []byte, %d an int and %%
// is a literal percent sign. A substituted argument is never split, so
// FormatCommand("SET %s %s", "my key", "a b") has three arguments.
func FormatCommand(format string, args ...any) (Array, error) {
	var (
		argv     []string
		curArg   []byte
		argIndex int
		touched  bool
	)
	next := func() (any, error) {
		if argIndex >= len(args) {
			return nil, invalidValue("command format %q: not enough arguments", format)
		}
		arg := args[argIndex]
		argIndex++
		return arg, nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			if c == ' ' {
				if touched {
					argv = append(argv, string(curArg))
					curArg = curArg[:0]
					touched = false
				}
			} else {
				curArg = append(curArg, c)
				touched = true
			}
			continue
		}

		i++
		if i >= len(format) {
			return Array{}, invalidValue("command format %q ended unexpectedly", format)
		}
		switch format[i] {
		case '%':
			curArg = append(curArg, '%')
		case 's', 'b', 'd':
			arg, err := next()
			if err != nil {
				return Array{}, err
			}
			switch v := arg.(type) {
			case string:
				if format[i] != 's' {
					return Array{}, invalidValue("command format %q: %%%c got a string", format, format[i])
				}
				curArg = append(curArg, v...)
			case []byte:
				if format[i] != 'b' {
					return Array{}, invalidValue("command format %q: %%%c got a []byte", format, format[i])
				}
				curArg = append(curArg, v...)
			case int:
				if format[i] != 'd' {
					return Array{}, invalidValue("command format %q: %%%c got an int", format, format[i])
				}
				curArg = strconv.AppendInt(curArg, int64(v), 10)
			default:
				return Array{}, invalidValue("command format %q: unsupported argument %T", format, arg)
			}
		default:
			return Array{}, invalidValue("command format %q: unsupported specifier %%%c", format, format[i])
		}
		touched = true
	}
	if touched {
		argv = append(argv, string(curArg))
	}
	if len(argv) == 0 {
		return Array{}, invalidValue("command format %q is empty", format)
	}
	return Command(argv[0], argv[1:]...), nil
}
