package fault

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError is the panic value raised for a malformed Because template.
// It signals a defect at the call site, not a failed check.
type FormatError struct {
	Template string
	Offset   int
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("fault: malformed template %q at offset %d: %s", e.Template, e.Offset, e.Reason)
}

// Because formats a reason template. An empty template yields "". Without
// args the template is returned verbatim. Otherwise {0}, {1}, ... are
// replaced by the positional args and {{ and }} stand for literal braces.
//
// Unbalanced braces, non-numeric placeholders and out-of-range indexes
// panic with a *FormatError.
func Because(template string, args ...any) string {
	if template == "" {
		return ""
	}
	if len(args) == 0 {
		return template
	}

	var buf strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				buf.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				panic(&FormatError{Template: template, Offset: i, Reason: "unclosed placeholder"})
			}
			index, ok := placeholderIndex(template[i+1 : i+1+end])
			if !ok {
				panic(&FormatError{Template: template, Offset: i, Reason: "placeholder is not an index"})
			}
			if index >= len(args) {
				panic(&FormatError{
					Template: template,
					Offset:   i,
					Reason:   fmt.Sprintf("index %d out of range for %d argument(s)", index, len(args)),
				})
			}
			fmt.Fprint(&buf, args[index])
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				buf.WriteByte('}')
				i++
				continue
			}
			panic(&FormatError{Template: template, Offset: i, Reason: "unmatched '}'"})
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

func placeholderIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Reason turns the optional msgAndArgs tail accepted by catalog checks into
// a reason string. The first element is a Because template and the rest are
// its arguments. A single non-string element is rendered with %+v.
func Reason(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	template, ok := msgAndArgs[0].(string)
	if !ok {
		if len(msgAndArgs) == 1 {
			return fmt.Sprintf("%+v", msgAndArgs[0])
		}
		panic(&FormatError{Reason: fmt.Sprintf("reason template must be a string, got %T", msgAndArgs[0])})
	}
	return Because(template, msgAndArgs[1:]...)
}
