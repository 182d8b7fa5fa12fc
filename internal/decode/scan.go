package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
)

// keyLinePattern matches "key: value" lines, optionally behind one or more
// "- " sequence markers. Groups: 1=indent, 2=markers, 3=key, 4=space after
// the colon plus value (empty when the value is on following lines).
var keyLinePattern = regexp.MustCompile(`^(\s*)((?:-\s+)*)("(?:[^"\\]|\\.)*"|'(?:[^']|'')*'|[^\s#'"?:,\[\]{}&*!|>%@` + "`" + `-][^:#]*?|-[^\s:#][^:#]*?)\s*:(\s+.*)?$`)

// itemLinePattern matches a bare sequence item: "- value".
var itemLinePattern = regexp.MustCompile(`^(\s*)((?:-\s+)+)(.*)$`)

// blockHeaderPattern matches literal/folded block scalar headers.
var blockHeaderPattern = regexp.MustCompile(`^[|>][+-]?[1-9]?[+-]?\s*(#.*)?$`)

// freeTextKeys are the keys whose values the exporter writes unquoted even
// when they contain reserved characters.
var freeTextKeys = map[string]bool{
	"title":       true,
	"name":        true,
	"description": true,
}

// scalarLine is one key/value or item line of the text export.
type scalarLine struct {
	indent int
	key    string // unquoted; empty for bare items
	value  string // trimmed value text
	col    int    // 0-based byte column where value starts
}

// parseLine classifies a single line. ok is false for lines that carry no
// inline scalar (blank, comment, document markers, continuation text).
func parseLine(line string) (scalarLine, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || trimmed == "---" || trimmed == "..." {
		return scalarLine{}, false
	}

	if m := keyLinePattern.FindStringSubmatchIndex(line); m != nil {
		sl := scalarLine{
			indent: m[3] - m[2] + (m[5] - m[4]),
			key:    unquoteKey(line[m[6]:m[7]]),
		}
		if m[8] >= 0 {
			rest := line[m[8]:m[9]]
			lead := len(rest) - len(strings.TrimLeft(rest, " \t"))
			sl.col = m[8] + lead
			sl.value = strings.TrimRight(rest[lead:], " \t\r")
		}
		return sl, true
	}

	if m := itemLinePattern.FindStringSubmatchIndex(line); m != nil {
		return scalarLine{
			indent: m[3] - m[2] + (m[5] - m[4]),
			col:    m[6],
			value:  strings.TrimRight(line[m[6]:m[7]], " \t\r"),
		}, true
	}

	return scalarLine{}, false
}

func unquoteKey(k string) string {
	if len(k) >= 2 && k[0] == '"' {
		if s, err := strconv.Unquote(k); err == nil {
			return s
		}
	}
	if len(k) >= 2 && k[0] == '\'' {
		return strings.ReplaceAll(k[1:len(k)-1], "''", "'")
	}
	return k
}

// scanReserved rejects plain values that a YAML parser would silently
// truncate or reinterpret. Quoted values and block scalars are left to the
// parser.
func scanReserved(src []byte) error {
	lines := strings.Split(string(src), "\n")
	blockIndent := -1

	for i, line := range lines {
		if blockIndent >= 0 {
			ind := len(line) - len(strings.TrimLeft(line, " "))
			if strings.TrimSpace(line) == "" || ind > blockIndent {
				continue
			}
			blockIndent = -1
		}

		sl, ok := parseLine(line)
		if !ok || sl.value == "" {
			continue
		}
		if blockHeaderPattern.MatchString(sl.value) {
			blockIndent = sl.indent
			continue
		}
		if col, reason := reservedIn(sl.value); reason != "" {
			subject := "sequence item"
			if sl.key != "" {
				subject = fmt.Sprintf("value of %q", sl.key)
			}
			return &wmerrors.MalformedInputError{
				Encoding: string(KindText),
				Line:     i + 1,
				Column:   sl.col + col + 1,
				Reason:   fmt.Sprintf("%s %s", subject, reason),
			}
		}
	}
	return nil
}

// reservedIn returns the 0-based column and a description of the first
// reserved construct in a plain value, or "" when the value is safe.
func reservedIn(v string) (int, string) {
	switch v[0] {
	case '"', '\'':
		return 0, ""
	case '[', '{':
		if v == "[]" || v == "{}" {
			return 0, ""
		}
		return 0, fmt.Sprintf("starts with unquoted flow indicator %q", v[0])
	case '&', '*', '!', '|', '>', '%', '@', '`', ']', '}', ',':
		return 0, fmt.Sprintf("starts with unquoted reserved character %q", v[0])
	case '-', '?':
		if len(v) == 1 || v[1] == ' ' || v[1] == '\t' {
			return 0, fmt.Sprintf("starts with unquoted indicator %q", v[0])
		}
	}

	if idx := strings.Index(v, ": "); idx >= 0 {
		return idx, "contains unquoted \": \""
	}
	if strings.HasSuffix(v, ":") {
		return len(v) - 1, "ends with unquoted \":\""
	}
	for _, sep := range []string{" #", "\t#"} {
		if idx := strings.Index(v, sep); idx >= 0 {
			return idx + 1, "contains unquoted \" #\" that would be read as a comment"
		}
	}
	return 0, ""
}

// RepairQuotes wraps the plain values of free-text keys (title, name,
// description) in double quotes, escaping backslashes and quotes. Values
// that are already quoted, empty, block scalars or numbers are left alone.
// Line count is preserved so parser positions still match the input.
func RepairQuotes(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		sl, ok := parseLine(line)
		if !ok || !freeTextKeys[sl.key] || sl.value == "" {
			continue
		}
		if fullyQuoted(sl.value) || blockHeaderPattern.MatchString(sl.value) {
			continue
		}
		if _, err := strconv.ParseFloat(sl.value, 64); err == nil {
			continue
		}

		cr := ""
		if strings.HasSuffix(line, "\r") {
			cr = "\r"
		}
		lines[i] = line[:sl.col] + quoteDouble(sl.value) + cr
	}
	return []byte(strings.Join(lines, "\n"))
}

// fullyQuoted reports whether v is a single- or double-quoted scalar
// closed on the same line, optionally followed by a comment.
func fullyQuoted(v string) bool {
	if len(v) < 2 {
		return false
	}
	switch v[0] {
	case '"':
		for i := 1; i < len(v); i++ {
			switch v[i] {
			case '\\':
				i++
			case '"':
				return onlyComment(v[i+1:])
			}
		}
	case '\'':
		for i := 1; i < len(v); i++ {
			if v[i] != '\'' {
				continue
			}
			if i+1 < len(v) && v[i+1] == '\'' {
				i++
				continue
			}
			return onlyComment(v[i+1:])
		}
	}
	return false
}

func onlyComment(rest string) bool {
	t := strings.TrimLeft(rest, " \t")
	return t == "" || (t[0] == '#' && len(t) < len(rest))
}

func quoteDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
