package gen

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Funcs are the predefined template functions used by the render engine.
	Funcs = template.FuncMap{
		"add":        add,
		"camel":      camel,
		"dict":       dict,
		"fail":       fail,
		"get":        get,
		"hasKey":     hasKey,
		"indexOf":    indexOf,
		"javaClass":  javaClass,
		"javaField":  javaField,
		"join":       strings.Join,
		"json":       jsonString,
		"joinWords":  joinWords,
		"kebab":      kebab,
		"keys":       keys,
		"list":       list[any],
		"lower":      strings.ToLower,
		"lowerFirst": lowerFirst,
		"pascal":     pascal,
		"plural":     plural,
		"quote":      quote,
		"set":        set,
		"singular":   singular,
		"snake":      snake,
		"title":      title,
		"toString":   toString,
		"trim":       strings.TrimSpace,
		"unset":      unset,
		"upper":      strings.ToUpper,
		"upperFirst": upperFirst,
		"xrange":     xrange,
	}
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	titler   = cases.Title(language.English, cases.NoLower)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms. Examples: ID, API, URL.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "DTO", "EOF", "GB",
		"GUID", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "JPA", "KB",
		"LHS", "MAC", "MB", "PHB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP",
		"SQL", "SSH", "SSO", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI",
		"URL", "UTF8", "UUID", "VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds an acronym to the global casing rules.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// words splits an identifier of any convention into its words.
func words(s string) []string {
	var (
		parts []string
		word  []rune
	)
	flush := func() {
		if len(word) > 0 {
			parts = append(parts, string(word))
			word = word[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case isSeparator(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(rs[i-1]):
			flush()
			word = append(word, r)
		case unicode.IsUpper(r) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) && len(word) > 1:
			// end of an acronym run, e.g. the P of "HTTPParser".
			flush()
			word = append(word, r)
		default:
			word = append(word, r)
		}
	}
	flush()
	return parts
}

// snake converts an identifier to snake_case. Examples: UserID becomes
// user_id, HTTPCode becomes http_code.
func snake(s string) string {
	parts := words(s)
	for i, w := range parts {
		parts[i] = strings.ToLower(w)
	}
	return strings.Join(parts, "_")
}

// kebab converts an identifier to kebab-case.
func kebab(s string) string {
	return strings.ReplaceAll(snake(s), "_", "-")
}

// pascal converts an identifier to PascalCase, keeping known acronyms
// upper. Examples: user_id becomes UserID, api_url becomes APIURL.
func pascal(s string) string {
	parts := words(s)
	for i, w := range parts {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			parts[i] = upper
			continue
		}
		if len(w) == 1 {
			parts[i] = upper
			continue
		}
		parts[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(parts, "")
}

// camel converts an identifier to camelCase with the same acronym rules
// as pascal, except a leading acronym is lowered entirely.
func camel(s string) string {
	parts := words(s)
	if len(parts) == 0 {
		return ""
	}
	first := strings.ToLower(parts[0])
	rest := pascal(strings.Join(parts[1:], "_"))
	return first + rest
}

// javaClass converts an identifier to a Java class name. Unlike pascal it
// never uppercases acronym runs, matching Java naming conventions
// (UserId, not UserID).
func javaClass(s string) string {
	parts := words(s)
	for i, w := range parts {
		parts[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(parts, "")
}

// javaField converts an identifier to a Java field name.
func javaField(s string) string {
	c := javaClass(s)
	if c == "" {
		return c
	}
	return strings.ToLower(c[:1]) + c[1:]
}

// plural returns the plural form of the given name. Names that are already
// plural or uncountable get a List suffix to keep the result distinct.
func plural(s string) string {
	p := rules.Pluralize(s)
	if p == s {
		p += "List"
	}
	return p
}

// singular returns the singular form of the given name.
func singular(s string) string {
	return rules.Singularize(s)
}

func title(s string) string { return titler.String(s) }

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func xrange(n int) (a []int) {
	for i := 0; i < n; i++ {
		a = append(a, i)
	}
	return a
}

func add(xs ...int) (n int) {
	for _, x := range xs {
		n += x
	}
	return n
}

// quote only strings.
func quote(v any) any {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return v
}

func indexOf(s []string, v string) int {
	for i := range s {
		if s[i] == v {
			return i
		}
	}
	return -1
}

// joinWords joins words with spaces, wrapping lines that exceed maxSize.
func joinWords(words []string, maxSize int) string {
	var (
		b    strings.Builder
		size int
	)
	for i, w := range words {
		if i > 0 {
			if size+len(w)+1 > maxSize {
				b.WriteString("\n")
				size = 0
			}
			b.WriteString(" ")
			size++
		}
		b.WriteString(w)
		size += len(w)
	}
	return b.String()
}

func dict(v ...any) map[string]any {
	lens := len(v)
	dict := make(map[string]any, lens/2)
	for i := 0; i < lens; i += 2 {
		key := toString(v[i])
		if i+1 < lens {
			dict[key] = v[i+1]
		} else {
			dict[key] = ""
		}
	}
	return dict
}

func get(d map[string]any, key string) any {
	if v, ok := d[key]; ok {
		return v
	}
	return ""
}

func set(d map[string]any, key string, value any) map[string]any {
	d[key] = value
	return d
}

func unset(d map[string]any, key string) map[string]any {
	delete(d, key)
	return d
}

func hasKey(d map[string]any, key string) bool {
	_, ok := d[key]
	return ok
}

func list[T any](v ...T) []T {
	return v
}

func fail(msg string) (string, error) {
	return "", errors.New(msg)
}

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func jsonString(v any) (string, error) {
	buf, err := json.Marshal(v)
	return string(buf), err
}

func keys(v reflect.Value) ([]string, error) {
	v = indirect(v)
	if v.Kind() != reflect.Map {
		return nil, fmt.Errorf("expect map for keys, got: %s", v.Kind())
	}
	keys := make([]string, v.Len())
	for i, k := range v.MapKeys() {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return keys, nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}
