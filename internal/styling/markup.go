package styling

import (
	"regexp"
	"strings"
)

var (
	openTagRe = regexp.MustCompile(`<([a-zA-Z][\w.-]*)((?:\s+[^\s=<>/]+(?:=(?:"[^"]*"|'[^']*'|\{[^{}]*\}))?)*)\s*(/?)>`)
	attrRe    = regexp.MustCompile(`([^\s=<>/]+)(?:=("[^"]*"|'[^']*'|\{[^{}]*\}))?`)
)

// attribute is one tag attribute; raw keeps non-string values such as
// {expr} verbatim and bare marks attributes written without a value
type attribute struct {
	key   string
	value string
	raw   string
	quote byte
	bare  bool
}

// element is an opening tag that can be edited in place
type element struct {
	name        string
	attrs       []attribute
	selfClosing bool
	classKey    string
	changed     bool
}

func parseElement(m []string, classKey string) *element {
	el := &element{name: m[1], selfClosing: m[3] == "/", classKey: classKey}
	for _, a := range attrRe.FindAllStringSubmatch(m[2], -1) {
		attr := attribute{key: a[1]}
		switch v := a[2]; {
		case v == "":
			attr.bare = true
		case strings.HasPrefix(v, `"`), strings.HasPrefix(v, `'`):
			attr.value = v[1 : len(v)-1]
			attr.quote = v[0]
		default:
			attr.raw = v
		}
		if attr.key == "class" || attr.key == "className" {
			el.classKey = attr.key
		}
		el.attrs = append(el.attrs, attr)
	}
	return el
}

func (el *element) get(key string) (string, bool) {
	for _, a := range el.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

func (el *element) set(key, value string) {
	for i, a := range el.attrs {
		if a.key == key {
			if a.value == value && a.raw == "" && !a.bare {
				return
			}
			el.attrs[i] = attribute{key: key, value: value, quote: a.quote}
			el.changed = true
			return
		}
	}
	el.attrs = append(el.attrs, attribute{key: key, value: value})
	el.changed = true
}

func (el *element) classes() []string {
	v, _ := el.get(el.classKey)
	return strings.Fields(v)
}

func (el *element) hasClass(class string) bool {
	for _, c := range el.classes() {
		if c == class {
			return true
		}
	}
	return false
}

// addClass appends classes the element does not carry yet
func (el *element) addClass(classes ...string) {
	current := el.classes()
	seen := make(map[string]bool, len(current))
	for _, c := range current {
		seen[c] = true
	}
	added := false
	for _, c := range classes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		current = append(current, c)
		added = true
	}
	if added {
		el.set(el.classKey, strings.Join(current, " "))
	}
}

func (el *element) render() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(el.name)
	for _, a := range el.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.key)
		switch {
		case a.bare:
		case a.raw != "":
			sb.WriteByte('=')
			sb.WriteString(a.raw)
		default:
			sb.WriteByte('=')
			writeQuoted(&sb, a.value, a.quote)
		}
	}
	if el.selfClosing {
		sb.WriteString(" /")
	}
	sb.WriteByte('>')
	return sb.String()
}

// writeQuoted keeps the attribute's original quote and escapes any
// occurrence of it inside the value
func writeQuoted(sb *strings.Builder, value string, quote byte) {
	if quote != '\'' {
		quote = '"'
	}
	entity := "&quot;"
	if quote == '\'' {
		entity = "&#39;"
	}
	sb.WriteByte(quote)
	sb.WriteString(strings.ReplaceAll(value, string(quote), entity))
	sb.WriteByte(quote)
}

// rewrite calls edit for every opening tag and re-renders only the tags
// that edit changed, so untouched markup is preserved byte for byte
func rewrite(code string, edit func(el *element)) string {
	classKey := "class"
	if strings.Contains(code, "className=") {
		classKey = "className"
	}
	return openTagRe.ReplaceAllStringFunc(code, func(tag string) string {
		m := openTagRe.FindStringSubmatch(tag)
		el := parseElement(m, classKey)
		edit(el)
		if !el.changed {
			return tag
		}
		return el.render()
	})
}
