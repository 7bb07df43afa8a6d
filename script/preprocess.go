package script

import "strings"

// pauseTag is what shorthand pause markers expand to.
const pauseTag = `<pause value="0.5"></pause>`

// Preprocess rewrites script shorthand into well-formed markup:
//
//   - bare <pause>/<sound> tags gain an explicit empty closing tag so the
//     parser does not swallow following siblings as children
//   - "..." becomes a period followed by a half-second pause
//   - the literal "(pause)" token becomes a half-second pause
//   - the standard entities &quot; &amp; &lt; &gt; are unescaped
func Preprocess(script string) string {
	s := closeBareTag(script, "pause")
	s = closeBareTag(s, "sound")

	s = strings.ReplaceAll(s, "...", "."+pauseTag)
	s = strings.ReplaceAll(s, "(pause)", pauseTag)

	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return s
}

// closeBareTag ensures every bodyless <tag ...> open tag is followed by an
// explicit </tag>. Tags already followed by their closing tag (possibly after
// whitespace) are left alone, as are tags with real content. Self-closing
// <tag/> forms are normalized to <tag></tag> because lenient HTML parsers
// ignore the slash on unknown elements.
func closeBareTag(s, tag string) string {
	open := "<" + tag
	closing := "</" + tag + ">"

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		if !strings.HasPrefix(s[i:], open) || !isTagBoundary(s, i+len(open)) {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		openTag := s[i : i+end+1]
		i += end + 1

		if strings.HasSuffix(openTag, "/>") {
			// Normalize the self-closing form.
			b.WriteString(strings.TrimSuffix(openTag, "/>") + ">" + closing)
			continue
		}
		b.WriteString(openTag)

		// Look ahead over whitespace: an immediate closing tag or end of
		// input means the tag is bodyless.
		j := i
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		switch {
		case j >= len(s):
			b.WriteString(closing)
			i = j
		case strings.HasPrefix(s[j:], closing):
			b.WriteString(s[i : j+len(closing)])
			i = j + len(closing)
		default:
			// Has content; leave it nested.
		}
	}
	return b.String()
}

// isTagBoundary reports whether position i in s ends a tag name (so "<pause"
// does not match "<pauses").
func isTagBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	c := s[i]
	return isSpace(c) || c == '>' || c == '/'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
