package engine

import "strings"

// preprocessSource rewrites board description source into the dialect
// zygomys reads. Outside string literals:
//
//   - :keyword becomes the string "__kw_keyword", so keywords never collide
//     with user variables and need no registration;
//   - a hyphen between identifier characters becomes an underscore
//     (gr-line -> gr_line), since zygomys reads a bare hyphen as minus;
//   - ; and ;; line comments become //.
//
// := and numeric minus signs are left alone.
func preprocessSource(source string) string {
	r := rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == '"':
			r.quoted('"', true)
		case c == '`':
			r.quoted('`', false)
		case c == ';':
			r.comment()
		case c == ':' && r.keyword():
		case c == '-' && r.kebab():
			r.out.WriteByte('_')
			r.pos++
		default:
			r.out.WriteByte(c)
			r.pos++
		}
	}
	return r.out.String()
}

type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// quoted copies a literal delimited by q, including both delimiters.
func (r *rewriter) quoted(q byte, escapes bool) {
	start := r.pos
	r.pos++
	for r.pos < len(r.src) && r.src[r.pos] != q {
		if escapes && r.src[r.pos] == '\\' && r.pos+1 < len(r.src) {
			r.pos++
		}
		r.pos++
	}
	if r.pos < len(r.src) {
		r.pos++
	}
	r.out.WriteString(r.src[start:r.pos])
}

// comment rewrites a run of semicolons as // and copies the rest of the line.
func (r *rewriter) comment() {
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	end := strings.IndexByte(r.src[r.pos:], '\n')
	if end < 0 {
		end = len(r.src) - r.pos
	}
	r.out.WriteString("//")
	r.out.WriteString(r.src[r.pos : r.pos+end])
	r.pos += end
}

// keyword writes :name as a keyword string and reports whether the colon
// started one.
func (r *rewriter) keyword() bool {
	if r.pos+1 >= len(r.src) || !isLetter(r.src[r.pos+1]) {
		return false
	}
	end := r.pos + 1
	for end < len(r.src) && isKWChar(r.src[end]) {
		end++
	}
	r.out.WriteByte('"')
	r.out.WriteString(kwPrefix)
	r.out.WriteString(r.src[r.pos+1 : end])
	r.out.WriteByte('"')
	r.pos = end
	return true
}

// kebab reports whether the hyphen at pos joins two identifier parts.
func (r *rewriter) kebab() bool {
	return r.pos > 0 && r.pos+1 < len(r.src) &&
		isIdentChar(r.src[r.pos-1]) && isLetter(r.src[r.pos+1])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
