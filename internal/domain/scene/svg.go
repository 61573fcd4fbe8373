package scene

import (
	"bytes"
	"strconv"
	"strings"
)

func attrStr(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(escapeXML(value))
	b.WriteByte('"')
}

func attrNum(b *bytes.Buffer, name string, v float64) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(formatNum(v))
	b.WriteByte('"')
}

// attrOpacity writes partial opacity only.
func attrOpacity(b *bytes.Buffer, o float64) {
	if o > 0 && o < 1 {
		attrNum(b, "opacity", o)
	}
}

// formatNum renders v with at most two decimals and no trailing zeros.
func formatNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
