package render

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

func tabLabel(tab string) string {
	r, size := utf8.DecodeRuneInString(tab)
	if r == utf8.RuneError {
		return tab
	}
	return string(unicode.ToUpper(r)) + tab[size:]
}

func cardID(prefix, id string) string {
	return prefix + "-" + strings.ReplaceAll(id, " ", "-")
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
