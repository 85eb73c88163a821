package parser

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses ограничивает число раскрытий вложенного экранирования (&amp;lt; и т.п.).
const maxSanitizePasses = 4

// cleanText удаляет HTML-разметку из текста удаленного сервиса.
// Разметка, закодированная сущностями (&lt;script&gt;), после раскрытия тоже удаляется:
// очистка повторяется, пока текст не перестанет меняться.
func cleanText(s string) string {
	for range maxSanitizePasses {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// не сошлось - оставляем текст экранированным
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// cleanURL оставляет только абсолютные http(s) ссылки.
func cleanURL(s string) string {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}
