package locale

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Param is the query parameter and cookie name that select a locale
// explicitly.
const Param = "lang"

// maxAcceptLanguageLength bounds the header handed to the parser.
const maxAcceptLanguageLength = 4096

// Matcher picks the best supported locale for a request.
type Matcher struct {
	supported []string
	matcher   language.Matcher
}

// NewMatcher builds a matcher over the supported tags, first one being the
// default. Unparsable tags are skipped; with none left Default is used.
func NewMatcher(supported ...string) *Matcher {
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, tag.String())
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.Make(Default)}
		names = []string{Default}
	}
	return &Matcher{supported: names, matcher: language.NewMatcher(tags)}
}

// Supported returns the supported locales, default first.
func (m *Matcher) Supported() []string {
	return append([]string(nil), m.supported...)
}

// Match returns the supported locale closest to the given preferences.
// Each preference may be a single tag or a full Accept-Language value.
func (m *Matcher) Match(preferences ...string) string {
	var tags []language.Tag
	for _, p := range preferences {
		if len(p) > maxAcceptLanguageLength {
			p = p[:maxAcceptLanguageLength]
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	_, index, _ := m.matcher.Match(tags...)
	return m.supported[index]
}

// Negotiate picks the locale for a request: the lang query parameter, then
// the lang cookie, then Accept-Language.
func (m *Matcher) Negotiate(r *http.Request) string {
	var prefs []string
	if v := strings.TrimSpace(r.URL.Query().Get(Param)); v != "" {
		prefs = append(prefs, v)
	}
	if c, err := r.Cookie(Param); err == nil && strings.TrimSpace(c.Value) != "" {
		prefs = append(prefs, strings.TrimSpace(c.Value))
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		prefs = append(prefs, v)
	}
	return m.Match(prefs...)
}

// Middleware negotiates the locale among the supported ones and stores it in
// the request context. A locale already present in the context is kept.
func Middleware(supported ...string) func(http.Handler) http.Handler {
	m := NewMatcher(supported...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()) != "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), m.Negotiate(r))))
		})
	}
}
