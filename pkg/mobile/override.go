package mobile

import (
	"net/http"
	"strings"
)

// Override lets a visitor opt out of, or into, the mobile view.
type Override string

const (
	NoOverride   Override = ""
	IgnoreMobile Override = "ignore_mobile"
	ForceMobile  Override = "force_mobile"
)

// DefaultOverrideCookie is the cookie that remembers a visitor's choice.
const DefaultOverrideCookie = "view_override"

// ParseOverride maps user input to an Override. Besides the canonical
// values it accepts "desktop" and "mobile"; anything else is NoOverride.
func ParseOverride(s string) Override {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(IgnoreMobile), "desktop", "full":
		return IgnoreMobile
	case string(ForceMobile), FormatMobile:
		return ForceMobile
	default:
		return NoOverride
	}
}

// OverrideSource reads the override of a request.
type OverrideSource func(r *http.Request) Override

// CookieOverride reads the override from the named cookie.
func CookieOverride(name string) OverrideSource {
	if name == "" {
		name = DefaultOverrideCookie
	}
	return func(r *http.Request) Override {
		c, err := r.Cookie(name)
		if err != nil {
			return NoOverride
		}
		return ParseOverride(c.Value)
	}
}

// QueryOverride reads the override from a query parameter.
func QueryOverride(param string) OverrideSource {
	return func(r *http.Request) Override {
		return ParseOverride(r.URL.Query().Get(param))
	}
}

// FirstOverride returns the first override set by any of the sources.
func FirstOverride(sources ...OverrideSource) OverrideSource {
	return func(r *http.Request) Override {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if ov := src(r); ov != NoOverride {
				return ov
			}
		}
		return NoOverride
	}
}

// SetOverrideCookie remembers ov in the named cookie. NoOverride removes it.
func SetOverrideCookie(w http.ResponseWriter, name string, ov Override) {
	if name == "" {
		name = DefaultOverrideCookie
	}
	c := &http.Cookie{
		Name:     name,
		Value:    string(ov),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ov == NoOverride {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}
