// Package format implements the "format" assertion vocabulary's string
// checkers (§name-format). Checks are grounded on the teacher's formats.go,
// generalized into a registry a caller can extend with custom formats via
// Interrogator.WithFormat. Every built-in dialect uses the same Default
// set; drafts are not given separate format lists.
package format

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// Checker reports whether v (always a string; non-strings are considered
// vacuously valid, per §name-format's "applies only to strings" rule)
// conforms to a format.
type Checker func(v string) bool

// Registry is a name -> Checker lookup, safe to share read-only across
// compiled dialects; With produces an extended copy rather than
// mutating a shared map.
type Registry map[string]Checker

// With returns a copy of r with name bound to chk, leaving r untouched.
func (r Registry) With(name string, chk Checker) Registry {
	out := make(Registry, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[name] = chk
	return out
}

// Default is the checker set every built-in dialect starts from.
var Default = Registry{
	"date-time":             IsDateTime,
	"date":                  IsDate,
	"time":                  IsTime,
	"duration":              IsDuration,
	"email":                 IsEmail,
	"idn-email":             IsEmail,
	"hostname":              IsHostname,
	"idn-hostname":          IsIDNHostname,
	"ipv4":                  IsIPv4,
	"ipv6":                  IsIPv6,
	"uri":                   IsURI,
	"uri-reference":         IsURIReference,
	"iri":                   IsURI,
	"iri-reference":         IsURIReference,
	"uri-template":          IsURITemplate,
	"json-pointer":          IsJSONPointer,
	"relative-json-pointer": IsRelativeJSONPointer,
	"uuid":                  IsUUID,
	"regex":                 IsRegex,
}

func IsDateTime(s string) bool {
	if len(s) < 20 {
		return false
	}
	if s[10] != 'T' && s[10] != 't' {
		return false
	}
	return IsDate(s[:10]) && IsTime(s[11:])
}

func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func IsTime(s string) bool {
	if len(s) < 9 || s[2] != ':' || s[5] != ':' {
		return false
	}
	inRange := func(tok string, lo, hi int) (int, bool) {
		n, err := strconv.Atoi(tok)
		if err != nil || n < lo || n > hi {
			return 0, false
		}
		return n, true
	}
	h, ok := inRange(s[0:2], 0, 23)
	if !ok {
		return false
	}
	m, ok := inRange(s[3:5], 0, 59)
	if !ok {
		return false
	}
	sec, ok := inRange(s[6:8], 0, 60)
	if !ok {
		return false
	}
	rest := s[8:]
	if rest != "" && rest[0] == '.' {
		rest = rest[1:]
		n := 0
		for rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			n++
			rest = rest[1:]
		}
		if n == 0 {
			return false
		}
	}
	if rest == "" {
		return false
	}
	if rest[0] == 'z' || rest[0] == 'Z' {
		if len(rest) != 1 {
			return false
		}
	} else {
		if len(rest) != 6 || rest[3] != ':' {
			return false
		}
		zh, ok := inRange(rest[1:3], 0, 23)
		if !ok {
			return false
		}
		zm, ok := inRange(rest[4:6], 0, 59)
		if !ok {
			return false
		}
		_ = zh + zm
	}
	if sec == 60 && (h != 23 || m != 59) {
		return false
	}
	return true
}

func IsDuration(s string) bool {
	if s == "" || s[0] != 'P' {
		return false
	}
	s = s[1:]
	parseUnits := func() (string, bool) {
		var units strings.Builder
		for len(s) > 0 && s[0] != 'T' {
			digits := false
			for len(s) != 0 && s[0] >= '0' && s[0] <= '9' {
				digits = true
				s = s[1:]
			}
			if !digits || len(s) == 0 {
				return units.String(), false
			}
			units.WriteByte(s[0])
			s = s[1:]
		}
		return units.String(), true
	}
	units, ok := parseUnits()
	if !ok {
		return false
	}
	if units == "W" {
		return len(s) == 0
	}
	if len(units) > 0 {
		if !strings.Contains("YMD", units) {
			return false
		}
		if len(s) == 0 {
			return true
		}
	}
	if len(s) == 0 || s[0] != 'T' {
		return false
	}
	s = s[1:]
	units, ok = parseUnits()
	return ok && len(s) == 0 && len(units) > 0 && strings.Contains("HMS", units)
}

func IsHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		n := len(label)
		if n < 1 || n > 63 {
			return false
		}
		if label[0] == '-' || label[n-1] == '-' {
			return false
		}
		for _, c := range label {
			if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '-' {
				return false
			}
		}
	}
	return true
}

// IsIDNHostname validates an internationalized hostname (§name-idn-hostname
// of the 2019-09 validation vocabulary) by round-tripping it through IDNA
// ToASCII, a check the teacher's ASCII-only IsHostname can't perform on its
// own — the idna package fills a gap, not a replacement.
func IsIDNHostname(s string) bool {
	if s == "" {
		return false
	}
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return false
	}
	return IsHostname(ascii)
}

func IsEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 64 {
		return false
	}
	if len(domain) >= 2 && domain[0] == '[' && domain[len(domain)-1] == ']' {
		ip := domain[1 : len(domain)-1]
		if strings.HasPrefix(ip, "IPv6:") {
			return IsIPv6(strings.TrimPrefix(ip, "IPv6:"))
		}
		return IsIPv4(ip)
	}
	if !IsHostname(domain) && !IsIDNHostname(domain) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func IsIPv4(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		if n != 0 && g[0] == '0' {
			return false
		}
	}
	return true
}

func IsIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

func parseURI(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	host := u.Hostname()
	if strings.Contains(host, ":") {
		if !strings.Contains(u.Host, "[") || !strings.Contains(u.Host, "]") {
			return nil, false
		}
		if !IsIPv6(host) {
			return nil, false
		}
	}
	return u, true
}

func IsURI(s string) bool {
	u, ok := parseURI(s)
	return ok && u.IsAbs()
}

func IsURIReference(s string) bool {
	_, ok := parseURI(s)
	return ok && !strings.Contains(s, `\`)
}

func IsURITemplate(s string) bool {
	u, ok := parseURI(s)
	if !ok {
		return false
	}
	for _, item := range strings.Split(u.RawPath, "/") {
		depth := 0
		for _, ch := range item {
			switch ch {
			case '{':
				depth++
				if depth != 1 {
					return false
				}
			case '}':
				depth--
				if depth != 0 {
					return false
				}
			}
		}
		if depth != 0 {
			return false
		}
	}
	return true
}

func IsJSONPointer(s string) bool {
	if s != "" && !strings.HasPrefix(s, "/") {
		return false
	}
	for _, item := range strings.Split(s, "/") {
		for i := 0; i < len(item); i++ {
			if item[i] != '~' {
				continue
			}
			if i == len(item)-1 {
				return false
			}
			if item[i+1] != '0' && item[i+1] != '1' {
				return false
			}
		}
	}
	return true
}

func IsRelativeJSONPointer(s string) bool {
	if s == "" {
		return false
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case s[0] >= '0' && s[0] <= '9':
		for s != "" && s[0] >= '0' && s[0] <= '9' {
			s = s[1:]
		}
	default:
		return false
	}
	return s == "#" || IsJSONPointer(s)
}

var uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func IsUUID(s string) bool { return uuidRe.MatchString(s) }

func IsRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}
