// Package uri implements the URI model (component A of the interrogator):
// parsing, normalization and RFC 3986 §5.2.2 resolution of URI-references,
// plus the distinction between a pointer fragment ("#/a/b") and a named
// anchor fragment ("#a") that the rest of the engine relies on.
package uri

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// Ref is a parsed URI-reference: it may be relative, or absolute with or
// without a fragment. Reference resolution (Resolve) always normalizes into
// an absolute, fragment-bearing Ref; Base strips the fragment back off.
type Ref struct {
	isURN bool

	scheme   string
	userinfo string
	host     string
	port     string
	path     string
	query    string
	hasQuery bool
	fragment string
	hasFrag  bool

	// URN-specific components, populated when isURN is true. nss retains
	// percent-encoding exactly as written; the grammar is not validated
	// beyond requiring a non-empty namespace id and NSS.
	nid string
	nss string
}

// Parse parses s as a URI-reference. It does not require s to be absolute.
func Parse(s string) (*Ref, error) {
	if strings.HasPrefix(strings.ToLower(s), "urn:") {
		return parseURN(s)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, wrapf(ErrInvalidURI, "%s: %w", s, err)
	}
	r := &Ref{
		scheme:   strings.ToLower(u.Scheme),
		path:     u.EscapedPath(),
		hasQuery: u.ForceQuery || u.RawQuery != "",
		query:    u.RawQuery,
		hasFrag:  u.Fragment != "" || strings.Contains(s, "#"),
		fragment: u.EscapedFragment(),
	}
	if u.User != nil {
		r.userinfo = u.User.String()
	}
	if u.Host != "" {
		host, port := splitHostPort(u.Host)
		normalized, err := normalizeHost(host)
		if err != nil {
			return nil, wrapf(ErrInvalidURI, "%s: %w", s, err)
		}
		r.host = normalized
		r.port = port
	}
	r.path = normalizePathSegments(r.path)
	return r, nil
}

// ParseAbsolute parses s and requires the result to be an absolute URI: a
// scheme, an authority or URN namespace, and no non-empty fragment.
func ParseAbsolute(s string) (*Ref, error) {
	r, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if !r.isAbsoluteForm() {
		return nil, wrapf(ErrNotAbsolute, "%s", s)
	}
	return r, nil
}

func (r *Ref) isAbsoluteForm() bool {
	if r.isURN {
		return r.nid != "" && !r.hasFrag
	}
	return r.scheme != "" && (r.host != "" || r.path != "") && !r.hasFrag
}

// IsURN reports whether this Ref uses the urn: scheme.
func (r *Ref) IsURN() bool { return r.isURN }

// Scheme returns the URI scheme, lower-cased.
func (r *Ref) Scheme() string {
	if r.isURN {
		return "urn"
	}
	return r.scheme
}

// Authority returns the URL authority component (userinfo@host:port), or
// empty for a URN or a relative reference with no authority.
func (r *Ref) Authority() string {
	if r.isURN || r.host == "" {
		return ""
	}
	var b strings.Builder
	if r.userinfo != "" {
		b.WriteString(r.userinfo)
		b.WriteByte('@')
	}
	b.WriteString(r.host)
	if r.port != "" {
		b.WriteByte(':')
		b.WriteString(r.port)
	}
	return b.String()
}

// Namespace returns the URN namespace identifier (NID), empty for non-URNs.
func (r *Ref) Namespace() string { return r.nid }

// Path returns the URL path component, or the URN NSS for a URN.
func (r *Ref) Path() string {
	if r.isURN {
		return r.nss
	}
	return r.path
}

// Query returns the raw query component and whether one was present.
func (r *Ref) Query() (string, bool) { return r.query, r.hasQuery }

// Fragment returns the raw fragment component and whether one was present.
func (r *Ref) Fragment() (string, bool) { return r.fragment, r.hasFrag }

// IsPointerFragment reports whether the fragment is a JSON Pointer
// (begins with '/' or is empty-but-present as "#/") as opposed to a named
// anchor. Per §3: a fragment starting with '/' is a pointer reference,
// otherwise a named anchor. A present-but-empty fragment ("#") denotes the
// document root and is treated as a (trivial, zero-token) pointer.
func (r *Ref) IsPointerFragment() bool {
	return r.hasFrag && (r.fragment == "" || strings.HasPrefix(r.fragment, "/"))
}

// Base returns a copy of r with the fragment removed. Base URIs never carry
// a non-empty fragment, per the §3 invariant.
func (r *Ref) Base() *Ref {
	cp := *r
	cp.fragment = ""
	cp.hasFrag = false
	return &cp
}

// WithFragment returns a copy of r with the fragment replaced by frag.
// Setting a fragment on a URN validates the urn fragment (f-component)
// grammar: it must not contain an unescaped '#'.
func (r *Ref) WithFragment(frag string) (*Ref, error) {
	if r.isURN && strings.ContainsRune(frag, '#') {
		return nil, wrapf(ErrInvalidURNFragment, "%s", frag)
	}
	cp := *r
	cp.fragment = frag
	cp.hasFrag = true
	return &cp, nil
}

// String renders r back to its canonical string form. Percent-encoding in
// the fragment is preserved verbatim (round-trip, per §4.1).
func (r *Ref) String() string {
	var b strings.Builder
	if r.isURN {
		b.WriteString("urn:")
		b.WriteString(r.nid)
		b.WriteByte(':')
		b.WriteString(r.nss)
	} else {
		if r.scheme != "" {
			b.WriteString(r.scheme)
			b.WriteByte(':')
		}
		if r.host != "" || r.userinfo != "" || (r.scheme != "" && strings.HasPrefix(r.path, "//")) {
			b.WriteString("//")
			b.WriteString(r.Authority())
		}
		b.WriteString(r.path)
		if r.hasQuery {
			b.WriteByte('?')
			b.WriteString(r.query)
		}
	}
	if r.hasFrag {
		b.WriteByte('#')
		b.WriteString(r.fragment)
	}
	return b.String()
}

// Equal compares two Refs by their canonical string form, treating
// http/https scheme differences, a trailing slash, and an empty-vs-missing
// fragment as equivalent — the relaxed comparison §4.4 uses for dialect
// detection.
func Equal(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	na, nb := *a, *b
	na.scheme, nb.scheme = schemeClass(na.scheme), schemeClass(nb.scheme)
	na.path = strings.TrimSuffix(na.path, "/")
	nb.path = strings.TrimSuffix(nb.path, "/")
	if na.fragment == "" {
		na.hasFrag = false
	}
	if nb.fragment == "" {
		nb.hasFrag = false
	}
	return na.String() == nb.String()
}

func schemeClass(s string) string {
	if s == "https" {
		return "http"
	}
	return s
}

// Resolve resolves reference ref against base following RFC 3986 §5.2.2.
func Resolve(base *Ref, ref string) (*Ref, error) {
	r, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	return ResolveRef(base, r)
}

// ResolveRef resolves an already-parsed reference against base.
func ResolveRef(base *Ref, r *Ref) (*Ref, error) {
	if base == nil {
		if !r.isAbsoluteFormAllowingFragment() {
			return nil, wrapf(ErrNotAbsolute, "%s", r.String())
		}
		return r, nil
	}
	if base.isURN != r.isURN {
		// A reference cannot cross the URL/URN boundary without its own
		// scheme; treat r as already-absolute in that case.
		if r.scheme != "" || r.isURN {
			return r, nil
		}
		return nil, wrapf(ErrSchemeChange, "cannot resolve %q against %q", r.String(), base.String())
	}
	if r.isURN {
		return resolveURN(base, r)
	}

	t := &Ref{}
	if r.scheme != "" {
		t.scheme = r.scheme
		t.userinfo, t.host, t.port = r.userinfo, r.host, r.port
		t.path = normalizePathSegments(r.path)
		t.query, t.hasQuery = r.query, r.hasQuery
	} else {
		if r.host != "" {
			t.userinfo, t.host, t.port = r.userinfo, r.host, r.port
			t.path = normalizePathSegments(r.path)
			t.query, t.hasQuery = r.query, r.hasQuery
		} else {
			if r.path == "" {
				t.path = base.path
				if r.hasQuery {
					t.query, t.hasQuery = r.query, true
				} else {
					t.query, t.hasQuery = base.query, base.hasQuery
				}
			} else if strings.HasPrefix(r.path, "/") {
				t.path = normalizePathSegments(r.path)
				t.query, t.hasQuery = r.query, r.hasQuery
			} else {
				t.path = normalizePathSegments(mergePath(base, r.path))
				t.query, t.hasQuery = r.query, r.hasQuery
			}
			t.userinfo, t.host, t.port = base.userinfo, base.host, base.port
		}
		t.scheme = base.scheme
	}
	t.fragment, t.hasFrag = r.fragment, r.hasFrag
	return t, nil
}

func (r *Ref) isAbsoluteFormAllowingFragment() bool {
	if r.isURN {
		return r.nid != ""
	}
	return r.scheme != ""
}

// mergePath implements RFC 3986 §5.3 merge: if base has authority and an
// empty path, the merged path is "/" + ref-path; otherwise it is
// everything in base's path up to (and including) the last '/' + ref-path.
func mergePath(base *Ref, refPath string) string {
	if base.host != "" && base.path == "" {
		return "/" + refPath
	}
	idx := strings.LastIndex(base.path, "/")
	if idx < 0 {
		return refPath
	}
	return base.path[:idx+1] + refPath
}

func resolveURN(base, r *Ref) (*Ref, error) {
	if r.nid != "" {
		t := *r
		return &t, nil
	}
	t := &Ref{isURN: true, nid: base.nid, nss: base.nss, fragment: r.fragment, hasFrag: r.hasFrag}
	return t, nil
}

// normalizePathSegments removes "." and ".." dot-segments per RFC 3986
// §5.2.4, preserving a leading/trailing slash as appropriate.
func normalizePathSegments(p string) string {
	if p == "" {
		return p
	}
	leadingSlash := strings.HasPrefix(p, "/")
	trailingSlash := strings.HasSuffix(p, "/") && p != "/"
	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	joined := strings.Join(out, "/")
	if leadingSlash {
		joined = "/" + joined
	}
	if trailingSlash && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	if joined == "" && leadingSlash {
		joined = "/"
	}
	return joined
}

func splitHostPort(hostport string) (host, port string) {
	if idx := strings.LastIndex(hostport, ":"); idx >= 0 && !strings.Contains(hostport[idx+1:], "]") {
		// IPv6 literals are bracketed; a bare ':' after ']' is a port.
		if strings.HasPrefix(hostport, "[") {
			if end := strings.Index(hostport, "]"); end >= 0 && idx > end {
				return hostport[:idx], hostport[idx+1:]
			}
			return hostport, ""
		}
		return hostport[:idx], hostport[idx+1:]
	}
	return hostport, ""
}

// normalizeHost lower-cases and, for non-IP, non-bracketed hosts, applies
// IDNA ToASCII so that internationalized hostnames compare and resolve
// consistently (§4.1 normalization).
func normalizeHost(host string) (string, error) {
	if host == "" || strings.HasPrefix(host, "[") {
		return host, nil
	}
	lower := strings.ToLower(host)
	ascii, err := idna.Lookup.ToASCII(lower)
	if err != nil {
		// Not every host (e.g. one already containing a wildcard or used in
		// test fixtures) round-trips through strict IDNA; fall back to the
		// lower-cased form rather than rejecting it outright.
		return lower, nil
	}
	return ascii, nil
}

func parseURN(s string) (*Ref, error) {
	rest := s[len("urn:"):]
	hash := strings.IndexByte(rest, '#')
	frag := ""
	hasFrag := false
	if hash >= 0 {
		hasFrag = true
		frag = rest[hash+1:]
		rest = rest[:hash]
	}
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return nil, wrapf(ErrInvalidURN, "%s", s)
	}
	nid := rest[:colon]
	nss := rest[colon+1:]
	if nss == "" {
		return nil, wrapf(ErrInvalidURN, "%s", s)
	}
	return &Ref{isURN: true, nid: strings.ToLower(nid), nss: nss, fragment: frag, hasFrag: hasFrag}, nil
}

// SortURIs sorts a slice of Refs by their canonical string form, giving
// deterministic ordering for URI-list enumeration (§3 compiled schema).
func SortURIs(refs []*Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].String() < refs[j].String() })
}
