package validate

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/net/idna"

	goschema "github.com/reoring/goschema"
)

var (
	emailUserRe = regexp.MustCompile(`(?i)(^[-!#$%&'*+/=?^` + "`" + `{}|~\w]+(\.[-!#$%&'*+/=?^` + "`" + `{}|~\w]+)*\z` +
		`|^"([\x01-\x08\x0b\x0c\x0e-\x1f!#-\[\]-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*"\z)`)
	emailDomainRe = regexp.MustCompile(`(?i)^(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}|[A-Z0-9-]{2,})\z` +
		`|^\[(25[0-5]|2[0-4]\d|[0-1]?\d?\d)(\.(25[0-5]|2[0-4]\d|[0-1]?\d?\d)){3}\]\z)`)
)

var emailDomainAllow = map[string]struct{}{"localhost": {}}

// EmailValidator checks an address of the form user@domain. Internationalized
// domains are retried in their punycode form.
type EmailValidator struct{}

// Email returns the e-mail address validator.
func Email() EmailValidator { return EmailValidator{} }

func (EmailValidator) Validate(value any, field string) (any, error) {
	s, ok := value.(string)
	if !ok || s == "" || !strings.Contains(s, "@") {
		return nil, goschema.NewValidation("email", map[string]any{"input": value})
	}
	at := strings.LastIndexByte(s, '@')
	user, domain := s[:at], s[at+1:]
	if !emailUserRe.MatchString(user) {
		return nil, goschema.NewValidation("email", map[string]any{"input": s})
	}
	if _, ok := emailDomainAllow[domain]; ok {
		return value, nil
	}
	if emailDomainRe.MatchString(domain) {
		return value, nil
	}
	if ascii, err := idna.ToASCII(domain); err == nil && emailDomainRe.MatchString(ascii) {
		return value, nil
	}
	return nil, goschema.NewValidation("email", map[string]any{"input": s})
}

// URLValidator checks absolute (or, optionally, relative) URLs.
type URLValidator struct {
	Relative   bool
	RequireTLD bool
	// Schemes lists accepted schemes; empty means http, https, ftp and ftps.
	Schemes []string
}

// URL returns a validator for absolute URLs with a top-level domain.
func URL() URLValidator { return URLValidator{RequireTLD: true} }

var defaultSchemes = []string{"http", "https", "ftp", "ftps"}

var (
	urlReMu    sync.Mutex
	urlReCache = map[[2]bool]*regexp.Regexp{}
)

func urlRegexp(relative, requireTLD bool) *regexp.Regexp {
	key := [2]bool{relative, requireTLD}
	urlReMu.Lock()
	defer urlReMu.Unlock()
	if re, ok := urlReCache[key]; ok {
		return re
	}
	var b strings.Builder
	b.WriteString(`(?i)^`)
	if relative {
		b.WriteString(`(`)
	}
	b.WriteString(`(?:[a-z0-9\.\-\+]*)://`)
	b.WriteString(`(?:[^:@]+?(:[^:@]*?)?@|)`)
	b.WriteString(`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+`)
	b.WriteString(`(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|`)
	b.WriteString(`localhost|`)
	if !requireTLD {
		b.WriteString(`(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.?)|`)
	}
	b.WriteString(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|`)
	b.WriteString(`\[[A-F0-9]*:[A-F0-9:]+\])`)
	b.WriteString(`(?::\d+)?`)
	if relative {
		b.WriteString(`)?`)
	}
	b.WriteString(`(?:/?|[/?]\S+)\z`)
	re := regexp.MustCompile(b.String())
	urlReCache[key] = re
	return re
}

func (u URLValidator) Validate(value any, field string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, goschema.NewValidation("url", map[string]any{"input": value})
	}
	schemes := u.Schemes
	if len(schemes) == 0 {
		schemes = defaultSchemes
	}
	if scheme, _, found := strings.Cut(s, "://"); found {
		if !containsFold(schemes, scheme) {
			return nil, goschema.NewValidation("url", map[string]any{"input": s})
		}
	}
	if !urlRegexp(u.Relative, u.RequireTLD).MatchString(s) {
		return nil, goschema.NewValidation("url", map[string]any{"input": s})
	}
	return value, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// PasswordValidator enforces a minimal password policy. All problems are
// reported together in one failure.
type PasswordValidator struct {
	MinLength        int
	RequireNumber    bool
	RequireUppercase bool
	RequireSpecial   bool
}

// Password returns the default policy: at least 8 characters, not all digits,
// at least one digit.
func Password() PasswordValidator { return PasswordValidator{MinLength: 8, RequireNumber: true} }

const passwordSpecials = `.@_!#$%^&*()<>?/\|}{~:`

func (p PasswordValidator) Validate(value any, field string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": "string"})
	}
	var problems []string
	if len([]rune(s)) < p.MinLength {
		problems = append(problems, "too short")
	}
	if s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "entirely numeric")
	}
	if p.RequireNumber && strings.IndexFunc(s, unicode.IsDigit) < 0 {
		problems = append(problems, "must contain number")
	}
	// only the first character counts, matching an anchored [A-Z]
	if p.RequireUppercase && (s == "" || s[0] < 'A' || s[0] > 'Z') {
		problems = append(problems, "must contain uppercase characters")
	}
	if p.RequireSpecial && !strings.ContainsAny(s, passwordSpecials) {
		problems = append(problems, "must contain special characters")
	}
	if len(problems) > 0 {
		return nil, goschema.NewValidation("password", map[string]any{"problems": strings.Join(problems, "; ")})
	}
	return value, nil
}
