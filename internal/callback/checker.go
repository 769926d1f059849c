package callback

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/garrettladley/payconiq/internal/validator"
)

// Protected header names used by Payconiq callback signatures.
const (
	HeaderAlgorithm = "alg"
	HeaderKeyID     = "kid"
	HeaderIssuer    = "https://payconiq.com/iss"
	HeaderIssuedAt  = "https://payconiq.com/iat"
	HeaderJTI       = "https://payconiq.com/jti"
	HeaderPath      = "https://payconiq.com/path"
	HeaderSubject   = "https://payconiq.com/sub"
)

const (
	AlgorithmES256 = "ES256"
	IssuerPayconiq = "Payconiq"
)

// HeaderChecker validates a single protected header value.
type HeaderChecker interface {
	CheckHeader(value any) error
	SupportedHeader() string
	// ProtectedHeaderOnly reports whether the header may only appear in the
	// protected header. Payconiq tokens carry a single protected header, so
	// every checker here returns false.
	ProtectedHeaderOnly() bool
}

// DefaultCheckers returns the checkers applied to every callback, in the order
// they run.
func DefaultCheckers(profileID string, now func() time.Time) []HeaderChecker {
	return []HeaderChecker{
		AlgorithmChecker{Allowed: []string{AlgorithmES256}},
		SubjectChecker{ProfileID: profileID},
		IssuerChecker{},
		IssuedAtChecker{Now: now},
		JTIChecker{},
		PathChecker{},
	}
}

// CheckHeaders runs checkers in order against header and returns the first failure.
func CheckHeaders(header map[string]any, checkers []HeaderChecker) error {
	for _, c := range checkers {
		if err := c.CheckHeader(header[c.SupportedHeader()]); err != nil {
			return err
		}
	}
	return nil
}

type AlgorithmChecker struct {
	Allowed []string
}

var _ HeaderChecker = AlgorithmChecker{}

func (c AlgorithmChecker) CheckHeader(value any) error {
	alg, ok := value.(string)
	if !ok || !slices.Contains(c.Allowed, alg) {
		return newHeaderError(HeaderAlgorithm, value, `"%s" must be one of [%s]`, HeaderAlgorithm, strings.Join(c.Allowed, ", "))
	}
	return nil
}

func (AlgorithmChecker) SupportedHeader() string   { return HeaderAlgorithm }
func (AlgorithmChecker) ProtectedHeaderOnly() bool { return false }

type SubjectChecker struct {
	ProfileID string
}

var _ HeaderChecker = SubjectChecker{}

func (c SubjectChecker) CheckHeader(value any) error {
	sub, ok := value.(string)
	if !ok {
		return newHeaderError(HeaderSubject, value, `"%s" must be a string.`, HeaderSubject)
	}
	if sub != c.ProfileID {
		return newHeaderError(HeaderSubject, value, `"%s" should match the payment profile ID`, HeaderSubject)
	}
	return nil
}

func (SubjectChecker) SupportedHeader() string   { return HeaderSubject }
func (SubjectChecker) ProtectedHeaderOnly() bool { return false }

type IssuerChecker struct{}

var _ HeaderChecker = IssuerChecker{}

func (IssuerChecker) CheckHeader(value any) error {
	iss, ok := value.(string)
	if !ok {
		return newHeaderError(HeaderIssuer, value, `"%s" must be a string.`, HeaderIssuer)
	}
	if iss != IssuerPayconiq {
		return newHeaderError(HeaderIssuer, value, `"%s" should be "%s"`, HeaderIssuer, IssuerPayconiq)
	}
	return nil
}

func (IssuerChecker) SupportedHeader() string   { return HeaderIssuer }
func (IssuerChecker) ProtectedHeaderOnly() bool { return false }

// IssuedAtLayout is the microsecond-precision layout Payconiq uses for iat.
const IssuedAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// nanoFraction matches a 9-digit fraction followed by the zone designator.
var nanoFraction = regexp.MustCompile(`\.(\d{6})\d{3}(Z|[+-]\d{2}:?\d{2})$`)

// issuedAtLayouts are tried in order. The last one takes zones without a
// colon, e.g. +0200.
var issuedAtLayouts = []string{
	IssuedAtLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
}

type IssuedAtChecker struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

var _ HeaderChecker = IssuedAtChecker{}

func (c IssuedAtChecker) CheckHeader(value any) error {
	raw, ok := value.(string)
	if !ok {
		return newHeaderError(HeaderIssuedAt, value, `"%s" has an invalid date format`, HeaderIssuedAt)
	}

	iat, err := ParseIssuedAt(raw)
	if err != nil {
		return newHeaderError(HeaderIssuedAt, value, `"%s" has an invalid date format`, HeaderIssuedAt)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if iat.Truncate(time.Second).After(now().UTC().Truncate(time.Second)) {
		return newHeaderError(HeaderIssuedAt, value, "The JWT is issued in the future.")
	}
	return nil
}

func (IssuedAtChecker) SupportedHeader() string   { return HeaderIssuedAt }
func (IssuedAtChecker) ProtectedHeaderOnly() bool { return false }

// ParseIssuedAt parses a Payconiq iat value. Nanosecond fractions are cut to
// microseconds; the zone may be Z, +hh:mm or +hhmm.
func ParseIssuedAt(raw string) (time.Time, error) {
	raw = nanoFraction.ReplaceAllString(raw, ".$1$2")
	var err error
	for _, layout := range issuedAtLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

type JTIChecker struct{}

var _ HeaderChecker = JTIChecker{}

func (JTIChecker) CheckHeader(value any) error {
	if jti, ok := value.(string); !ok || jti == "" {
		return newHeaderError(HeaderJTI, value, `"%s" must be a string.`, HeaderJTI)
	}
	return nil
}

func (JTIChecker) SupportedHeader() string   { return HeaderJTI }
func (JTIChecker) ProtectedHeaderOnly() bool { return false }

type PathChecker struct{}

var _ HeaderChecker = PathChecker{}

func (PathChecker) CheckHeader(value any) error {
	path, ok := value.(string)
	if !ok || validator.Var(path, "required,url") != nil {
		return newHeaderError(HeaderPath, value, `"%s" must be a valid url.`, HeaderPath)
	}
	return nil
}

func (PathChecker) SupportedHeader() string   { return HeaderPath }
func (PathChecker) ProtectedHeaderOnly() bool { return false }
