// Package qrcode builds links to the Payconiq QR code portal, which renders
// the image server-side.
package qrcode

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/garrettladley/payconiq/internal/validator"
)

type Format string

const (
	FormatPNG Format = "PNG"
	FormatSVG Format = "SVG"
)

type Size string

const (
	SizeSmall      Size = "S"
	SizeMedium     Size = "M"
	SizeLarge      Size = "L"
	SizeExtraLarge Size = "XL"
)

type Color string

const (
	ColorMagenta Color = "magenta"
	ColorBlack   Color = "black"
)

const (
	StaticScheme   = "https://payconiq.com/l/1/"
	MetadataScheme = "https://payconiq.com/t/1/"

	MaxDescriptionLen = 35
	MaxReferenceLen   = 35
	MinAmount         = 1
	MaxAmount         = 999999
)

var ErrInvalidParameter = errors.New("invalid qr code parameter")

// Style controls how the portal renders the image. Zero fields are left out
// of the link so the portal applies its own default.
type Style struct {
	Format Format `validate:"omitempty,oneof=PNG SVG"`
	Size   Size   `validate:"omitempty,oneof=S M L XL"`
	Color  Color  `validate:"omitempty,oneof=magenta black"`
}

var DefaultStyle = Style{Format: FormatPNG, Size: SizeSmall, Color: ColorMagenta}

type Option func(*Style)

func WithFormat(f Format) Option { return func(s *Style) { s.Format = f } }
func WithSize(sz Size) Option    { return func(s *Style) { s.Size = sz } }
func WithColor(c Color) Option   { return func(s *Style) { s.Color = c } }

type Generator struct {
	PortalURL string
}

func NewGenerator(portalURL string) Generator {
	return Generator{PortalURL: portalURL}
}

// Static links to the sticker QR code of a point of sale.
func (g Generator) Static(profileID string, posID string, opts ...Option) (string, error) {
	if profileID == "" || posID == "" {
		return "", fmt.Errorf("%w: profile id and pos id are required", ErrInvalidParameter)
	}
	return g.link(StaticScheme+profileID+"/"+posID, opts)
}

type metadata struct {
	Description string `validate:"maxbytes=35"`
	Amount      int64  `validate:"omitempty,min=1,max=999999"`
	Reference   string `validate:"maxbytes=35"`
}

// WithMetadata links to a QR code that pre-fills the description, amount in
// euro cents and reference. Description and reference are limited to 35
// bytes of UTF-8. Empty description or reference and a zero amount are left
// out.
func (g Generator) WithMetadata(profileID string, description string, amount int64, reference string, opts ...Option) (string, error) {
	if profileID == "" {
		return "", fmt.Errorf("%w: profile id is required", ErrInvalidParameter)
	}
	md := metadata{Description: description, Amount: amount, Reference: reference}
	if fields := validator.Fields(md); fields != nil {
		return "", invalidFields(fields)
	}

	var q orderedQuery
	if description != "" {
		q.set("D", escape(description))
	}
	if amount != 0 {
		q.set("A", strconv.FormatInt(amount, 10))
	}
	if reference != "" {
		q.set("R", escape(reference))
	}

	payload := MetadataScheme + profileID
	if len(q) > 0 {
		payload += "?" + q.encode()
	}
	return g.link(payload, opts)
}

func (g Generator) link(payload string, opts []Option) (string, error) {
	style := DefaultStyle
	for _, opt := range opts {
		opt(&style)
	}
	return Customize(g.PortalURL+"?c="+escape(payload), style.Format, style.Size, style.Color)
}

// Customize sets the f, s and cl parameters on a QR link, such as the qrcode
// link returned with a payment. Existing values are replaced in place; empty
// arguments leave the parameter untouched.
func Customize(link string, format Format, size Size, color Color) (string, error) {
	if err := validator.Var(link, "required,url"); err != nil {
		return "", fmt.Errorf("%w: link %q is not a url", ErrInvalidParameter, link)
	}
	style := Style{Format: format, Size: size, Color: color}
	if fields := validator.Fields(style); fields != nil {
		return "", invalidFields(fields)
	}

	base, rawQuery, _ := strings.Cut(link, "?")
	fragment := ""
	if i := strings.IndexByte(rawQuery, '#'); i >= 0 {
		rawQuery, fragment = rawQuery[:i], rawQuery[i:]
	}

	q := parseOrderedQuery(rawQuery)
	if format != "" {
		q.set("f", escape(string(format)))
	}
	if size != "" {
		q.set("s", escape(string(size)))
	}
	if color != "" {
		q.set("cl", escape(string(color)))
	}

	if len(q) == 0 {
		return base + fragment, nil
	}
	return base + "?" + q.encode() + fragment, nil
}

func invalidFields(fields map[string]string) error {
	parts := make([]string, 0, len(fields))
	for name, rule := range fields {
		parts = append(parts, name+" "+rule)
	}
	return fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(parts, ", "))
}

// escape percent-encodes s for a query component, using %20 for spaces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type queryParam struct {
	key   string
	value string
}

// orderedQuery keeps parameters in insertion order; values are stored encoded.
type orderedQuery []queryParam

func parseOrderedQuery(raw string) orderedQuery {
	var q orderedQuery
	if raw == "" {
		return q
	}
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		q = append(q, queryParam{key: k, value: v})
	}
	return q
}

func (q *orderedQuery) set(key string, value string) {
	for i := range *q {
		if (*q)[i].key == key {
			(*q)[i].value = value
			return
		}
	}
	*q = append(*q, queryParam{key: key, value: value})
}

func (q orderedQuery) encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}
