package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/licenseforge/copyrightgen/domain"
)

// StanzaBuilder helps create test stanzas with a fluent interface.
type StanzaBuilder struct {
	*testkit.BaseBuilder
	name       string
	year       string
	author     string
	authorYear string
	copyright  string
	license    string
	origin     domain.Origin
}

// NewStanzaBuilder creates a new stanza builder with sensible defaults.
func NewStanzaBuilder() *StanzaBuilder {
	return &StanzaBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-dependency",
		year:        "2020",
		author:      "Jane Doe",
		license:     "MIT",
		origin:      domain.OriginManual,
	}
}

// WithName sets the dependency name.
func (b *StanzaBuilder) WithName(name string) *StanzaBuilder {
	b.name = name
	return b
}

// WithYear sets the year.
func (b *StanzaBuilder) WithYear(year string) *StanzaBuilder {
	b.year = year
	return b
}

// WithAuthor sets the author.
func (b *StanzaBuilder) WithAuthor(author string) *StanzaBuilder {
	b.author = author
	return b
}

// WithAuthorYear sets the free-form author/year attribution.
func (b *StanzaBuilder) WithAuthorYear(authorYear string) *StanzaBuilder {
	b.authorYear = authorYear
	return b
}

// WithCopyright sets the full copyright string.
func (b *StanzaBuilder) WithCopyright(copyright string) *StanzaBuilder {
	b.copyright = copyright
	return b
}

// WithLicense sets the license identifier.
func (b *StanzaBuilder) WithLicense(license string) *StanzaBuilder {
	b.license = license
	return b
}

// WithOrigin sets the stanza origin.
func (b *StanzaBuilder) WithOrigin(origin domain.Origin) *StanzaBuilder {
	b.origin = origin
	return b
}

// Build creates the stanza (satisfies testkit.Builder interface).
func (b *StanzaBuilder) Build() interface{} {
	return b.BuildStanza()
}

// BuildStanza creates the stanza with a concrete return type.
func (b *StanzaBuilder) BuildStanza() domain.Stanza {
	return domain.Stanza{
		Name:       b.name,
		Year:       b.year,
		Author:     b.author,
		AuthorYear: b.authorYear,
		Copyright:  b.copyright,
		License:    b.license,
		Origin:     b.origin,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *StanzaBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-dependency"
	b.year = "2020"
	b.author = "Jane Doe"
	b.authorYear = ""
	b.copyright = ""
	b.license = "MIT"
	b.origin = domain.OriginManual
	return b
}

// Clone creates a deep copy of the StanzaBuilder.
func (b *StanzaBuilder) Clone() testkit.Builder {
	return &StanzaBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		year:        b.year,
		author:      b.author,
		authorYear:  b.authorYear,
		copyright:   b.copyright,
		license:     b.license,
		origin:      b.origin,
	}
}
