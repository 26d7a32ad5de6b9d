package domain

// Origin identifies where a stanza came from. It drives merge precedence
// and is never rendered.
type Origin string

const (
	OriginManual Origin = "manual"
	OriginNpm    Origin = "auto-npm"
	OriginPip    Origin = "auto-pip"
	OriginGradle Origin = "auto-gradle"
	OriginNuget  Origin = "auto-nuget"
)

// UnknownLicense is assigned to auto-discovered packages whose tool
// reported no license. Manually authored descriptors must always carry one.
const UnknownLicense = "UNKNOWN"

// Stanza is one dependency's copyright block — the unit the whole pipeline
// operates on, whether hand-written or auto-discovered.
type Stanza struct {
	Name       string // unique key for deduplication
	Year       string // "2020" or a range like "2019-2024"
	Author     string
	AuthorYear string // free-form "<year> <author>" attribution, used verbatim
	Copyright  string // full copyright line, highest formatting precedence
	License    string
	Origin     Origin
}

// Project is the top-level descriptor driving a single run. Read once at
// startup, never mutated.
type Project struct {
	SourceURL            string
	UpstreamName         string
	UpstreamContactName  string
	UpstreamContactEmail string
	ThirdpartyFolderPath string
}

// UpstreamContact renders the DEP-5 "Upstream-Contact" value.
func (p Project) UpstreamContact() string {
	return p.UpstreamContactName + " <" + p.UpstreamContactEmail + ">"
}
