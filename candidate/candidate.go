// Package candidate defines the canonical candidate record aggregated from
// profile pages and exchanged with the recruiting backend.
package candidate

import "strings"

// Record is the aggregated candidate entity. Absent values stay at their
// zero value and are omitted from JSON; list fields never contain duplicate
// normalized entries.
//
// For the paginated collections (Educations, Languages) a nil slice means
// the data must be fetched lazily later (the source reported more items
// than its first page returned), while an empty non-nil slice means the
// collection is known to be empty. Callers must preserve that distinction.
type Record struct {
	LinkedinID       string `json:"linkedinId,omitempty"`
	LinkedinURL      string `json:"linkedinUrl,omitempty"`
	PublicIdentifier string `json:"publicIdentifier,omitempty"`

	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	FirstNameNative string `json:"firstNameNative,omitempty"`
	LastNameNative  string `json:"lastNameNative,omitempty"`

	Emails   []string `json:"emails,omitempty"`
	Phones   []string `json:"phones,omitempty"`
	Skypes   []string `json:"skypes,omitempty"`
	Twitters []string `json:"twitters,omitempty"`
	Websites []string `json:"websites,omitempty"`

	Position string `json:"position,omitempty"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`

	Educations   []Education   `json:"educations,omitempty"`
	Skills       []Skill       `json:"skills,omitempty"`
	Projects     []Project     `json:"projects,omitempty"`
	Jobs         []Job         `json:"jobs,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Honors       []Honor       `json:"honors,omitempty"`
	Publications []Publication `json:"publications,omitempty"`
	Courses      []string      `json:"courses,omitempty"`
	Languages    []Language    `json:"languages,omitempty"`

	// Present in JSON once set, including the false value.
	IsLastSyncSuccessful *bool `json:"isLastSyncSuccessful,omitempty"`

	ID string `json:"id,omitempty"`
}

// Date is a year/month pair as reported by the profile source.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// Education is one entry of a profile's education history.
type Education struct {
	Institution string `json:"institution,omitempty"`
	Major       string `json:"major,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Grade       string `json:"grade,omitempty"`
	Activities  string `json:"activities,omitempty"`
	StartYear   int    `json:"startYear,omitempty"`
	EndYear     int    `json:"endYear,omitempty"`
}

// Skill is a named skill with its endorsement count.
type Skill struct {
	Name           string `json:"name,omitempty"`
	EndorsersCount int    `json:"endorsersCount,omitempty"`
}

// Project is a profile project with its contributor names.
type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	StartDate    *Date    `json:"startDate,omitempty"`
	EndDate      *Date    `json:"endDate,omitempty"`
}

// Job is one position in the profile's work history.
type Job struct {
	Position    string `json:"position,omitempty"`
	Description string `json:"description,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   *Date  `json:"startDate,omitempty"`
	EndDate     *Date  `json:"endDate,omitempty"`
}

// Certificate is a license or certification entry.
type Certificate struct {
	Vendor        string `json:"vendor,omitempty"`
	Name          string `json:"name,omitempty"`
	DisplaySource string `json:"displaySource,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	URL           string `json:"url,omitempty"`
	StartDate     *Date  `json:"startDate,omitempty"`
	EndDate       *Date  `json:"endDate,omitempty"`
}

// Honor is an award entry.
type Honor struct {
	Title       string `json:"title,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// Publication is a published work with its author names.
type Publication struct {
	Name        string   `json:"name,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	PublishedOn *Date    `json:"publishedOn,omitempty"`
}

// Language is a spoken language with its proficiency level.
type Language struct {
	Name  string `json:"name,omitempty"`
	Level string `json:"level,omitempty"`
}

// SetLastSyncSuccessful records the sync outcome flag on the record.
func (r *Record) SetLastSyncSuccessful(ok bool) *Record {
	r.IsLastSyncSuccessful = &ok
	return r
}

// LastSyncSuccessful reports the sync flag; an unset flag counts as false.
func (r *Record) LastSyncSuccessful() bool {
	return r != nil && r.IsLastSyncSuccessful != nil && *r.IsLastSyncSuccessful
}

// AppendUnique appends value to list unless it is empty or already present.
func AppendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// CollectUnique maps raw values through parse (which may be nil) and returns
// the non-empty results in order, with duplicates dropped. A nil result
// means no value survived.
func CollectUnique(raw []string, parse func(string) string) []string {
	var out []string
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if parse != nil {
			v = parse(v)
			if v == "" {
				continue
			}
		}
		out = AppendUnique(out, v)
	}
	return out
}

// Clone returns a deep copy of the record. Handing a clone to downstream
// consumers keeps the session-owned record safe from later mutation.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Emails = append([]string(nil), r.Emails...)
	out.Phones = append([]string(nil), r.Phones...)
	out.Skypes = append([]string(nil), r.Skypes...)
	out.Twitters = append([]string(nil), r.Twitters...)
	out.Websites = append([]string(nil), r.Websites...)
	if r.Educations != nil {
		out.Educations = append([]Education(nil), r.Educations...)
	}
	if r.Skills != nil {
		out.Skills = append([]Skill(nil), r.Skills...)
	}
	if r.Projects != nil {
		out.Projects = append([]Project(nil), r.Projects...)
	}
	if r.Jobs != nil {
		out.Jobs = append([]Job(nil), r.Jobs...)
	}
	if r.Certificates != nil {
		out.Certificates = append([]Certificate(nil), r.Certificates...)
	}
	if r.Honors != nil {
		out.Honors = append([]Honor(nil), r.Honors...)
	}
	if r.Publications != nil {
		out.Publications = append([]Publication(nil), r.Publications...)
	}
	if r.Courses != nil {
		out.Courses = append([]string(nil), r.Courses...)
	}
	if r.Languages != nil {
		out.Languages = append([]Language(nil), r.Languages...)
	}
	if r.IsLastSyncSuccessful != nil {
		v := *r.IsLastSyncSuccessful
		out.IsLastSyncSuccessful = &v
	}
	return &out
}
