package voyager

// Paging is the paging block of a collection envelope. Total can exceed
// Count, which means the first page did not carry the full collection.
type Paging struct {
	Count int `json:"count"`
	Start int `json:"start"`
	Total int `json:"total"`
}

// Collection is the standard {elements, paging} envelope.
type Collection[T any] struct {
	Elements []T     `json:"elements"`
	Paging   *Paging `json:"paging,omitempty"`
}

// Truncated reports whether the source holds more items than this page.
func (c *Collection[T]) Truncated() bool {
	return c != nil && c.Paging != nil && c.Paging.Total > c.Paging.Count
}

// vectorImageKey is the type tag of the picture variant container.
const vectorImageKey = "com.linkedin.common.VectorImage"

// ProfileView is the combined profile payload: the person plus the first
// page of their education and language views.
type ProfileView struct {
	Profile       *Profile               `json:"profile"`
	EducationView *Collection[Education] `json:"educationView"`
	LanguageView  *Collection[Language]  `json:"languageView"`
}

// Profile is the primary person section of a profile view.
type Profile struct {
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Headline     string       `json:"headline"`
	LocationName string       `json:"locationName"`
	IndustryName string       `json:"industryName"`
	Summary      string       `json:"summary"`
	EntityURN    string       `json:"entityUrn"`
	MiniProfile  *MiniProfile `json:"miniProfile"`
}

// MiniProfile carries the public identifier and profile picture variants.
type MiniProfile struct {
	PublicIdentifier string                  `json:"publicIdentifier"`
	Picture          map[string]*VectorImage `json:"picture"`
}

// VectorImage is a ranked list of image artifacts, smallest first.
type VectorImage struct {
	RootURL   string     `json:"rootUrl"`
	Artifacts []Artifact `json:"artifacts"`
}

// Artifact is one rendition of a profile picture.
type Artifact struct {
	FileIdentifyingURLPathSegment string `json:"fileIdentifyingUrlPathSegment"`
	Width                         int    `json:"width"`
	Height                        int    `json:"height"`
}

// PhotoURL returns the address of the largest picture rendition, or ""
// when the expected variant container is absent.
func (m *MiniProfile) PhotoURL() string {
	if m == nil {
		return ""
	}
	img := m.Picture[vectorImageKey]
	if img == nil || len(img.Artifacts) == 0 {
		return ""
	}
	return img.RootURL + img.Artifacts[len(img.Artifacts)-1].FileIdentifyingURLPathSegment
}

// ContactInfo is the profileContactInfo payload.
type ContactInfo struct {
	EmailAddress   string          `json:"emailAddress"`
	PhoneNumbers   []PhoneNumber   `json:"phoneNumbers"`
	IMs            []IMHandle      `json:"ims"`
	TwitterHandles []TwitterHandle `json:"twitterHandles"`
	Websites       []Website       `json:"websites"`
}

// PhoneNumber is one phone entry with its type label.
type PhoneNumber struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// IMHandle is an instant-messaging handle; Provider distinguishes Skype
// from the rest.
type IMHandle struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
}

// SkypeProvider marks Skype IM handles.
const SkypeProvider = "SKYPE"

// TwitterHandle is a linked Twitter account.
type TwitterHandle struct {
	Name string `json:"name"`
}

// Website is a profile-listed website.
type Website struct {
	URL string `json:"url"`
}

// TimePeriod brackets an entry with optional start and end dates.
type TimePeriod struct {
	StartDate *YearMonth `json:"startDate,omitempty"`
	EndDate   *YearMonth `json:"endDate,omitempty"`
}

// YearMonth is a partial date.
type YearMonth struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// Education is one educations element.
type Education struct {
	SchoolName   string      `json:"schoolName"`
	FieldOfStudy string      `json:"fieldOfStudy"`
	DegreeName   string      `json:"degreeName"`
	Grade        string      `json:"grade"`
	Activities   string      `json:"activities"`
	TimePeriod   *TimePeriod `json:"timePeriod,omitempty"`
}

// Language is one languages element.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// FeaturedSkill is one featuredSkills element.
type FeaturedSkill struct {
	Skill            *NamedEntity `json:"skill"`
	EndorsementCount int          `json:"endorsementCount"`
}

// NamedEntity is a bare {name} object.
type NamedEntity struct {
	Name string `json:"name"`
}

// Member is a project contributor or publication author. Either the
// structured name pair or the flat display name may be present; the pair
// may also sit under a nested member object.
type Member struct {
	Member    *Member `json:"member,omitempty"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Name      string  `json:"name,omitempty"`
}

// FullName resolves the display name: structured first+last wins, then the
// flat name, then empty.
func (m *Member) FullName() string {
	if m == nil {
		return ""
	}
	src := m
	if m.Member != nil {
		src = m.Member
	}
	if src.FirstName != "" && src.LastName != "" {
		return src.FirstName + " " + src.LastName
	}
	return src.Name
}

// Project is one projects element.
type Project struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Members     []Member    `json:"members"`
	TimePeriod  *TimePeriod `json:"timePeriod,omitempty"`
}

// Position is one positions element.
type Position struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	CompanyName  string      `json:"companyName"`
	LocationName string      `json:"locationName"`
	TimePeriod   *TimePeriod `json:"timePeriod,omitempty"`
}

// Certification is one certifications element.
type Certification struct {
	Authority     string      `json:"authority"`
	Name          string      `json:"name"`
	DisplaySource string      `json:"displaySource"`
	LicenseNumber string      `json:"licenseNumber"`
	URL           string      `json:"url"`
	TimePeriod    *TimePeriod `json:"timePeriod,omitempty"`
}

// Honor is one honors element.
type Honor struct {
	Title       string     `json:"title"`
	Issuer      string     `json:"issuer"`
	Description string     `json:"description"`
	IssueDate   *YearMonth `json:"issueDate,omitempty"`
}

// Publication is one publications element.
type Publication struct {
	Name        string     `json:"name"`
	Publisher   string     `json:"publisher"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Authors     []Member   `json:"authors"`
	Date        *YearMonth `json:"date,omitempty"`
}

// Course is one courses element.
type Course struct {
	Name string `json:"name"`
}
