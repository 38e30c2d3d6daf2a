package candidate

import "strings"

// Merge copies every non-empty field of src into r. List fields are merged
// through AppendUnique so repeated raw values never produce duplicates.
// A nil paginated collection in src does not overwrite data already in r.
func (r *Record) Merge(src *Record) {
	if src == nil {
		return
	}
	setString(&r.LinkedinID, src.LinkedinID)
	setString(&r.LinkedinURL, src.LinkedinURL)
	setString(&r.PublicIdentifier, src.PublicIdentifier)
	setString(&r.FirstName, src.FirstName)
	setString(&r.LastName, src.LastName)
	setString(&r.FirstNameNative, src.FirstNameNative)
	setString(&r.LastNameNative, src.LastNameNative)
	setString(&r.Position, src.Position)
	setString(&r.Industry, src.Industry)
	setString(&r.Location, src.Location)
	setString(&r.Summary, src.Summary)
	setString(&r.PhotoURL, src.PhotoURL)
	setString(&r.ID, src.ID)

	for _, v := range src.Emails {
		r.Emails = AppendUnique(r.Emails, v)
	}
	for _, v := range src.Phones {
		r.Phones = AppendUnique(r.Phones, v)
	}
	for _, v := range src.Skypes {
		r.Skypes = AppendUnique(r.Skypes, v)
	}
	for _, v := range src.Twitters {
		r.Twitters = AppendUnique(r.Twitters, v)
	}
	for _, v := range src.Websites {
		r.Websites = AppendUnique(r.Websites, v)
	}

	if src.Educations != nil {
		r.Educations = src.Educations
	}
	if src.Skills != nil {
		r.Skills = src.Skills
	}
	if src.Projects != nil {
		r.Projects = src.Projects
	}
	if src.Jobs != nil {
		r.Jobs = src.Jobs
	}
	if src.Certificates != nil {
		r.Certificates = src.Certificates
	}
	if src.Honors != nil {
		r.Honors = src.Honors
	}
	if src.Publications != nil {
		r.Publications = src.Publications
	}
	if src.Courses != nil {
		r.Courses = src.Courses
	}
	if src.Languages != nil {
		r.Languages = src.Languages
	}
	if src.IsLastSyncSuccessful != nil {
		v := *src.IsLastSyncSuccessful
		r.IsLastSyncSuccessful = &v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ForEnrich returns a copy reduced to the fields the backend enrich call
// accepts. When the profile URL does not contain the public identifier
// (recruiter pages link by internal id), the internal id segment is
// replaced with the public identifier so the stored URL stays canonical.
func (r *Record) ForEnrich() *Record {
	out := r.Clone()
	out.FirstNameNative = ""
	out.LastNameNative = ""
	if out.PublicIdentifier != "" && out.LinkedinID != "" &&
		!strings.Contains(out.LinkedinURL, out.PublicIdentifier) {
		out.LinkedinURL = strings.Replace(out.LinkedinURL, out.LinkedinID, out.PublicIdentifier, 1)
	}
	return out
}
