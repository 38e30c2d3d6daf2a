package aggregate

import (
	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/normalize"
	"github.com/talentsync/talentsync/voyager"
)

// mainInfo maps the combined profile view to a candidate record and marks
// the sync successful.
func mainInfo(view *voyager.ProfileView) *candidate.Record {
	rec := &candidate.Record{}
	if view == nil {
		return rec.SetLastSyncSuccessful(true)
	}
	if p := view.Profile; p != nil {
		rec.LinkedinID = normalize.LinkedinID(p.EntityURN)
		rec.FirstName = p.FirstName
		rec.LastName = p.LastName
		rec.Summary = p.Summary
		rec.Position = p.Headline
		rec.Location = p.LocationName
		rec.Industry = p.IndustryName
		if p.MiniProfile != nil {
			rec.PublicIdentifier = p.MiniProfile.PublicIdentifier
		}
		rec.PhotoURL = p.MiniProfile.PhotoURL()
	}
	rec.Educations = educations(view.EducationView)
	rec.Languages = languages(view.LanguageView)
	return rec.SetLastSyncSuccessful(true)
}

// contactInfo maps the contact section. Phone numbers go through the
// digit normalizer; every list is deduplicated.
func contactInfo(ci *voyager.ContactInfo) *candidate.Record {
	rec := &candidate.Record{}
	if ci == nil {
		return rec
	}
	rec.Emails = candidate.CollectUnique([]string{ci.EmailAddress}, nil)

	phones := make([]string, 0, len(ci.PhoneNumbers))
	for _, p := range ci.PhoneNumbers {
		phones = append(phones, p.Number)
	}
	rec.Phones = candidate.CollectUnique(phones, normalize.Phone)

	twitters := make([]string, 0, len(ci.TwitterHandles))
	for _, h := range ci.TwitterHandles {
		twitters = append(twitters, h.Name)
	}
	rec.Twitters = candidate.CollectUnique(twitters, nil)

	websites := make([]string, 0, len(ci.Websites))
	for _, w := range ci.Websites {
		websites = append(websites, w.URL)
	}
	rec.Websites = candidate.CollectUnique(websites, nil)

	for _, im := range ci.IMs {
		if im.Provider == voyager.SkypeProvider {
			rec.Skypes = candidate.AppendUnique(rec.Skypes, im.ID)
		}
	}
	return rec
}

// educations maps an education page. A truncated page returns nil: the
// full list must be fetched separately later.
func educations(col *voyager.Collection[voyager.Education]) []candidate.Education {
	if col.Truncated() {
		return nil
	}
	out := []candidate.Education{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		e := candidate.Education{
			Institution: el.SchoolName,
			Major:       el.FieldOfStudy,
			Degree:      el.DegreeName,
			Grade:       el.Grade,
			Activities:  el.Activities,
		}
		if el.TimePeriod != nil {
			if el.TimePeriod.StartDate != nil {
				e.StartYear = el.TimePeriod.StartDate.Year
			}
			if el.TimePeriod.EndDate != nil {
				e.EndYear = el.TimePeriod.EndDate.Year
			}
		}
		out = append(out, e)
	}
	return out
}

// languages maps a language page, with the same truncation sentinel as
// educations.
func languages(col *voyager.Collection[voyager.Language]) []candidate.Language {
	if col.Truncated() {
		return nil
	}
	out := []candidate.Language{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		out = append(out, candidate.Language{Name: el.Name, Level: el.Proficiency})
	}
	return out
}

func skills(col *voyager.Collection[voyager.FeaturedSkill]) []candidate.Skill {
	out := []candidate.Skill{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		s := candidate.Skill{EndorsersCount: el.EndorsementCount}
		if el.Skill != nil {
			s.Name = el.Skill.Name
		}
		out = append(out, s)
	}
	return out
}

func projects(col *voyager.Collection[voyager.Project]) []candidate.Project {
	out := []candidate.Project{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		p := candidate.Project{
			Name:        el.Title,
			Description: el.Description,
			URL:         el.URL,
			StartDate:   date(timeStart(el.TimePeriod)),
			EndDate:     date(timeEnd(el.TimePeriod)),
		}
		p.Contributors = make([]string, 0, len(el.Members))
		for i := range el.Members {
			p.Contributors = append(p.Contributors, el.Members[i].FullName())
		}
		out = append(out, p)
	}
	return out
}

func jobs(col *voyager.Collection[voyager.Position]) []candidate.Job {
	out := []candidate.Job{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		out = append(out, candidate.Job{
			Position:    el.Title,
			Description: el.Description,
			Company:     el.CompanyName,
			Location:    el.LocationName,
			StartDate:   date(timeStart(el.TimePeriod)),
			EndDate:     date(timeEnd(el.TimePeriod)),
		})
	}
	return out
}

func certificates(col *voyager.Collection[voyager.Certification]) []candidate.Certificate {
	out := []candidate.Certificate{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		out = append(out, candidate.Certificate{
			Vendor:        el.Authority,
			Name:          el.Name,
			DisplaySource: el.DisplaySource,
			LicenseNumber: el.LicenseNumber,
			URL:           el.URL,
			StartDate:     date(timeStart(el.TimePeriod)),
			EndDate:       date(timeEnd(el.TimePeriod)),
		})
	}
	return out
}

func honors(col *voyager.Collection[voyager.Honor]) []candidate.Honor {
	out := []candidate.Honor{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		h := candidate.Honor{Title: el.Title, Issuer: el.Issuer, Description: el.Description}
		if el.IssueDate != nil {
			h.Year = el.IssueDate.Year
		}
		out = append(out, h)
	}
	return out
}

func publications(col *voyager.Collection[voyager.Publication]) []candidate.Publication {
	out := []candidate.Publication{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		p := candidate.Publication{
			Name:        el.Name,
			Publisher:   el.Publisher,
			Description: el.Description,
			URL:         el.URL,
			PublishedOn: date(el.Date),
		}
		p.Authors = make([]string, 0, len(el.Authors))
		for i := range el.Authors {
			p.Authors = append(p.Authors, el.Authors[i].FullName())
		}
		out = append(out, p)
	}
	return out
}

func courses(col *voyager.Collection[voyager.Course]) []string {
	out := []string{}
	if col == nil {
		return out
	}
	for _, el := range col.Elements {
		out = append(out, el.Name)
	}
	return out
}

func timeStart(tp *voyager.TimePeriod) *voyager.YearMonth {
	if tp == nil {
		return nil
	}
	return tp.StartDate
}

func timeEnd(tp *voyager.TimePeriod) *voyager.YearMonth {
	if tp == nil {
		return nil
	}
	return tp.EndDate
}

func date(ym *voyager.YearMonth) *candidate.Date {
	if ym == nil {
		return nil
	}
	return &candidate.Date{Year: ym.Year, Month: ym.Month}
}
