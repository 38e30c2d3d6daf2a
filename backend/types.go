package backend

import "github.com/talentsync/talentsync/candidate"

// Candidate is one row of a candidate search response.
type Candidate struct {
	ID                         string `json:"id"`
	FirstName                  string `json:"firstName"`
	LastName                   string `json:"lastName"`
	Status                     string `json:"status"`
	LinkedinURL                string `json:"linkedinUrl"`
	Email                      string `json:"email"`
	Phone                      string `json:"phone"`
	Skype                      string `json:"skype"`
	Position                   string `json:"position"`
	Location                   string `json:"location"`
	IsPerfectMatch             bool   `json:"isPerfectMatch"`
	LinkedinInfoUpdateRequired bool   `json:"linkedinInfoUpdateRequired"`
	IsFormerEmployee           bool   `json:"isFormerEmployee"`
	LastActivityDate           string `json:"lastActivityDate,omitempty"`
	LastActivityPoolCategory   string `json:"lastActivityPoolCategory,omitempty"`
}

// StatusEmployee marks candidates already employed by the company.
const StatusEmployee = "Employee"

// SearchQuery is the payload for FindCandidates. Any known identity or
// contact field narrows the search; the backend decides what a perfect
// match is.
type SearchQuery struct {
	LinkedinID  string   `json:"linkedinId,omitempty"`
	LinkedinURL string   `json:"linkedinUrl,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Phones      []string `json:"phones,omitempty"`
	Skypes      []string `json:"skypes,omitempty"`
}

// TransliteratedNames is the transliterateName response.
type TransliteratedNames struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	FirstNameNative string `json:"firstNameNative"`
	LastNameNative  string `json:"lastNameNative"`
}

// Vacancy is an open position a candidate can be assigned to.
type Vacancy struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Collection is a recruiter-curated candidate list.
type Collection struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Stage is one column of a collection board.
type Stage struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ChoiceValue is a dictionary entry (info sources, job families and the
// like).
type ChoiceValue struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LastActivity is a candidate's most recent recorded touch point.
type LastActivity struct {
	CandidateID  string `json:"candidateId"`
	Date         string `json:"lastActivityDate"`
	PoolCategory string `json:"poolCategory,omitempty"`
}

// OutdatedProfile is one entry of the linkedInProfilesToUpdate response:
// a stored candidate whose cached LinkedIn data has gone stale.
type OutdatedProfile struct {
	CandidateID          string `json:"candidateId"`
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	LinkedinURL          string `json:"linkedinUrl"`
	IsLastSyncSuccessful bool   `json:"isLastSyncSuccessful"`
}

// CreateOptions steers where a newly created candidate lands.
type CreateOptions struct {
	MoveToRecruiting bool
}

// ErrorReport is the payload for the backend logging endpoint.
type ErrorReport struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// QueryFromRecord builds the candidate search payload from an aggregated
// profile record.
func QueryFromRecord(rec *candidate.Record) SearchQuery {
	return SearchQuery{
		LinkedinID:  rec.LinkedinID,
		LinkedinURL: rec.LinkedinURL,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Emails:      rec.Emails,
		Phones:      rec.Phones,
		Skypes:      rec.Skypes,
	}
}
