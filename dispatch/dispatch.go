// Package dispatch routes typed page-script actions to the recruiting
// backend. Every action declares its payload shape as a JSON schema, so a
// malformed payload is rejected before any backend call happens.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/telemetry"
)

// Action names one routable operation.
type Action string

const (
	ActionSearchCandidates          Action = "searchCandidates"
	ActionAddNewCandidate           Action = "addNewCandidate"
	ActionEnrichCandidate           Action = "enrichCandidate"
	ActionAssignToMe                Action = "assignToMe"
	ActionAssignToVacancy           Action = "assignToVacancy"
	ActionUnlink                    Action = "unlink"
	ActionTransliterateName         Action = "transliterateName"
	ActionGetVacancies              Action = "getVacancies"
	ActionGetEditableCollections    Action = "getEditableCollections"
	ActionGetCollectionStages       Action = "getCollectionStages"
	ActionAddCandidateToCollection  Action = "addCandidateToCollection"
	ActionDeleteCollectionCard      Action = "deleteCollectionCard"
	ActionMoveCollectionCardToStage Action = "moveCollectionCardToStage"
	ActionGetLastActivity           Action = "getLastActivity"
	ActionGetOutdatedProfiles       Action = "getCandidatesWithOutdatedInfo"
	ActionGetInfoSources            Action = "getInfoSources"
	ActionGetJobFamilyGroups        Action = "getJobFamilyGroups"
	ActionGetJobFamilies            Action = "getJobFamilies"
	ActionGetJobProfiles            Action = "getJobProfiles"
	ActionReportError               Action = "reportError"
)

// Envelope is one inbound action message.
type Envelope struct {
	Action        Action          `json:"actionName"`
	Data          json.RawMessage `json:"data,omitempty"`
	SessionCookie string          `json:"sessionCookie,omitempty"`
	WindowURL     string          `json:"windowUrl,omitempty"`
	DoNotLogError bool            `json:"doNotLogError,omitempty"`
}

// ErrUnknownAction is returned for an action name outside the table.
var ErrUnknownAction = errors.New("unknown action")

// ValidationError is a payload that failed its action's schema.
type ValidationError struct {
	Action Action
	Causes []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Action, strings.Join(e.Causes, "; "))
}

// Backend is the slice of the recruiting client the dispatcher drives.
// *backend.Client satisfies it.
type Backend interface {
	FindCandidates(ctx context.Context, query backend.SearchQuery) ([]backend.Candidate, error)
	CreateCandidate(ctx context.Context, rec *candidate.Record, opts backend.CreateOptions) (*backend.Candidate, error)
	EnrichCandidate(ctx context.Context, rec *candidate.Record) error
	UnlinkCandidate(ctx context.Context, candidateID, linkedinURL string) error
	AssignToMe(ctx context.Context, candidateID string) error
	AssignToVacancy(ctx context.Context, vacancyID int, candidateID string) error
	TransliterateName(ctx context.Context, firstName, lastName string) (*backend.TransliteratedNames, error)
	Vacancies(ctx context.Context) ([]backend.Vacancy, error)
	EditableCollections(ctx context.Context) ([]backend.Collection, error)
	CollectionStages(ctx context.Context, collectionID int) ([]backend.Stage, error)
	AddCandidateToCollection(ctx context.Context, candidateID string, collectionID int, allowSameCards bool) error
	DeleteCollectionCard(ctx context.Context, collectionID, cardID int) error
	MoveCollectionCardToStage(ctx context.Context, collectionID, cardID, stageID int) error
	LastActivities(ctx context.Context, candidateIDs []string) ([]backend.LastActivity, error)
	OutdatedProfiles(ctx context.Context) ([]backend.OutdatedProfile, error)
}

// Dictionaries serves the memoized choice-value lists. *dictionary.Provider
// satisfies it.
type Dictionaries interface {
	InfoSources(ctx context.Context) []backend.ChoiceValue
	JobFamilyGroups(ctx context.Context) []backend.ChoiceValue
	JobFamilies(ctx context.Context, groupID int) []backend.ChoiceValue
	JobProfiles(ctx context.Context, groupID, familyID int) []backend.ChoiceValue
}

// InfoCollector fetches a profile's extended sections. *aggregate.Collector
// satisfies it.
type InfoCollector interface {
	CollectFullAdditionalInfo(ctx context.Context, rec *candidate.Record) *candidate.Record
}

// Scheduler queues background enrichment. *enrich.Queue satisfies it.
type Scheduler interface {
	Schedule(rec *candidate.Record, source string) bool
}

// Dispatcher holds the wiring shared by all handlers.
type Dispatcher struct {
	backend   Backend
	dicts     Dictionaries
	collector InfoCollector
	scheduler Scheduler
	reporter  *telemetry.Reporter
	logger    *slog.Logger
}

// New creates a Dispatcher. collector, scheduler and reporter may be nil;
// the affected side effects are then skipped.
func New(be Backend, dicts Dictionaries, collector InfoCollector, scheduler Scheduler, reporter *telemetry.Reporter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		backend:   be,
		dicts:     dicts,
		collector: collector,
		scheduler: scheduler,
		reporter:  reporter,
		logger:    logger,
	}
}

// Dispatch validates the envelope's payload and runs its handler. Failed
// backend calls are reported to telemetry unless the envelope opts out;
// session-expired responses never reach telemetry.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) (any, error) {
	entry, ok := handlers[env.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Action)
	}
	if entry.schema != nil {
		if err := validatePayload(env, entry.schema); err != nil {
			return nil, err
		}
	}

	d.logger.DebugContext(ctx, "dispatching action", "action", env.Action)
	out, err := entry.run(ctx, d, env)
	if err != nil {
		d.logger.DebugContext(ctx, "action failed", "action", env.Action, "error", err)
		if !env.DoNotLogError && d.reporter != nil {
			d.reporter.ReportAPIError(ctx, err, env.WindowURL)
		}
	}
	return out, err
}

func validatePayload(env Envelope, schema *gojsonschema.Schema) error {
	data := env.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", env.Action, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Action: env.Action}
	for _, desc := range result.Errors() {
		verr.Causes = append(verr.Causes, desc.String())
	}
	return verr
}

type handlerFunc func(ctx context.Context, d *Dispatcher, env Envelope) (any, error)

type handlerEntry struct {
	schema *gojsonschema.Schema
	run    handlerFunc
}

func mustSchema(def string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
	if err != nil {
		panic("dispatch schema: " + err.Error())
	}
	return schema
}

var handlers = map[Action]handlerEntry{
	ActionSearchCandidates: {
		schema: mustSchema(`{
			"type": "object",
			"properties": {
				"linkedinId": {"type": "string"},
				"linkedinUrl": {"type": "string"},
				"publicIdentifier": {"type": "string"},
				"firstName": {"type": "string"},
				"lastName": {"type": "string"},
				"emails": {"type": "array", "items": {"type": "string"}},
				"phones": {"type": "array", "items": {"type": "string"}},
				"skypes": {"type": "array", "items": {"type": "string"}}
			}
		}`),
		run: runSearchCandidates,
	},
	ActionAddNewCandidate: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["profileData"],
			"properties": {
				"moveToRecruiting": {"type": "boolean"},
				"profileData": {"type": "object"}
			}
		}`),
		run: runAddNewCandidate,
	},
	ActionEnrichCandidate: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["linkedinUrl"],
			"properties": {"linkedinUrl": {"type": "string", "minLength": 1}}
		}`),
		run: runEnrichCandidate,
	},
	ActionAssignToMe: {
		schema: mustSchema(`{"type": "string", "minLength": 1}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var candidateID string
			if err := json.Unmarshal(env.Data, &candidateID); err != nil {
				return nil, fmt.Errorf("decode assignToMe payload: %w", err)
			}
			return nil, d.backend.AssignToMe(ctx, candidateID)
		},
	},
	ActionAssignToVacancy: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["vacancyId", "candidateId"],
			"properties": {
				"vacancyId": {"type": "integer"},
				"candidateId": {"type": "string", "minLength": 1}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				VacancyID   int    `json:"vacancyId"`
				CandidateID string `json:"candidateId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode assignToVacancy payload: %w", err)
			}
			return nil, d.backend.AssignToVacancy(ctx, payload.VacancyID, payload.CandidateID)
		},
	},
	ActionUnlink: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["id", "linkedinUrl"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"linkedinUrl": {"type": "string", "minLength": 1}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				ID          string `json:"id"`
				LinkedinURL string `json:"linkedinUrl"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode unlink payload: %w", err)
			}
			return nil, d.backend.UnlinkCandidate(ctx, payload.ID, payload.LinkedinURL)
		},
	},
	ActionTransliterateName: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["firstName", "lastName"],
			"properties": {
				"firstName": {"type": "string"},
				"lastName": {"type": "string"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				FirstName string `json:"firstName"`
				LastName  string `json:"lastName"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode transliterateName payload: %w", err)
			}
			return d.backend.TransliterateName(ctx, payload.FirstName, payload.LastName)
		},
	},
	ActionGetVacancies: {
		run: func(ctx context.Context, d *Dispatcher, _ Envelope) (any, error) {
			return d.backend.Vacancies(ctx)
		},
	},
	ActionGetEditableCollections: {
		run: func(ctx context.Context, d *Dispatcher, _ Envelope) (any, error) {
			return d.backend.EditableCollections(ctx)
		},
	},
	ActionGetCollectionStages: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["collectionId"],
			"properties": {"collectionId": {"type": "integer"}}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				CollectionID int `json:"collectionId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode getCollectionStages payload: %w", err)
			}
			return d.backend.CollectionStages(ctx, payload.CollectionID)
		},
	},
	ActionAddCandidateToCollection: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["candidate", "collection"],
			"properties": {
				"candidate": {"type": "string", "minLength": 1},
				"collection": {"type": "integer"},
				"allowSameCards": {"type": "boolean"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				Candidate      string `json:"candidate"`
				Collection     int    `json:"collection"`
				AllowSameCards bool   `json:"allowSameCards"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode addCandidateToCollection payload: %w", err)
			}
			return nil, d.backend.AddCandidateToCollection(ctx, payload.Candidate, payload.Collection, payload.AllowSameCards)
		},
	},
	ActionDeleteCollectionCard: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["cardId", "collectionId"],
			"properties": {
				"cardId": {"type": "integer"},
				"collectionId": {"type": "integer"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				CardID       int `json:"cardId"`
				CollectionID int `json:"collectionId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode deleteCollectionCard payload: %w", err)
			}
			return nil, d.backend.DeleteCollectionCard(ctx, payload.CollectionID, payload.CardID)
		},
	},
	ActionMoveCollectionCardToStage: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["cardId", "collectionId", "stageId"],
			"properties": {
				"cardId": {"type": "integer"},
				"collectionId": {"type": "integer"},
				"stageId": {"type": "integer"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				CardID       int `json:"cardId"`
				CollectionID int `json:"collectionId"`
				StageID      int `json:"stageId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode moveCollectionCardToStage payload: %w", err)
			}
			return nil, d.backend.MoveCollectionCardToStage(ctx, payload.CollectionID, payload.CardID, payload.StageID)
		},
	},
	ActionGetLastActivity: {
		schema: mustSchema(`{
			"type": "array",
			"items": {"type": "string"},
			"minItems": 1
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var candidateIDs []string
			if err := json.Unmarshal(env.Data, &candidateIDs); err != nil {
				return nil, fmt.Errorf("decode getLastActivity payload: %w", err)
			}
			return d.backend.LastActivities(ctx, candidateIDs)
		},
	},
	ActionGetOutdatedProfiles: {
		run: func(ctx context.Context, d *Dispatcher, _ Envelope) (any, error) {
			return d.backend.OutdatedProfiles(ctx)
		},
	},
	ActionGetInfoSources: {
		run: func(ctx context.Context, d *Dispatcher, _ Envelope) (any, error) {
			return d.dicts.InfoSources(ctx), nil
		},
	},
	ActionGetJobFamilyGroups: {
		run: func(ctx context.Context, d *Dispatcher, _ Envelope) (any, error) {
			return d.dicts.JobFamilyGroups(ctx), nil
		},
	},
	ActionGetJobFamilies: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["jobFamilyGroupId"],
			"properties": {"jobFamilyGroupId": {"type": "integer"}}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				JobFamilyGroupID int `json:"jobFamilyGroupId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode getJobFamilies payload: %w", err)
			}
			return d.dicts.JobFamilies(ctx, payload.JobFamilyGroupID), nil
		},
	},
	ActionGetJobProfiles: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["jobFamilyGroupId", "jobFamilyId"],
			"properties": {
				"jobFamilyGroupId": {"type": "integer"},
				"jobFamilyId": {"type": "integer"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				JobFamilyGroupID int `json:"jobFamilyGroupId"`
				JobFamilyID      int `json:"jobFamilyId"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode getJobProfiles payload: %w", err)
			}
			return d.dicts.JobProfiles(ctx, payload.JobFamilyGroupID, payload.JobFamilyID), nil
		},
	},
	ActionReportError: {
		schema: mustSchema(`{
			"type": "object",
			"required": ["source", "message"],
			"properties": {
				"source": {"type": "string"},
				"message": {"type": "string"}
			}
		}`),
		run: func(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
			var payload struct {
				Source  string `json:"source"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("decode reportError payload: %w", err)
			}
			if d.reporter != nil {
				d.reporter.Report(ctx, payload.Source, payload.Message, env.WindowURL)
			}
			return nil, nil
		},
	},
}

func runSearchCandidates(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
	var rec candidate.Record
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return nil, fmt.Errorf("decode searchCandidates payload: %w", err)
	}
	found, err := d.backend.FindCandidates(ctx, backend.QueryFromRecord(&rec))
	if err != nil {
		return nil, err
	}
	d.enrichAfterSearch(ctx, found, &rec)
	return found, nil
}

// enrichAfterSearch queues a background enrich when the search yielded a
// single perfect match that the backend flagged as stale. Records without
// a public identifier (people search cards) carry too little data to be
// worth enriching.
func (d *Dispatcher) enrichAfterSearch(ctx context.Context, found []backend.Candidate, rec *candidate.Record) {
	if d.scheduler == nil || len(found) != 1 || !found[0].IsPerfectMatch {
		return
	}
	match := found[0]
	if !match.LinkedinInfoUpdateRequired || rec.PublicIdentifier == "" {
		return
	}
	task := rec.Clone()
	task.ID = match.ID
	if d.scheduler.Schedule(task, "post-search refresh") {
		d.logger.DebugContext(ctx, "queued post-search enrichment", "candidate_id", match.ID)
	}
}

func runAddNewCandidate(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
	var payload struct {
		MoveToRecruiting bool              `json:"moveToRecruiting"`
		ProfileData      *candidate.Record `json:"profileData"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode addNewCandidate payload: %w", err)
	}
	rec := payload.ProfileData
	if d.collector != nil {
		if info := d.collector.CollectFullAdditionalInfo(ctx, rec); info != nil {
			rec.Merge(info)
		}
	}
	return d.backend.CreateCandidate(ctx, rec, backend.CreateOptions{MoveToRecruiting: payload.MoveToRecruiting})
}

func runEnrichCandidate(ctx context.Context, d *Dispatcher, env Envelope) (any, error) {
	var rec candidate.Record
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return nil, fmt.Errorf("decode enrichCandidate payload: %w", err)
	}
	payload := rec.ForEnrich()
	// Extended sections are only fetchable when the main profile data came
	// through; a failed sync enriches with the flag alone.
	if payload.LastSyncSuccessful() && d.collector != nil {
		if info := d.collector.CollectFullAdditionalInfo(ctx, payload); info != nil {
			payload.Merge(info)
		}
	}
	return nil, d.backend.EnrichCandidate(ctx, payload)
}
