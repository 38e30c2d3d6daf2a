// Package dictionary memoizes the backend's slow-changing choice-value
// lists: info sources, job family groups, families and profiles.
package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"

	"github.com/talentsync/talentsync/backend"
)

// Source provides the dictionary fetches. *backend.Client satisfies it.
type Source interface {
	InfoSources(ctx context.Context) ([]backend.ChoiceValue, error)
	JobFamilyGroups(ctx context.Context) ([]backend.ChoiceValue, error)
	JobFamilies(ctx context.Context, groupID int) ([]backend.ChoiceValue, error)
	JobProfiles(ctx context.Context, groupID, familyID int) ([]backend.ChoiceValue, error)
}

const dictionaryTTL = time.Hour

// Provider serves memoized dictionaries. A failed fetch memoizes an empty
// list, so one backend hiccup does not turn into a request per lookup.
type Provider struct {
	source Source
	cache  *sfcache.TieredCache[string, []byte]
	logger *slog.Logger
}

// NewProvider creates a Provider with an in-memory cache.
func NewProvider(source Source, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		return nil, fmt.Errorf("dictionary cache: %w", err)
	}
	return &Provider{source: source, cache: cache, logger: logger}, nil
}

func (p *Provider) get(ctx context.Context, key string, fetch func(context.Context) ([]backend.ChoiceValue, error)) []backend.ChoiceValue {
	data, err := p.cache.GetSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		values, fetchErr := fetch(ctx)
		if fetchErr != nil {
			p.logger.WarnContext(ctx, "dictionary fetch failed", "dictionary", key, "error", fetchErr)
			values = []backend.ChoiceValue{}
		}
		return json.Marshal(values)
	}, dictionaryTTL)
	if err != nil {
		return []backend.ChoiceValue{}
	}
	var values []backend.ChoiceValue
	if err := json.Unmarshal(data, &values); err != nil {
		return []backend.ChoiceValue{}
	}
	return values
}

// InfoSources returns the candidate info source dictionary.
func (p *Provider) InfoSources(ctx context.Context) []backend.ChoiceValue {
	return p.get(ctx, "infoSources", p.source.InfoSources)
}

// JobFamilyGroups returns the job family group dictionary.
func (p *Provider) JobFamilyGroups(ctx context.Context) []backend.ChoiceValue {
	return p.get(ctx, "jobFamilyGroups", p.source.JobFamilyGroups)
}

// JobFamilies returns the job families of a group; groupID 0 means the
// unscoped list.
func (p *Provider) JobFamilies(ctx context.Context, groupID int) []backend.ChoiceValue {
	key := fmt.Sprintf("jobFamilies_%d", groupID)
	return p.get(ctx, key, func(ctx context.Context) ([]backend.ChoiceValue, error) {
		return p.source.JobFamilies(ctx, groupID)
	})
}

// JobProfiles returns the job profiles of a family within a group.
func (p *Provider) JobProfiles(ctx context.Context, groupID, familyID int) []backend.ChoiceValue {
	key := fmt.Sprintf("jobProfiles_%d_%d", groupID, familyID)
	return p.get(ctx, key, func(ctx context.Context) ([]backend.ChoiceValue, error) {
		return p.source.JobProfiles(ctx, groupID, familyID)
	})
}
