// Package aggregate collects a full candidate record from the profile data
// source: primary info, contact info and the extended history sections.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/voyager"
)

// Sources provides the per-section profile fetches. *voyager.Client
// satisfies it.
type Sources interface {
	ProfileView(ctx context.Context, profileID string) (*voyager.ProfileView, error)
	ContactInfo(ctx context.Context, profileID string) (*voyager.ContactInfo, error)
	Skills(ctx context.Context, profileID string) (*voyager.Collection[voyager.FeaturedSkill], error)
	Educations(ctx context.Context, profileID string) (*voyager.Collection[voyager.Education], error)
	Projects(ctx context.Context, profileID string) (*voyager.Collection[voyager.Project], error)
	Positions(ctx context.Context, profileID string) (*voyager.Collection[voyager.Position], error)
	Certifications(ctx context.Context, profileID string) (*voyager.Collection[voyager.Certification], error)
	Honors(ctx context.Context, profileID string) (*voyager.Collection[voyager.Honor], error)
	Publications(ctx context.Context, profileID string) (*voyager.Collection[voyager.Publication], error)
	Courses(ctx context.Context, profileID string) (*voyager.Collection[voyager.Course], error)
}

// Transliterator converts native-script names to their Latin form.
// *backend.Client satisfies it.
type Transliterator interface {
	TransliterateName(ctx context.Context, firstName, lastName string) (*backend.TransliteratedNames, error)
}

// Collector aggregates candidate records from a profile data source.
type Collector struct {
	sources  Sources
	translit Transliterator
	logger   *slog.Logger
}

// NewCollector creates a Collector. translit may be nil, in which case
// names are kept as collected.
func NewCollector(sources Sources, translit Transliterator, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{sources: sources, translit: translit, logger: logger}
}

// CollectOptions steers a single collection run.
type CollectOptions struct {
	// SkipTransliteration keeps collected names untouched.
	SkipTransliteration bool
}

// CollectCandidate fetches primary and contact info concurrently and
// merges them into one record with the canonical profile URL set. A
// contact-info failure degrades to empty contact fields; a primary-info
// failure fails the whole collection.
func (c *Collector) CollectCandidate(ctx context.Context, profileURL, profileID string, opts CollectOptions) (*candidate.Record, error) {
	var (
		primary *candidate.Record
		contact *candidate.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view, err := c.sources.ProfileView(gctx, profileID)
		if err != nil {
			return fmt.Errorf("profile view: %w", err)
		}
		primary = mainInfo(view)
		return nil
	})
	g.Go(func() error {
		ci, err := c.sources.ContactInfo(gctx, profileID)
		if err != nil {
			c.logger.DebugContext(gctx, "contact info unavailable", "profile_id", profileID, "error", err)
			contact = &candidate.Record{}
			return nil
		}
		contact = contactInfo(ci)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := primary
	rec.Merge(contact)
	rec.LinkedinURL = profileURL

	if !opts.SkipTransliteration && c.translit != nil {
		c.transliterate(ctx, rec)
	}
	return rec, nil
}

// transliterate overwrites the name fields with the backend's Latin form.
// Failures and empty responses keep the collected names.
func (c *Collector) transliterate(ctx context.Context, rec *candidate.Record) {
	res, err := c.translit.TransliterateName(ctx, rec.FirstName, rec.LastName)
	if err != nil || res == nil {
		c.logger.DebugContext(ctx, "transliteration unavailable", "error", err)
		return
	}
	if res.FirstName != "" {
		rec.FirstName = res.FirstName
	}
	if res.LastName != "" {
		rec.LastName = res.LastName
	}
	rec.FirstNameNative = res.FirstNameNative
	rec.LastNameNative = res.LastNameNative
}

// CollectFullAdditionalInfo fetches the extended history sections
// concurrently and waits for all of them regardless of individual
// failures. A failed section yields an empty list for its field. The
// educations fetch only runs when the record's first-page educations were
// truncated (nil slice). The returned partial record never carries an
// error; merge it into the candidate.
func (c *Collector) CollectFullAdditionalInfo(ctx context.Context, rec *candidate.Record) *candidate.Record {
	profileID := rec.PublicIdentifier
	info := &candidate.Record{}

	var wg sync.WaitGroup
	run := func(section string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				c.logger.DebugContext(ctx, "extended section unavailable", "section", section, "profile_id", profileID, "error", err)
			}
		}()
	}

	if rec.Educations == nil {
		run("educations", func() error {
			col, err := c.sources.Educations(ctx, profileID)
			if err != nil {
				info.Educations = []candidate.Education{}
				return err
			}
			info.Educations = educations(col)
			return nil
		})
	}
	run("skills", func() error {
		col, err := c.sources.Skills(ctx, profileID)
		if err != nil {
			info.Skills = []candidate.Skill{}
			return err
		}
		info.Skills = skills(col)
		return nil
	})
	run("projects", func() error {
		col, err := c.sources.Projects(ctx, profileID)
		if err != nil {
			info.Projects = []candidate.Project{}
			return err
		}
		info.Projects = projects(col)
		return nil
	})
	run("positions", func() error {
		col, err := c.sources.Positions(ctx, profileID)
		if err != nil {
			info.Jobs = []candidate.Job{}
			return err
		}
		info.Jobs = jobs(col)
		return nil
	})
	run("certifications", func() error {
		col, err := c.sources.Certifications(ctx, profileID)
		if err != nil {
			info.Certificates = []candidate.Certificate{}
			return err
		}
		info.Certificates = certificates(col)
		return nil
	})
	run("honors", func() error {
		col, err := c.sources.Honors(ctx, profileID)
		if err != nil {
			info.Honors = []candidate.Honor{}
			return err
		}
		info.Honors = honors(col)
		return nil
	})
	run("publications", func() error {
		col, err := c.sources.Publications(ctx, profileID)
		if err != nil {
			info.Publications = []candidate.Publication{}
			return err
		}
		info.Publications = publications(col)
		return nil
	})
	run("courses", func() error {
		col, err := c.sources.Courses(ctx, profileID)
		if err != nil {
			info.Courses = []string{}
			return err
		}
		info.Courses = courses(col)
		return nil
	})

	wg.Wait()
	return info
}
