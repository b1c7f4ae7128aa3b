// Package lexicon holds the keyword, phrase and pattern tables the classifier
// runs on. A Lexicon is compiled once and never mutated.
package lexicon

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"

	"interview-engine/internal/domain"
)

type StageRule struct {
	Stage domain.Stage `yaml:"stage"`
	Any   []string     `yaml:"any"`
}

type DomainRule struct {
	Domain  string `yaml:"domain" json:"domain"`
	Company string `yaml:"company" json:"company"`
}

// Spec is the YAML form of a lexicon.
type Spec struct {
	HardNegative        []string       `yaml:"hard_negative"`
	BulkSenders         []string       `yaml:"bulk_senders"`
	BodyNegative        []string       `yaml:"body_negative"`
	Veto                []string       `yaml:"veto"`
	ATSDomains          []string       `yaml:"ats_domains"`
	AssessmentProviders []string       `yaml:"assessment_providers"`
	RecruitingPhrases   []string       `yaml:"recruiting_phrases"`
	SchedulingPhrases   []string       `yaml:"scheduling_phrases"`
	RoleWords           []string       `yaml:"role_words"`
	Stages              []StageRule    `yaml:"stages"`
	MeetingLinks        []string       `yaml:"meeting_links"`
	Months              map[string]int `yaml:"months"`
	CompanyDomains      []DomainRule   `yaml:"company_domains"`
	KnownCompanies      []string       `yaml:"known_companies"`
}

type StageMatcher struct {
	Stage domain.Stage
	Cues  Set
}

type KnownCompany struct {
	Name string
	re   *regexp.Regexp
}

func (k KnownCompany) In(text string) bool { return k.re.MatchString(text) }

type Lexicon struct {
	spec Spec

	HardNegative        Set
	BulkSenders         Set
	BodyNegative        Set
	Veto                Set
	ATSDomains          Set
	AssessmentProviders Set
	RecruitingPhrases   Set
	SchedulingPhrases   Set
	RoleWords           Set

	Stages         []StageMatcher
	MeetingLinks   []*regexp.Regexp
	CompanyDomains []DomainRule
	KnownCompanies []KnownCompany

	months   map[string]int
	monthAlt string
}

// Compile validates s and builds the matchers.
func Compile(s Spec) (*Lexicon, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	lx := &Lexicon{spec: s, months: map[string]int{}}

	sets := []struct {
		name  string
		terms []string
		dst   *Set
	}{
		{"hard_negative", s.HardNegative, &lx.HardNegative},
		{"bulk_senders", s.BulkSenders, &lx.BulkSenders},
		{"body_negative", s.BodyNegative, &lx.BodyNegative},
		{"veto", s.Veto, &lx.Veto},
		{"ats_domains", s.ATSDomains, &lx.ATSDomains},
		{"assessment_providers", s.AssessmentProviders, &lx.AssessmentProviders},
		{"recruiting_phrases", s.RecruitingPhrases, &lx.RecruitingPhrases},
		{"scheduling_phrases", s.SchedulingPhrases, &lx.SchedulingPhrases},
		{"role_words", s.RoleWords, &lx.RoleWords},
	}
	for _, st := range sets {
		set, err := compileSet(st.name, st.terms)
		if err != nil {
			return nil, err
		}
		*st.dst = set
	}

	for i, r := range s.Stages {
		cues, err := compileSet(fmt.Sprintf("stages[%d]", i), r.Any)
		if err != nil {
			return nil, err
		}
		lx.Stages = append(lx.Stages, StageMatcher{Stage: r.Stage, Cues: cues})
	}

	for i, p := range s.MeetingLinks {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("meeting_links[%d]: %w", i, err)
		}
		lx.MeetingLinks = append(lx.MeetingLinks, re)
	}

	for _, d := range s.CompanyDomains {
		lx.CompanyDomains = append(lx.CompanyDomains, DomainRule{
			Domain:  strings.ToLower(strings.TrimSpace(d.Domain)),
			Company: strings.TrimSpace(d.Company),
		})
	}

	for _, name := range s.KnownCompanies {
		name = strings.TrimSpace(name)
		lx.KnownCompanies = append(lx.KnownCompanies, KnownCompany{
			Name: name,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}

	names := make([]string, 0, len(s.Months))
	for name, n := range s.Months {
		name = strings.ToLower(strings.TrimSpace(name))
		lx.months[name] = n
		names = append(names, name)
	}
	// longest first so "september" wins over "sep"
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	lx.monthAlt = strings.Join(quoted, "|")

	return lx, nil
}

// Validate checks a Spec without compiling it.
func Validate(s Spec) error {
	var errs []error

	if len(s.Stages) == 0 {
		errs = append(errs, errors.New("stages must have at least 1 rule"))
	}
	for i, r := range s.Stages {
		if !r.Stage.Valid() || r.Stage == domain.StageUnclassified {
			errs = append(errs, fmt.Errorf("stages[%d].stage %q is not a classifiable stage", i, r.Stage))
		}
		if len(r.Any) == 0 {
			errs = append(errs, fmt.Errorf("stages[%d].any must have at least 1 term", i))
		}
	}
	if len(s.Months) == 0 {
		errs = append(errs, errors.New("months must not be empty"))
	}
	for name, n := range s.Months {
		if n < 1 || n > 12 {
			errs = append(errs, fmt.Errorf("months[%s] = %d, want 1..12", name, n))
		}
	}
	for i, d := range s.CompanyDomains {
		if strings.TrimSpace(d.Domain) == "" || strings.TrimSpace(d.Company) == "" {
			errs = append(errs, fmt.Errorf("company_domains[%d] needs domain and company", i))
		}
	}
	for i, c := range s.KnownCompanies {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, fmt.Errorf("known_companies[%d] cannot be empty", i))
		}
	}

	return errors.Join(errs...)
}

// Spec returns a copy of the source tables.
func (lx *Lexicon) Spec() Spec {
	s := lx.spec
	out := Spec{
		HardNegative:        slices.Clone(s.HardNegative),
		BulkSenders:         slices.Clone(s.BulkSenders),
		BodyNegative:        slices.Clone(s.BodyNegative),
		Veto:                slices.Clone(s.Veto),
		ATSDomains:          slices.Clone(s.ATSDomains),
		AssessmentProviders: slices.Clone(s.AssessmentProviders),
		RecruitingPhrases:   slices.Clone(s.RecruitingPhrases),
		SchedulingPhrases:   slices.Clone(s.SchedulingPhrases),
		RoleWords:           slices.Clone(s.RoleWords),
		MeetingLinks:        slices.Clone(s.MeetingLinks),
		Months:              maps.Clone(s.Months),
		CompanyDomains:      slices.Clone(s.CompanyDomains),
		KnownCompanies:      slices.Clone(s.KnownCompanies),
	}
	for _, r := range s.Stages {
		out.Stages = append(out.Stages, StageRule{Stage: r.Stage, Any: slices.Clone(r.Any)})
	}
	return out
}

// Month resolves a month name or abbreviation (any case, optional trailing dot).
func (lx *Lexicon) Month(name string) (int, bool) {
	n, ok := lx.months[strings.TrimSuffix(strings.ToLower(name), ".")]
	return n, ok
}

// MonthPattern is a regexp alternation of every month name, longest first.
func (lx *Lexicon) MonthPattern() string { return lx.monthAlt }
