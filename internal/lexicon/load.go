package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in lexicon. It panics if the embedded tables are
// broken, which the package tests guard against.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lx, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded default: %v", err))
		}
		defaultLex = lx
	})
	return defaultLex
}

// DefaultYAML returns the embedded default tables.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

func Parse(b []byte) (*Lexicon, error) {
	var s Spec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return Compile(s)
}

// Load reads a lexicon file. An empty path means the built-in default.
func Load(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return Parse(b)
}

type CompaniesFile struct {
	CompanyDomains []DomainRule `yaml:"company_domains"`
	KnownCompanies []string     `yaml:"known_companies"`
}

// OverlayCompanies puts the domain mappings and names from a companies file
// in front of the ones already in s. A missing file is not an error.
func OverlayCompanies(s *Spec, companiesPath string) error {
	b, err := os.ReadFile(companiesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var cf CompaniesFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return fmt.Errorf("parse %s: %w", companiesPath, err)
	}

	if len(cf.CompanyDomains) > 0 {
		s.CompanyDomains = append(append([]DomainRule{}, cf.CompanyDomains...), s.CompanyDomains...)
	}
	if len(cf.KnownCompanies) > 0 {
		s.KnownCompanies = append(append([]string{}, cf.KnownCompanies...), s.KnownCompanies...)
	}
	return nil
}
