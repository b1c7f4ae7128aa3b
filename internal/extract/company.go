package extract

import (
	"regexp"
	"strings"

	"interview-engine/internal/domain"
)

// MaxCompanyLen caps subject-derived names so a whole sentence is never taken
// for a company.
const MaxCompanyLen = 35

const capPhrase = `([A-Z][A-Za-z0-9&.\-]*(?:[ \t]+[A-Z][A-Za-z0-9&.\-]*)*)`

var (
	isHiringRe = regexp.MustCompile(`\b` + capPhrase + `\s+(?i:is\s+hiring)\b`)
	atFromRe   = regexp.MustCompile(`\b(?i:at|from)\s+` + capPhrase)
)

// Company resolves the organization behind a message: sender domain table,
// then subject phrasing, then well-known names, then domain.UnknownCompany.
func (x *Extractor) Company(sender, subject string) string {
	if dom := SenderDomain(sender); dom != "" {
		for _, r := range x.lex.CompanyDomains {
			if strings.Contains(dom, r.Domain) {
				return r.Company
			}
		}
	}

	for _, re := range []*regexp.Regexp{isHiringRe, atFromRe} {
		if m := re.FindStringSubmatch(subject); m != nil {
			if c := cleanCompany(m[1]); c != "" {
				return c
			}
		}
	}

	text := subject + " " + sender
	for _, k := range x.lex.KnownCompanies {
		if k.In(text) {
			return k.Name
		}
	}

	return domain.UnknownCompany
}

func cleanCompany(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".-&")
	if len(s) < 2 || len(s) > MaxCompanyLen {
		return ""
	}
	return s
}
