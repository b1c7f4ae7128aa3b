package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-engine/internal/domain"
)

func TestDefaultCompiles(t *testing.T) {
	lx := Default()
	require.NotNil(t, lx)

	assert.Greater(t, lx.HardNegative.Len(), 0)
	assert.Greater(t, lx.ATSDomains.Len(), 0)
	assert.Len(t, lx.Stages, 5)
	assert.Equal(t, domain.StageAssessment, lx.Stages[0].Stage)
	assert.Equal(t, domain.StageScheduling, lx.Stages[4].Stage)
	assert.NotEmpty(t, lx.MeetingLinks)
	assert.Same(t, lx, Default())
}

func TestSetMatching(t *testing.T) {
	set, err := compileSet("test", []string{"Phone Screen", `re:\boa\b`, "take-home"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		text  string
		any   bool
		first string
		count int
	}{
		{"substring ignores case", "Your PHONE screen is booked", true, "Phone Screen", 1},
		{"regex word boundary", "Please finish the OA by Friday", true, `re:\boa\b`, 1},
		{"regex does not match inside words", "Welcome aboard", false, "", 0},
		{"counts distinct terms", "phone screen then a take-home and the oa", true, "Phone Screen", 3},
		{"empty text", "", false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.any, set.Any(tt.text))
			first, _ := set.First(tt.text)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.count, set.Count(tt.text))
		})
	}

	var zero Set
	assert.False(t, zero.Any("anything"))
}

func TestCompileRejectsBadTerms(t *testing.T) {
	s := Default().Spec()
	s.RoleWords = append(s.RoleWords, "re:(unclosed")
	_, err := Compile(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role_words")

	s = Default().Spec()
	s.Veto = append(s.Veto, "   ")
	_, err = Compile(s)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Default().Spec()
	require.NoError(t, Validate(s))

	s.Stages = append(s.Stages, StageRule{Stage: domain.StageUnclassified, Any: []string{"x"}})
	s.Months["smarch"] = 13
	s.CompanyDomains = append(s.CompanyDomains, DomainRule{Domain: "acme.com"})

	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a classifiable stage")
	assert.Contains(t, err.Error(), "smarch")
	assert.Contains(t, err.Error(), "company_domains")
}

func TestMonth(t *testing.T) {
	lx := Default()
	for name, want := range map[string]int{"Feb": 2, "feb.": 2, "SEPTEMBER": 9, "sept": 9, "dec": 12} {
		got, ok := lx.Month(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := lx.Month("febr")
	assert.False(t, ok)
	assert.Regexp(t, `^september\|`, lx.MonthPattern())
}

func TestLoad(t *testing.T) {
	lx, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), lx)

	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
stages:
  - stage: Assessment
    any: [quiz]
months: {jan: 1}
`), 0o644))

	lx, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, lx.Stages, 1)
	assert.True(t, lx.Stages[0].Cues.Any("Quiz time"))

	_, err = Load(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
}

func TestOverlayCompanies(t *testing.T) {
	dir := t.TempDir()
	s := Default().Spec()
	before := len(s.CompanyDomains)

	require.NoError(t, OverlayCompanies(&s, filepath.Join(dir, "missing.yml")))
	assert.Len(t, s.CompanyDomains, before)

	path := filepath.Join(dir, "companies.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
company_domains:
  - {domain: acme.io, company: Acme}
known_companies: [Initech]
`), 0o644))
	require.NoError(t, OverlayCompanies(&s, path))
	assert.Equal(t, "acme.io", s.CompanyDomains[0].Domain)
	assert.Equal(t, "Initech", s.KnownCompanies[0])

	_, err := Compile(s)
	require.NoError(t, err)
}
