package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-engine/internal/classify"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/poll"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestClassifyFlags(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "classify",
		"--subject", "Technical interview",
		"--from", "jane@google.com",
		"--body", "Feb 10 3:00 PM https://zoom.us/j/1",
		"--now", "2025-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	var tr classify.Trace
	require.NoError(t, json.Unmarshal([]byte(out), &tr), out)
	assert.True(t, tr.Signal.IsInterview)
	assert.Equal(t, "Google", tr.Signal.Company)

	_, err = os.Stat(filepath.Join(dir, "config.yml"))
	assert.NoError(t, err, "data dir is bootstrapped")
}

func TestClassifyEML(t *testing.T) {
	dir := t.TempDir()
	eml := filepath.Join(dir, "m.eml")
	raw := "Message-ID: <abc@mail>\r\nFrom: Weekly Digest <news@medium.com>\r\nSubject: Top stories\r\n\r\nUnsubscribe any time.\r\n"
	require.NoError(t, os.WriteFile(eml, []byte(raw), 0o644))

	out, err := execute(t, dir, "classify", "--eml", eml)
	require.NoError(t, err)
	var tr classify.Trace
	require.NoError(t, json.Unmarshal([]byte(out), &tr), out)
	assert.False(t, tr.Signal.IsInterview)
}

func TestClassifyNeedsInput(t *testing.T) {
	_, err := execute(t, t.TempDir(), "classify")
	assert.Error(t, err)
}

func TestLexiconDump(t *testing.T) {
	out, err := execute(t, t.TempDir(), "lexicon", "dump")
	require.NoError(t, err)
	assert.Equal(t, string(lexicon.DefaultYAML()), out)
}

func TestCompaniesAndEffectiveLexicon(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "companies", "add", "acme-talent.io", "Acme")
	require.NoError(t, err)

	out, err := execute(t, dir, "companies", "list")
	require.NoError(t, err)
	var rules []lexicon.DomainRule
	require.NoError(t, json.Unmarshal([]byte(out), &rules), out)
	assert.Equal(t, []lexicon.DomainRule{{Domain: "acme-talent.io", Company: "Acme"}}, rules)

	out, err = execute(t, dir, "lexicon", "dump", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, "acme-talent.io")
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "apps.csv")
	_, err := execute(t, dir, "export", "--format", "csv", "-o", dest)
	require.NoError(t, err)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Company,"), string(b))

	_, err = execute(t, dir, "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestScanWithNoSource(t *testing.T) {
	out, err := execute(t, t.TempDir(), "scan", "--dry-run")
	require.NoError(t, err)

	var rep poll.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep), out)
	assert.True(t, rep.DryRun)
	assert.Zero(t, rep.Fetched)
}
