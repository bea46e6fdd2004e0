package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/internal/kpis"
)

const (
	clashFeed = `{"clashes":[
		{"id":"c1","groupId":"g1","distance":0.005,"location":{"x":1,"y":2,"z":3,"level":"L01"}},
		{"id":"c2","groupId":"g1","distance":0.03},
		{"id":"c3","distance":0.5}
	]}`
	instanceFeed = `{"instances":[
		{"cid":"c1","ldid":1,"loid":"A","lvid":11,"name":"Duct-1","category":"Ducts"},
		{"cid":"c1","rdid":2,"roid":"B","rvid":22},
		{"cid":"c2","ldid":1,"loid":"C","lvid":13,"category":"Pipes"},
		{"cid":"c2","rdid":2,"roid":"D","rvid":24}
	]}`
	documentFeed = `{"documents":[
		{"id":1,"urn":"docA","discipline":"MEP"},
		{"id":2,"urn":"docB","discipline":"Structure"}
	]}`
)

func writeFeeds(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))
		return path
	}

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(instanceFeed))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return []string{
		"--clashes", write("clashes.json", []byte(clashFeed)),
		"--instances", write("instances.json.gz", gz.Bytes()),
		"--documents", write("documents.json", []byte(documentFeed)),
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestJoin(t *testing.T) {
	out, errOut, err := run(t, append([]string{"join", "--project", "p1"}, writeFeeds(t)...)...)
	require.NoError(t, err)

	var got []clashes.Clash
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, clashes.SeverityHigh, got[0].Severity)
	assert.Equal(t, clashes.SeverityMedium, got[1].Severity)
	assert.Contains(t, errOut, "skipped 1 record(s)")
}

func TestJoinRequiresFeeds(t *testing.T) {
	_, _, err := run(t, "join", "--clashes", "x.json")
	assert.ErrorContains(t, err, "required")
}

func TestKPIs(t *testing.T) {
	out, _, err := run(t, append([]string{"kpis"}, writeFeeds(t)...)...)
	require.NoError(t, err)

	var summary kpis.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.TotalClashes)
	assert.Equal(t, 1, summary.BySeverity.High)
}

func TestKPIsMock(t *testing.T) {
	out, _, err := run(t, "kpis", "--mock", "25", "--seed", "7")
	require.NoError(t, err)

	var summary kpis.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 25, summary.TotalClashes)
}

func TestQuery(t *testing.T) {
	out, _, err := run(t, "query", "--mock", "30", "--seed", "3", "--severity", "high,low", "--page-size", "5")
	require.NoError(t, err)

	var page clashes.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.LessOrEqual(t, len(page.Clashes), 5)
	for _, c := range page.Clashes {
		assert.Contains(t, []clashes.Severity{clashes.SeverityHigh, clashes.SeverityLow}, c.Severity)
	}

	_, _, err = run(t, "query", "--mock", "5", "--severity", "critical")
	assert.ErrorIs(t, err, clashes.ErrInvalidFilter)
}

func TestThresholdValidation(t *testing.T) {
	_, _, err := run(t, append([]string{"join", "--high", "0.1", "--medium", "0.05"}, writeFeeds(t)...)...)
	assert.ErrorContains(t, err, "thresholds")
}
