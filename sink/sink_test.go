package sink

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/search"
	"github.com/domino14/pangrammer/stats"
)

func testRecords(t *testing.T) []Record {
	alph, err := alphabet.New("ABDGIR")
	require.NoError(t, err)
	dict := lexicon.Compile(alph, []string{"A", "I", "BIG", "BAD", "AD", "RIG"}, 1)
	cfg := search.DefaultConfig()
	cfg.MatchThreshold = 1
	s := search.New(dict, stats.NewCorpus(alph, dict.Keys()), cfg)
	require.NoError(t, s.Run(context.Background()))
	require.Len(t, s.Solutions(), 3)

	var recs []Record
	for _, sol := range s.Solutions() {
		recs = append(recs, NewRecord(sol, dict))
	}
	return recs
}

func TestNewRecord(t *testing.T) {
	recs := testRecords(t)
	var perfect *Record
	for i := range recs {
		if recs[i].Signature == "ABD;GIR" {
			perfect = &recs[i]
		}
	}
	require.NotNil(t, perfect)
	assert.True(t, perfect.Perfect())
	assert.ElementsMatch(t, []string{"BAD", "RIG"}, perfect.Words)
	assert.ElementsMatch(t, []string{"ABD", "GIR"}, perfect.LetterSets)
	assert.NotEmpty(t, perfect.ID)
}

func TestYAMLStream(t *testing.T) {
	recs := testRecords(t)
	var buf bytes.Buffer
	s := NewYAML(&buf)
	for _, r := range recs {
		require.NoError(t, s.Write(context.Background(), r))
	}
	require.NoError(t, s.Close())

	back, err := ReadYAML(&buf)
	require.NoError(t, err)
	require.Len(t, back, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].Signature, back[i].Signature)
		assert.Equal(t, recs[i].Words, back[i].Words)
		assert.Equal(t, recs[i].Leftover, back[i].Leftover)
	}

	empty, err := ReadYAML(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	recs := testRecords(t)
	path := filepath.Join(t.TempDir(), "solutions.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)

	for _, r := range recs {
		require.NoError(t, s.Write(ctx, r))
	}
	require.NoError(t, s.Write(ctx, recs[0]))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)

	one, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, len(recs))
	sigs := make([]string, len(all))
	for i, r := range all {
		sigs[i] = r.Signature
	}
	assert.ElementsMatch(t, []string{"ABD;GIR", "AD;BGI", "AD;GIR"}, sigs)
	require.NoError(t, s.Close())

	// Reopening keeps what was stored.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)
}

func TestOpenByExtension(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "out.yaml"))
	require.NoError(t, err)
	assert.IsType(t, &YAMLSink{}, s)
	require.NoError(t, s.Close())

	s, err = Open(filepath.Join(dir, "out.sqlite"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, s)
	require.NoError(t, s.Close())

	_, err = Open(filepath.Join(dir, "out.csv"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadBack(t *testing.T) {
	ctx := context.Background()
	recs := testRecords(t)
	dir := t.TempDir()
	for _, name := range []string{"out.yaml", "out.db"} {
		path := filepath.Join(dir, name)
		s, err := Open(path)
		require.NoError(t, err)
		for _, r := range recs {
			require.NoError(t, s.Write(ctx, r))
		}
		require.NoError(t, s.Close())

		all, total, err := Read(ctx, path, 0)
		require.NoError(t, err, name)
		assert.Equal(t, len(recs), total, name)
		assert.Len(t, all, len(recs), name)

		two, total, err := Read(ctx, path, 2)
		require.NoError(t, err, name)
		assert.Equal(t, len(recs), total, name)
		assert.Len(t, two, 2, name)
	}

	_, _, err := Read(ctx, filepath.Join(dir, "missing.db"), 0)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "missing.db"))

	_, _, err = Read(ctx, filepath.Join(dir, "out.csv"), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

type flakyPublisher struct {
	failures int
	subjects []string
	data     [][]byte
}

func (p *flakyPublisher) Publish(subject string, data []byte) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("nats: connection closed")
	}
	p.subjects = append(p.subjects, subject)
	p.data = append(p.data, data)
	return nil
}

func TestNATSRetriesPublish(t *testing.T) {
	recs := testRecords(t)
	pub := &flakyPublisher{failures: 2}
	s := newNATS(pub, "")
	require.NoError(t, s.Write(context.Background(), recs[0]))
	assert.Equal(t, []string{DefaultSubject}, pub.subjects)
	assert.Contains(t, string(pub.data[0]), recs[0].Signature)
	require.NoError(t, s.Close())

	pub = &flakyPublisher{failures: 10}
	s = newNATS(pub, "custom")
	assert.Error(t, s.Write(context.Background(), recs[0]))
	assert.Empty(t, pub.subjects)
}

type failingSink struct{ writes int }

func (f *failingSink) Write(context.Context, Record) error {
	f.writes++
	return errors.New("disk full")
}

func (f *failingSink) Close() error { return nil }

func TestMultiKeepsWriting(t *testing.T) {
	recs := testRecords(t)
	var buf bytes.Buffer
	bad := &failingSink{}
	m := Multi{bad, NewYAML(&buf)}
	err := m.Write(context.Background(), recs[0])
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, bad.writes)
	assert.Contains(t, buf.String(), recs[0].Signature)
	assert.NoError(t, m.Close())
}
