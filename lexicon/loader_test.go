package lexicon

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadWords(t *testing.T) {
	words, err := ReadWords(context.Background(), strings.NewReader("bad\n\n# comment\nrig 12\n  Big  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"BAD", "RIG", "BIG"}, words)
}

func TestLoadWordListGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("quiz\njump\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := writeFile(t, "words.txt.gz", buf.Bytes())

	words, err := LoadWordList(context.Background(), path, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, []string{"QUIZ", "JUMP"}, words)
}

func TestLoadWordListLatin1(t *testing.T) {
	// "año" in ISO-8859-1
	path := writeFile(t, "es.txt", []byte{'a', 0xf1, 'o', '\n'})
	words, err := LoadWordList(context.Background(), path, EncodingLatin1)
	require.NoError(t, err)
	assert.Equal(t, []string{"AÑO"}, words)
}

func TestLoadWordListMissing(t *testing.T) {
	_, err := LoadWordList(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), EncodingUTF8)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWordListsKeepsOrder(t *testing.T) {
	p1 := writeFile(t, "one.txt", []byte("bad\nrig\n"))
	p2 := writeFile(t, "two.txt", []byte("big\n"))
	words, err := LoadWordLists(context.Background(), []string{p2, p1}, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, []string{"BIG", "BAD", "RIG"}, words)

	_, err = LoadWordLists(context.Background(), []string{p1, p1 + ".missing"}, EncodingUTF8)
	assert.Error(t, err)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, enc)
	enc, err = ParseEncoding("ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, EncodingLatin1, enc)
	_, err = ParseEncoding("ebcdic")
	assert.Error(t, err)
}
