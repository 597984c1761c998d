package lexicon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// Encoding is the character encoding of a word list file.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf8"
	EncodingLatin1 Encoding = "latin1"
)

// ParseEncoding parses an encoding name. The empty string means UTF-8.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso8859-1", "iso-8859-1":
		return EncodingLatin1, nil
	}
	return "", fmt.Errorf("unsupported word list encoding %q", name)
}

// ReadWords reads one word per line. Only the first field of a line is
// used, and it is upper-cased. Blank lines and lines starting with # are
// skipped.
func ReadWords(ctx context.Context, r io.Reader) ([]string, error) {
	words := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words = append(words, strings.ToUpper(fields[0]))
	}
	return words, scanner.Err()
}

// LoadWordList loads the words in the file at path. Files ending in .gz are
// decompressed.
func LoadWordList(ctx context.Context, path string, enc Encoding) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	if enc == EncodingLatin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	words, err := ReadWords(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("words", len(words)).Msg("loaded-word-list")
	return words, nil
}

// LoadWordLists loads several word lists concurrently. The words are
// returned in the order of the paths.
func LoadWordLists(ctx context.Context, paths []string, enc Encoding) ([]string, error) {
	lists := make([][]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			words, err := LoadWordList(ctx, path, enc)
			if err != nil {
				return err
			}
			lists[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	words := make([]string, 0, total)
	for _, l := range lists {
		words = append(words, l...)
	}
	return words, nil
}
