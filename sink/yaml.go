package sink

import (
	"bufio"
	"context"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLSink appends each record as a one-element list, so the stream as a
// whole reads back as a single YAML sequence.
type YAMLSink struct {
	w      *bufio.Writer
	closer io.Closer
}

func NewYAML(w io.Writer) *YAMLSink {
	return &YAMLSink{w: bufio.NewWriter(w)}
}

func CreateYAML(path string) (*YAMLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := NewYAML(f)
	s.closer = f
	return s, nil
}

func (s *YAMLSink) Write(_ context.Context, r Record) error {
	out, err := yaml.Marshal([]Record{r})
	if err != nil {
		return err
	}
	if _, err := s.w.Write(out); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *YAMLSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// ReadYAML reads back a stream written by a YAMLSink.
func ReadYAML(r io.Reader) ([]Record, error) {
	var out []Record
	err := yaml.NewDecoder(r).Decode(&out)
	if err == io.EOF {
		return nil, nil
	}
	return out, err
}
