package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultSubject = "pangrams.solutions"

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes each record as JSON on a subject.
type NATSSink struct {
	pub     publisher
	conn    *nats.Conn
	subject string
	retries uint
}

// DialNATS connects to a NATS server, retrying with backoff while the
// server is unavailable.
func DialNATS(ctx context.Context, url, subject string) (*NATSSink, error) {
	logger := zerolog.Ctx(ctx)
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	s := newNATS(nc, subject)
	s.conn = nc
	return s, nil
}

func newNATS(pub publisher, subject string) *NATSSink {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSink{pub: pub, subject: subject, retries: 3}
}

func (s *NATSSink) Write(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			return s.pub.Publish(s.subject, data)
		},
		retry.Context(ctx),
		retry.Attempts(s.retries),
		retry.Delay(10*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("subject", s.subject).Msg("publish-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Drain()
}
