// Package ses delivers messages through the Amazon SES v2 API.
package ses

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/charmbracelet/log"

	"github.com/zostay/go-postal/view"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// SendEmailAPI is the part of the SES v2 client the Sender uses.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Config holds what is needed to create an SES client. Credentials left blank
// are found the usual AWS way.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	// ConfigurationSet is passed to SES when set.
	ConfigurationSet string
}

// Sender sends each message to SES as a raw MIME message, retrying failures
// with exponential backoff.
type Sender struct {
	client     SendEmailAPI
	configSet  string
	maxRetries int
	retryDelay time.Duration
	logger     *log.Logger
}

// Option configures a Sender.
type Option func(*Sender)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Sender) {
		s.logger = l
	}
}

// WithRetry sets how many times a failed send is retried and the delay
// before the first retry. The delay doubles on each later retry.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(s *Sender) {
		s.maxRetries = maxRetries
		s.retryDelay = delay
	}
}

// WithConfigurationSet names the SES configuration set to send with.
func WithConfigurationSet(name string) Option {
	return func(s *Sender) {
		s.configSet = name
	}
}

// New loads the AWS configuration and returns a Sender using an SES client.
func New(ctx context.Context, cfg Config, opts ...Option) (*Sender, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if cfg.ConfigurationSet != "" {
		opts = append([]Option{WithConfigurationSet(cfg.ConfigurationSet)}, opts...)
	}

	return NewWithClient(sesv2.NewFromConfig(awsCfg), opts...), nil
}

// NewWithClient returns a Sender using the given client.
func NewWithClient(client SendEmailAPI, opts ...Option) *Sender {
	s := &Sender{
		client:     client,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		logger:     log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns "ses".
func (s *Sender) Name() string {
	return "ses"
}

// Send delivers msg to every To, Cc, and Bcc recipient.
func (s *Sender) Send(ctx context.Context, msg *view.Message) error {
	raw, err := msg.Bytes()
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: msg.Recipients(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}

	if from := msg.EnvelopeFrom(); from != "" {
		input.FromEmailAddress = aws.String(from)
	}

	if s.configSet != "" {
		input.ConfigurationSetName = aws.String(s.configSet)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(s.retryDelay, attempt)
			s.logger.Debug("retrying SES send", "attempt", attempt, "delay", delay)

			select {
			case <-ctx.Done():
				return fmt.Errorf("waiting to retry: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		out, err := s.client.SendEmail(ctx, input)
		if err == nil {
			s.logger.Debug("delivered over ses", "message-id", aws.ToString(out.MessageId))
			return nil
		}

		lastErr = err
		s.logger.Warn("SES send failed", "attempt", attempt, "error", err)
	}

	return fmt.Errorf("SES send failed after %d retries: %w", s.maxRetries, lastErr)
}

func backoff(base time.Duration, attempt int) time.Duration {
	return base << (attempt - 1)
}
