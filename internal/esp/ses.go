// Package esp integrates with the email service provider used for test
// sends. Production delivery runs through the managed backend; the console
// only sends single preview messages straight through SES.
package esp

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

// sesAPI is the slice of the SES v2 client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender sends campaign previews through AWS SES v2.
type Sender struct {
	client    sesAPI
	fromEmail string
	log       *logger.Logger
}

// NewSender creates an SES-backed preview sender.
func NewSender(ctx context.Context, cfg appconfig.SESConfig) (*Sender, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Sender{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		log:       logger.With("esp"),
	}, nil
}

// SendTest delivers the campaign content to a single recipient. The subject
// is prefixed so a stray preview is never mistaken for the real send.
func (s *Sender) SendTest(ctx context.Context, c *domain.Campaign, recipient string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient is required")
	}

	from := c.FromEmail
	if from == "" {
		from = s.fromEmail
	}
	fromHeader := from
	if c.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", c.FromName, from)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromHeader),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: aws.String("[TEST] " + c.Subject),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data: aws.String(c.HTMLContent),
					},
				},
			},
		},
	}
	if c.ReplyTo != "" {
		input.ReplyToAddresses = []string{c.ReplyTo}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sending test email: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	s.log.Info("test email sent", "campaign_id", c.ID, "message_id", messageID)
	return messageID, nil
}
