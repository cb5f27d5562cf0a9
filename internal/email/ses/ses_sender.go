package ses

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"jwtauth/internal/config"
	"jwtauth/internal/port"
)

// sendEmailAPI is the part of the SES v2 client used by the sender.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      sendEmailAPI
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, cfg *config.EmailConfig) (port.EmailSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newSender(client sendEmailAPI, cfg *config.EmailConfig) *sesSender {
	return &sesSender{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		frontendURL: cfg.FrontendURL,
	}
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	subject := fmt.Sprintf("Welcome to %s", s.fromName)
	htmlBody := buildWelcomeHTML(toName, s.fromName, s.frontendURL)
	textBody := fmt.Sprintf("Hi %s,\n\nYour account has been created with your Google sign-in. You can sign in any time at:\n%s\n\n%s Team",
		toName, s.frontendURL, s.fromName)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildWelcomeHTML(name, product, signInURL string) string {
	name = html.EscapeString(name)
	product = html.EscapeString(product)
	signInURL = html.EscapeString(signInURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome to %s</h2>
  <p>Hi %s,</p>
  <p>Your account has been created with your Google sign-in. There is no password to remember.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Sign In</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">If you did not sign up, you can safely ignore this email.</p>
</body>
</html>`, product, name, signInURL)
}
