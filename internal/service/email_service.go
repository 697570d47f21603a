package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional email via Amazon SES
type EmailService struct {
	client           *sesv2.Client
	fromEmail        string
	fromName         string
	partnershipEmail string
	appBaseURL       string
	enabled          bool
}

// NewEmailService creates a new email service. An empty fromEmail yields
// a disabled service that logs instead of sending, so local development
// needs no AWS credentials.
func NewEmailService(awsRegion, fromEmail, fromName, partnershipEmail, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:           sesv2.NewFromConfig(cfg),
		fromEmail:        fromEmail,
		fromName:         fromName,
		partnershipEmail: partnershipEmail,
		appBaseURL:       appBaseURL,
		enabled:          true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// PartnershipRequest is a partnership inquiry submitted through the
// contact form
type PartnershipRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization" validate:"max=200"`
	Phone        string `json:"phone" validate:"max=30"`
	Message      string `json:"message" validate:"required,max=5000"`
}

// SendPartnershipNotification forwards a partnership inquiry to the
// partnerships inbox
func (s *EmailService) SendPartnershipNotification(ctx context.Context, req PartnershipRequest) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): partnership inquiry from %s", req.Email)
		return nil
	}
	if s.partnershipEmail == "" {
		log.Printf("Skipping partnership notification: PARTNERSHIP_EMAIL not configured")
		return nil
	}

	subject := fmt.Sprintf("New Partnership Inquiry from %s", req.Name)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #58a05c; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.field { margin-bottom: 10px; }
		.label { font-weight: bold; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>New Partnership Inquiry</h1>
		</div>
		<div class="content">
			<div class="field"><span class="label">Name:</span> %s</div>
			<div class="field"><span class="label">Email:</span> %s</div>
			<div class="field"><span class="label">Organization:</span> %s</div>
			<div class="field"><span class="label">Phone:</span> %s</div>
			<div class="field"><span class="label">Message:</span></div>
			<p>%s</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(req.Name), html.EscapeString(req.Email),
		html.EscapeString(req.Organization), html.EscapeString(req.Phone),
		html.EscapeString(req.Message))

	textBody := fmt.Sprintf(`New partnership inquiry

Name: %s
Email: %s
Organization: %s
Phone: %s

Message:
%s
`, req.Name, req.Email, req.Organization, req.Phone, req.Message)

	return s.sendEmail(ctx, s.partnershipEmail, subject, htmlBody, textBody)
}

// SendPartnershipConfirmation acknowledges a partnership inquiry to the
// person who sent it
func (s *EmailService) SendPartnershipConfirmation(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): partnership confirmation to %s", toEmail)
		return nil
	}

	subject := "We received your partnership inquiry"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #58a05c; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Thanks for reaching out!</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>We received your partnership inquiry and our team will get back to you within a few business days.</p>
			<p>In the meantime, feel free to explore the games at <a href="%s">%s</a>.</p>
		</div>
		<div class="footer">
			<p>This is an automated email. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(toName), s.appBaseURL, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

We received your partnership inquiry and our team will get back to you within a few business days.

In the meantime, feel free to explore the games at %s.

---
This is an automated email. Please do not reply.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
