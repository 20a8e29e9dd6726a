package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerdeck/careerdeck/internal/email"
	"github.com/careerdeck/careerdeck/internal/recruiter"
	"github.com/careerdeck/careerdeck/internal/searchapi"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

// Drafter produces an outreach message for a recruiter lead.
type Drafter interface {
	DraftOutreach(ctx context.Context, req searchapi.OutreachDraftRequest) (searchapi.OutreachDraft, error)
}

type Service struct {
	drafter     Drafter
	emailClient email.Client
}

func NewService(drafter Drafter, emailClient email.Client) *Service {
	return &Service{drafter: drafter, emailClient: emailClient}
}

// Draft asks the upstream API for an outreach message tailored to the
// lead and the candidate's resume summary. The returned body is markdown.
func (s *Service) Draft(ctx context.Context, lead recruiter.Lead, role, tone, resumeSummary string) (searchapi.OutreachDraft, error) {
	draft, err := s.drafter.DraftOutreach(ctx, searchapi.OutreachDraftRequest{
		RecruiterName:    lead.Name,
		RecruiterCompany: lead.Company,
		Role:             role,
		Tone:             tone,
		ResumeSummary:    resumeSummary,
	})
	if err != nil {
		return searchapi.OutreachDraft{}, errors.Wrap(err, "unable to draft outreach message")
	}
	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.BodyMarkdown = strings.TrimSpace(draft.BodyMarkdown)
	return draft, nil
}

// RenderHTML converts the markdown draft body into sanitised HTML
// suitable for sending by email.
func RenderHTML(markdown string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	unsafe := blackfriday.Run([]byte(markdown), blackfriday.WithRenderer(renderer))
	return string(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}

// Send emails the rendered outreach message to the lead on behalf of
// the user. The user's own address goes in reply-to so answers come
// back to them. A non-empty attachment goes out as a file named
// attachmentName, typically the candidate's stored resume.
func (s *Service) Send(lead recruiter.Lead, fromName, replyToEmail, subject, markdownBody string, attachment []byte, attachmentName string) error {
	if lead.Email == "" {
		return fmt.Errorf("lead %s has no email address", lead.ID)
	}
	htmlBody := RenderHTML(markdownBody)
	from := email.Address{Name: fromName, Email: s.emailClient.NoReplySenderAddress()}
	to := email.Address{Name: lead.Name, Email: lead.Email}
	replyTo := email.Address{Name: fromName, Email: replyToEmail}
	var err error
	if len(attachment) > 0 {
		err = s.emailClient.SendEmailWithPDFAttachment(from, to, replyTo, subject, htmlBody, attachment, attachmentName)
	} else {
		err = s.emailClient.SendHTMLEmail(from, to, replyTo, subject, htmlBody)
	}
	if err != nil {
		return errors.Wrap(err, "unable to send outreach email")
	}
	return nil
}
