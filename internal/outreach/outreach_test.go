package outreach

import (
	"context"
	"strings"
	"testing"

	"github.com/careerdeck/careerdeck/internal/email"
	"github.com/careerdeck/careerdeck/internal/recruiter"
	"github.com/careerdeck/careerdeck/internal/searchapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emailClientStub() email.Client {
	c, _ := email.NewClient("", "support@example.com", "noreply@example.com", "test")
	return c
}

type fakeDrafter struct {
	lastReq searchapi.OutreachDraftRequest
	draft   searchapi.OutreachDraft
}

func (f *fakeDrafter) DraftOutreach(ctx context.Context, req searchapi.OutreachDraftRequest) (searchapi.OutreachDraft, error) {
	f.lastReq = req
	return f.draft, nil
}

func TestDraftPassesLeadAndCandidateDetails(t *testing.T) {
	drafter := &fakeDrafter{draft: searchapi.OutreachDraft{
		Subject:      "  Experienced Go engineer  ",
		BodyMarkdown: "Hi Dana,\n\nI saw your posting.\n",
	}}
	svc := NewService(drafter, emailClientStub())

	lead := recruiter.Lead{Name: "Dana", Title: "Tech Recruiter", Company: "Acme"}
	draft, err := svc.Draft(context.Background(), lead, "Senior Go Engineer", "friendly", "10 years backend")
	require.NoError(t, err)

	assert.Equal(t, "Dana", drafter.lastReq.RecruiterName)
	assert.Equal(t, "Acme", drafter.lastReq.RecruiterCompany)
	assert.Equal(t, "Senior Go Engineer", drafter.lastReq.Role)
	assert.Equal(t, "friendly", drafter.lastReq.Tone)
	assert.Equal(t, "Experienced Go engineer", draft.Subject)
	assert.Equal(t, "Hi Dana,\n\nI saw your posting.", draft.BodyMarkdown)
}

func TestRenderHTMLConvertsMarkdown(t *testing.T) {
	html := RenderHTML("Hi **Dana**, see [my profile](https://example.com/sam).")
	assert.Contains(t, html, "<strong>Dana</strong>")
	assert.Contains(t, html, `href="https://example.com/sam"`)
}

func TestRenderHTMLStripsScriptTags(t *testing.T) {
	html := RenderHTML("hello <script>alert(1)</script> world")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}

func TestSendRequiresLeadEmail(t *testing.T) {
	svc := NewService(&fakeDrafter{}, emailClientStub())
	err := svc.Send(recruiter.Lead{ID: "lead1", Name: "Dana"}, "Sam", "sam@example.com", "Hello", "body", nil, "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no email address"))

	err = svc.Send(recruiter.Lead{ID: "lead1", Name: "Dana"}, "Sam", "sam@example.com", "Hello", "body", []byte("%PDF-1.4"), "resume.pdf")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no email address"))
}
