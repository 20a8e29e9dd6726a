package email

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) Client {
	c, _ := NewClient("test-api-key", "support@example.com", "noreply@example.com", "CareerDeck")
	c.baseURL = baseURL
	return c
}

func TestDefaultAddresses(t *testing.T) {
	c := testClient("")
	assert.Equal(t, "support@example.com", c.DefaultReplyTo())
	assert.Equal(t, "CareerDeck", c.DefaultSenderName())
	assert.Equal(t, "support@example.com", c.SupportSenderAddress())
	assert.Equal(t, "noreply@example.com", c.NoReplySenderAddress())
}

func TestSendHTMLEmail(t *testing.T) {
	var got EmailMessage
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.SendHTMLEmail(
		Address{Name: "CareerDeck", Email: "noreply@example.com"},
		Address{Email: "dana@example.com"},
		Address{Email: "support@example.com"},
		"Welcome",
		"<p>hello</p>",
	)
	require.NoError(t, err)
	assert.Equal(t, "test-api-key", apiKey)
	assert.Equal(t, "Welcome", got.Subject)
	assert.Equal(t, "<p>hello</p>", got.HtmlContent)
	require.Len(t, got.To, 1)
	assert.Equal(t, "dana@example.com", got.To[0].Email)
	assert.Nil(t, got.Attachment)
}

func TestSendEmailWithPDFAttachment(t *testing.T) {
	var got EmailMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.SendEmailWithPDFAttachment(
		Address{Name: "Sam", Email: "noreply@example.com"},
		Address{Name: "Dana", Email: "dana@example.com"},
		Address{Email: "sam@example.com"},
		"Resume attached",
		"<p>see attached</p>",
		[]byte("%PDF-1.4 fake"),
		"resume.pdf",
	)
	require.NoError(t, err)
	require.NotNil(t, got.Attachment)
	assert.Equal(t, "resume.pdf", got.Attachment.Name)
	decoded, err := base64.StdEncoding.DecodeString(got.Attachment.B64Data)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), decoded)
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid sender"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.SendHTMLEmail(Address{Email: "noreply@example.com"}, Address{Email: "dana@example.com"}, Address{}, "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
