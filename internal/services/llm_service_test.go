package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel answers every prompt with a canned reply and keeps the prompt.
type stubModel struct {
	reply  string
	prompt string
}

func (m *stubModel) GenerateContent(_ context.Context, msgs []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range msgs {
		for _, p := range msg.Parts {
			if tp, ok := p.(llms.TextContent); ok {
				m.prompt += tp.Text
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

func TestExtractionDisabledWithoutKey(t *testing.T) {
	svc, err := NewLLMService(context.Background(), "", "gemini-2.5-flash")
	require.NoError(t, err)

	_, err = svc.ExtractJobDraft(context.Background(), "<p>job</p>")
	assert.ErrorIs(t, err, ErrExtractionOff)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestExtractJobDraft(t *testing.T) {
	model := &stubModel{reply: "```json\n" + `{
		"title": "Backend Engineer",
		"description": "Build APIs",
		"salary": 900000,
		"salaryType": "yearly",
		"location": {"city": "Pune", "state": "MH", "country": "India"},
		"workType": "remote",
		"jobType": "",
		"requiredSkills": ["Go", "Postgres"]
	}` + "\n```"}
	svc := &LLMService{Client: model}

	page := `<html><head><script>track()</script></head><body><nav>Home Jobs</nav>
		<h1>Backend Engineer</h1><p>Build APIs in Go.</p><footer>© Acme</footer></body></html>`
	draft, err := svc.ExtractJobDraft(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", draft.Title)
	assert.Equal(t, 900000.0, draft.Salary)
	assert.Equal(t, "annum", draft.SalaryType)
	assert.Equal(t, "remote", draft.WorkType)
	assert.Equal(t, "fulltime", draft.JobType)
	assert.Equal(t, "Pune", draft.Location.City)
	assert.Equal(t, []string{"Go", "Postgres"}, draft.RequiredSkills)

	assert.Contains(t, model.prompt, "Build APIs in Go.")
	assert.NotContains(t, model.prompt, "track()")
	assert.NotContains(t, model.prompt, "Home Jobs")
}

func TestExtractRejectsEmptyPage(t *testing.T) {
	svc := &LLMService{Client: &stubModel{}}
	_, err := svc.ExtractJobDraft(context.Background(), "<script>x()</script>")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCleanHTMLTruncates(t *testing.T) {
	text, err := cleanHTML("<p>" + strings.Repeat("word ", 10000) + "</p>")
	require.NoError(t, err)
	assert.Len(t, text, maxExtractionInput)
}
