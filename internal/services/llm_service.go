package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/justsurfingit/joblocal/internal/dtos"
	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxExtractionInput = 20000

type LLMService struct {
	// Client is nil when no API key is configured.
	Client llms.Model
}

// NewLLMService initializes the Gemini client. Without a key the service is
// returned disabled and every extraction fails with ErrExtractionOff.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		log.Warn("GEMINI_API_KEY is empty, job extraction disabled")
		return &LLMService{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: creating gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements.",
    "salary": 0,
    "salaryType": "monthly or annum",
    "location": {"city": "", "state": "", "country": ""},
    "workType": "onsite, remote, hybrid or workFromHome",
    "jobType": "intern, fulltime, parttime or contract",
    "requiredSkills": ["Array", "of", "skills", "e.g., Go, React, AWS"]
}

### CONSTRAINT:
If a piece of information is missing, leave the string empty or the number 0. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// cleanHTML drops markup and page chrome and returns the visible text.
func cleanHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("llm: parsing html: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, header, iframe, svg").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if len(text) > maxExtractionInput {
		text = text[:maxExtractionInput]
	}
	return text, nil
}

// stripFences removes a markdown code fence the model may add anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJobDraft turns a pasted job page into a draft posting.
func (s *LLMService) ExtractJobDraft(ctx context.Context, rawHTML string) (*dtos.JobDraft, error) {
	if s == nil || s.Client == nil {
		return nil, ErrExtractionOff
	}
	text, err := cleanHTML(rawHTML)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	if text == "" {
		return nil, badRequest("No readable text in the submitted page")
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("llm: AI Extraction failed: %w", err)
	}

	var draft dtos.JobDraft
	if err := json.Unmarshal([]byte(stripFences(resp)), &draft); err != nil {
		return nil, fmt.Errorf("llm: unreadable extraction result: %w", err)
	}
	draft.SalaryType = oneOf(draft.SalaryType, "annum", "monthly", "annum")
	draft.WorkType = oneOf(draft.WorkType, "onsite", "onsite", "remote", "hybrid", "workFromHome")
	draft.JobType = oneOf(draft.JobType, "fulltime", "intern", "fulltime", "parttime", "contract")
	if draft.RequiredSkills == nil {
		draft.RequiredSkills = []string{}
	}
	return &draft, nil
}

func oneOf(v, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
