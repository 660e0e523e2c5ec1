package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCoverLetterPrompt creates the prompt for a cover letter tailored to one job offer.
func (pb *PromptBuilder) BuildCoverLetterPrompt(jobDescription, resume string) string {
	resume = strings.TrimSpace(resume)
	if resume == "" {
		resume = "(no resume provided; write a general letter based on the job description only)"
	}

	return fmt.Sprintf(`You are an experienced career coach writing a cover letter on behalf of a candidate.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Write a cover letter for this position that:
1. Opens with a specific reason the candidate is interested in this role
2. Connects two or three concrete experiences from the resume to the job requirements
3. Stays under 350 words, in a professional but warm tone
4. Ends with a short call to action

Do not invent experience that is not in the resume. Return only the letter text, without a subject line or markdown.`,
		strings.TrimSpace(jobDescription), resume)
}
