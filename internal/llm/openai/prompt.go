package openai

import "strings"

// maxPromptChars caps how much document text is sent to the model. This is a
// cost/latency control: fields that only appear past the cutoff are simply
// unavailable to the model.
const maxPromptChars = 8000

const systemPrompt = "You are an expert at extracting loan information from documents. " +
	"Extract the following fields and return ONLY valid JSON. Use null for missing values."

const fieldShape = `{
  "loanNumber": "string or null",
  "lender": "string or null",
  "borrower": "string or null",
  "coBorrower": "string or null",
  "status": "string or null",
  "program": "string or null",
  "closingDate": "YYYY-MM-DD or null",
  "loanType": "string or null",
  "occupancy": "string or null",
  "appraisalOrdered": "YYYY-MM-DD or null",
  "appraisalDueDate": "YYYY-MM-DD or null",
  "titleOrdered": "YYYY-MM-DD or null",
  "titleCompany": "string or null",
  "state": "string or null",
  "address": "string or null",
  "loanOfficer": "string or null",
  "lockExpiration": "YYYY-MM-DD or null",
  "icdDate": "YYYY-MM-DD or null",
  "introCall": "YYYY-MM-DD or null",
  "notesComments": "string or null"
}`

// BuildPrompt creates the user message for a loan extraction request.
func BuildPrompt(text string) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	var b strings.Builder
	b.WriteString("Extract the following loan information from this document text. ")
	b.WriteString("Return a JSON object with these exact field names (use null for missing values):\n\n")
	b.WriteString(fieldShape)
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(text)
	return b.String()
}
