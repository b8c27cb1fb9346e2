package domain

import "strings"

// BatchSeparator joins raw model responses in a session transcript.
const BatchSeparator = "\n\n--- NEXT BATCH ---\n\n"

// DefaultSystemInstruction tells the model to answer with a bare Markdown
// table of the columns the parser understands.
const DefaultSystemInstruction = `You are an advanced data extraction assistant specializing in Google Maps.
Your goal is to find businesses or places based on the user's query and format the output strictly as a Markdown table.

Rules:
1. Find at least 10-20 relevant results if possible.
2. The output MUST be a Markdown table.
3. The table MUST have these columns: Name, Address, Rating, Review Count, Phone, Website.
4. If specific data is missing for a row, put "N/A".
5. Do not include any conversational text before or after the table. Only the table.
6. Ensure the data is accurate based on the Google Maps tool grounding.`

// RetrievalRequest carries everything a retriever needs for one call.
type RetrievalRequest struct {
	// Query is the frozen free-text search.
	Query string

	// Category optionally narrows results.
	Category Category

	// Location optionally biases results around a point.
	Location *GeoLocation

	// ExcludeNames lists businesses already collected in this session.
	ExcludeNames []string
}

// NewRetrievalRequest builds a request from frozen parameters.
func NewRetrievalRequest(params SearchParameters, exclude []string) RetrievalRequest {
	return RetrievalRequest{
		Query:        params.Query,
		Category:     params.Category,
		Location:     params.Location,
		ExcludeNames: exclude,
	}
}

// Prompt returns the user prompt text sent to the model.
func (r RetrievalRequest) Prompt() string {
	var b strings.Builder
	b.WriteString("Find ")
	b.WriteString(r.Query)

	if r.Category.IsFilter() {
		b.WriteString(" specifically within the ")
		b.WriteString(string(r.Category))
		b.WriteString(" category")
	}

	if len(r.ExcludeNames) > 0 {
		b.WriteString(". IMPORTANT: Do NOT include these businesses in the results: ")
		b.WriteString(strings.Join(r.ExcludeNames, ", "))
		b.WriteString(". Find DIFFERENT businesses not listed here.")
	}

	b.WriteString(". Provide a list with Name, Address, Rating, Review Count, Phone, and Website.")
	return b.String()
}
