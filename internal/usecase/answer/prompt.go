package answer

import (
	"strings"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
)

const systemPrompt = `You are an IT incident management assistant.

INCIDENT QUERIES:
- Your responses about incidents MUST be based ONLY on the provided context.
- If the answer is not explicitly in the context, say "I don't have enough information to answer that question."
- Never make up or guess information that's not in the context.
- If asked about specific incidents, only provide details that are in the context.

When responding about incidents:
- Always include the incident number if available
- Only state facts that are present in the context
- If the context doesn't contain enough information, say so
- Never invent incident details, resolutions, or statuses

Context:
`

// fewShot anchors the answer style before the real question.
var fewShot = []domain.Message{
	{Role: domain.RoleUser, Content: "What is this incident about?"},
	{Role: domain.RoleAssistant, Content: "Let me look up the details for this incident."},
	{Role: domain.RoleUser, Content: "How was this incident resolved?"},
	{Role: domain.RoleAssistant, Content: "I'll check the resolution details for this incident."},
	{Role: domain.RoleUser, Content: "How's the weather?"},
	{Role: domain.RoleAssistant, Content: "I'm focused on helping with IT incidents. Would you like to ask about a specific incident or need help with incident management?"},
}

// buildPrompt stuffs the retrieved documents into the system message and
// appends the user's question after the few-shot turns.
func buildPrompt(query string, docs []document.Document) []domain.Message {
	var ctx strings.Builder
	ctx.WriteString(systemPrompt)
	for i := range docs {
		if i > 0 {
			ctx.WriteString("\n")
		}
		ctx.WriteString(docs[i].Content())
	}

	messages := make([]domain.Message, 0, len(fewShot)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: ctx.String()})
	messages = append(messages, fewShot...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: query})
	return messages
}
