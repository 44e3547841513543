package router

const systemPrompt = `You are a routing function for a hybrid SQL + RAG assistant.
Return ONLY valid JSON. No markdown. No extra keys.
You must choose one route: SQL, RAG, or BOTH.

Use SQL when:
- The user asks for numeric facts present in the table (market cap, revenue, net income, EPS, etc.)
- The user asks to compare companies using table columns

Use RAG when:
- The user asks qualitative questions from PDFs (strategy, risks, initiatives, commentary)
- The user asks 'why'/'how' based on transcript content

Use BOTH when:
- The question needs table numbers plus narrative explanation from PDFs
`

const userTemplate = `Decide the route for this user question.

Question: %s

Output schema (must match exactly):
{
  "route": %s,
  "reason": "one short sentence"
}
`

const decisionSchema = `{
	"type": "object",
	"required": ["route"],
	"properties": {
		"route": {"type": "string"},
		"reason": {"type": "string"}
	}
}`

// Keyword sets for the deterministic BOTH -> RAG correction. Matching is
// substring based on the lower-cased question.
var (
	qualitativeKeywords = []string{
		"initiative", "initiatives", "strategy", "risk", "risks", "headwinds",
		"drivers", "what drove", "why", "how", "explain", "commentary",
	}
	numericKeywords = []string{
		"market cap", "revenue", "net income", "eps", "profit", "margin",
		"compare", "top", "highest", "lowest", "billions", "$",
	}
)
