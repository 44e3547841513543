package sqlagent

const generatePrompt = `
You are a SQL generator for %[1]s.

Return ONLY valid JSON. No markdown. No explanation.
Schema:
%[2]s

Task:
Generate a single SQL SELECT query over the table "%[3]s" that answers the question.

Rules:
- Output must be JSON exactly like: {"sql": "SELECT ..."}
- Only SELECT queries are allowed.
- Do not use INSERT/UPDATE/DELETE/DROP/ALTER/CREATE.
- Always query from "%[3]s".
- Use correct column names from the schema.

Question:
%[4]s
`

const repairPrompt = `
You are a SQL repair function for %[1]s.

Return ONLY valid JSON. No markdown. No explanation.
Schema:
%[2]s

We tried this SQL (it failed):
%[5]s

Error:
%[6]s

Task:
Return a corrected SQL SELECT query that answers the question.

Rules:
- Output must be JSON exactly like: {"sql": "SELECT ..."}
- Only SELECT queries are allowed.
- Always query from "%[3]s".
- Use correct column names from the schema.

Question:
%[4]s
`

const sqlSchema = `{
	"type": "object",
	"required": ["sql"],
	"properties": {
		"sql": {"type": "string"}
	}
}`
