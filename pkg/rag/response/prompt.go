package response

const systemPrompt = `You are a careful analyst.
Return ONLY valid JSON. No markdown.
You MUST follow rules:
1) Use ONLY the provided chunks.
2) Create an output section for EVERY ticker listed in ` + "`tickers`" + `.
3) Under each ticker, include ONLY bullets supported by chunks with that SAME ticker.
4) Each bullet must include citation chunk ids and a short evidence quote (5-15 words).
5) If there is no relevant evidence for a ticker, return an empty bullets list.
`

const userTemplate = `Question: %s

tickers: %s

Chunks:
%s

Return JSON in this exact schema:
{
  "sections": [
    {
      "ticker": "MSFT",
      "source": "docs/MSFT.pdf",
      "bullets": [
        {
          "text": "....",
          "cites": [2],
          "evidence": "quoted words"
        }
      ]
    }
  ]
}
`

const answerSchema = `{
	"type": "object",
	"properties": {
		"sections": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"ticker": {"type": "string"},
					"source": {"type": "string"},
					"bullets": {
						"type": ["array", "null"],
						"items": {
							"type": "object",
							"properties": {
								"text": {"type": "string"},
								"cites": {
									"type": ["array", "null"],
									"items": {"type": ["integer", "string"]}
								},
								"evidence": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`
