package response

import (
	"encoding/json"
	"strings"

	"fin-analyst-be/pkg/store"
)

// Citation points at a chunk by its 1-based presentation index
type Citation struct {
	Chunk  int    `json:"chunk"`
	Source string `json:"source"`
	Page   *int   `json:"-"`
}

// MarshalJSON renders a missing page as "unknown"
func (c Citation) MarshalJSON() ([]byte, error) {
	var page interface{} = store.Unknown
	if c.Page != nil {
		page = *c.Page
	}
	return json.Marshal(struct {
		Chunk  int         `json:"chunk"`
		Source string      `json:"source"`
		Page   interface{} `json:"page"`
	}{c.Chunk, c.Source, page})
}

func (c *Citation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Chunk  int             `json:"chunk"`
		Source string          `json:"source"`
		Page   json.RawMessage `json:"page"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Chunk = raw.Chunk
	c.Source = raw.Source
	c.Page = nil
	var p int
	if err := json.Unmarshal(raw.Page, &p); err == nil {
		c.Page = &p
	}
	return nil
}

// Cite is a chunk id as the model wrote it. Models emit both 2 and "2".
type Cite string

func (c *Cite) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Cite(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Cite(strings.TrimSpace(s))
	return nil
}

type Bullet struct {
	Text     string `json:"text"`
	Cites    []Cite `json:"cites"`
	Evidence string `json:"evidence"`
}

type Section struct {
	Ticker  string   `json:"ticker"`
	Source  string   `json:"source"`
	Bullets []Bullet `json:"bullets"`
}

// Answer is a synthesized, rendered answer
type Answer struct {
	Text      string     `json:"text"`
	Sections  []Section  `json:"sections"`
	Citations []Citation `json:"citations"`
}
