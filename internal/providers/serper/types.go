package serper

type searchRequest struct {
	Query   string `json:"q"`
	Num     int    `json:"num"`
	Country string `json:"gl,omitempty"`
}

type searchResponse struct {
	Organic        []resultItem    `json:"organic"`
	News           []resultItem    `json:"news"`
	KnowledgeGraph *knowledgeGraph `json:"knowledgeGraph"`
}

type resultItem struct {
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Link     string `json:"link"`
	Position int    `json:"position"`
	Date     string `json:"date"`
	ImageURL string `json:"imageUrl"`
}

type knowledgeGraph struct {
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes"`
	ImageURL    string            `json:"imageUrl"`
}

// Result is a single search hit, normalized across search kinds.
type Result struct {
	Title    string
	Snippet  string
	Link     string
	Position int
	Date     string
	ImageURL string
}

// Knowledge holds the knowledge graph panel returned for some web queries.
type Knowledge struct {
	Title       string
	Type        string
	Description string
	Attributes  map[string]string
}

// Response is a processed search response ready for formatting.
type Response struct {
	Query     string
	Results   []Result
	Knowledge *Knowledge
}
