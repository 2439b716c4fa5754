package portfolio

// BlogPost is the full blog document, persisted as one pretty-printed JSON
// file per post. Content is the HTML fragment produced by the rich-text
// editor, stored as-is.
type BlogPost struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// BlogSummary is the listing view of a post, without the content body.
type BlogSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// ChatTurn is one prior message of the conversation. History lives only on
// the client; the server treats it purely as request input.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
