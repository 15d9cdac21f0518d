package dto

type CreatePostRequest struct {
	Title        string   `json:"title"`
	Body         string   `json:"body"`
	PlayStoreURL string   `json:"play_store_url"`
	TestingURL   string   `json:"testing_url"`
	Tags         []string `json:"tags"`
	Images       []string `json:"images"`
}

// UpdatePostRequest replaces the post's fields and associations as a unit.
type UpdatePostRequest = CreatePostRequest

type FeedQuery struct {
	Page     int
	Limit    int
	Search   string
	TagSlug  string
	Verified bool
	Sort     string
}
