package store

// SearchHit is one match from SearchUpdates.
type SearchHit struct {
	UpdateID  string `json:"update_id"`
	ProjectID string `json:"project_id"`
	Snippet   string `json:"snippet"`
}
