package requests

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query       string   `json:"query" binding:"required"`
	Temperature *float64 `json:"temperature"`
}
