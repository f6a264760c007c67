package requests

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Sport       string   `json:"sport" binding:"required"`
	ModelID     string   `json:"modelId"`
	Temperature *float64 `json:"temperature"`
	DataText    string   `json:"dataText" binding:"required"`
}
