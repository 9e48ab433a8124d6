package api

// healthResponse is the GET /api/health body.
type healthResponse struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

// okResponse acknowledges a successful contact submission.
type okResponse struct {
	OK bool `json:"ok"`
}
