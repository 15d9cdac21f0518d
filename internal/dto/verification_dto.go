package dto

type SubmitVerificationRequest struct {
	DeveloperURL string `json:"developer_url,omitempty"`
	ProofMessage string `json:"proof_message"`
}

type ReviewVerificationRequest struct {
	Status     string `json:"status"`
	ReviewNote string `json:"review_note,omitempty"`
}
