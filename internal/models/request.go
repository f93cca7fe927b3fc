package models

// EmbedRequest is the body of a single-text embedding request.
type EmbedRequest struct {
	Text string `json:"text"`
	// Model is advisory: when present it is checked against the loaded model
	// and rejected on mismatch, never used to select a different model. A nil
	// Model means the field was omitted and defaults to the loaded model; a
	// present empty string is a mismatch like any other wrong name.
	Model *string `json:"model,omitempty"`
}

// Validate checks the request against the schema.
func (r *EmbedRequest) Validate() error {
	if r.Text == "" {
		return &ValidationError{Msg: "text cannot be empty"}
	}
	return nil
}

// BatchEmbedRequest is the body of a batch embedding request.
type BatchEmbedRequest struct {
	Texts []string `json:"texts"`
	Model *string  `json:"model,omitempty"`
}

// Validate checks the request against the schema. The list must be non-empty;
// individual elements may be empty strings, which embed like any other input.
func (r *BatchEmbedRequest) Validate() error {
	if len(r.Texts) == 0 {
		return &ValidationError{Msg: "texts cannot be empty"}
	}
	return nil
}
