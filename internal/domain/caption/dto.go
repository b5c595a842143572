package caption

// CaptionResult is the structured output returned to the client. All three
// fields are non-empty on success; a partial set is never returned.
type CaptionResult struct {
	ShortCaption  string `json:"shortCaption"`
	MediumCaption string `json:"mediumCaption"`
	LongCaption   string `json:"longCaption"`
}
