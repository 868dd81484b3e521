package types

// ResetResponseText is the acknowledgement returned for a reset.
const ResetResponseText = "Chat reset"

// ChatResponse is the reply to a turn. SpecialMessage is null unless the
// fallback provider answered.
type ChatResponse struct {
	Response       string  `json:"response"`
	SpecialMessage *string `json:"specialMessage"`
}

// ResetResponse is the reply to a reset.
type ResetResponse struct {
	Response string `json:"response"`
}

// NewResetResponse returns the fixed reset acknowledgement.
func NewResetResponse() *ResetResponse {
	return &ResetResponse{Response: ResetResponseText}
}
