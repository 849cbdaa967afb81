package providers

import "fmt"

// BlockedResponseError reports a generation that ended without text because
// the provider stopped it (safety filters, recitation, prompt blocking).
type BlockedResponseError struct {
	FinishReason string
	BlockReason  string
}

func (e *BlockedResponseError) Error() string {
	if e.BlockReason != "" {
		return fmt.Sprintf("prompt blocked with reason: %s", e.BlockReason)
	}
	return fmt.Sprintf("generation finished with reason: %s", e.FinishReason)
}

// Blocked reports whether a finish/block reason pair means the provider
// refused to answer rather than answering with nothing.
func Blocked(finishReason, blockReason string) bool {
	if blockReason != "" && blockReason != "BLOCKED_REASON_UNSPECIFIED" {
		return true
	}
	switch finishReason {
	case "", "STOP", "FINISH_REASON_UNSPECIFIED", "MAX_TOKENS":
		return false
	default:
		return true
	}
}
