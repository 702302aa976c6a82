package llm

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/markdave123-py/paperdigest/internal/core"
)

// classifySDKError keeps transport failures as they are and reports anything else an SDK
// could not turn into a completion as a malformed response.
func classifySDKError(provider string, err error) error {
	if isTransportError(err) {
		return err
	}
	return &core.MalformedResponseError{Reason: provider + ": " + err.Error()}
}

func isTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
