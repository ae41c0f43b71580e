package places

import "fmt"

// UpstreamError reports a failed upstream call: either a non-2xx HTTP status
// or an embedded API-level status other than OK.
type UpstreamError struct {
	HTTPStatus int
	APIStatus  string
	Body       string
}

func (e *UpstreamError) Error() string {
	switch {
	case e.APIStatus != "" && e.Body != "":
		return fmt.Sprintf("upstream API status %s: %s", e.APIStatus, e.Body)
	case e.APIStatus != "":
		return fmt.Sprintf("upstream API status %s", e.APIStatus)
	case e.Body != "":
		return fmt.Sprintf("upstream HTTP %d: %s", e.HTTPStatus, e.Body)
	default:
		return fmt.Sprintf("upstream HTTP %d", e.HTTPStatus)
	}
}
