package memobird

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// StatusResponse represents the response from a print status query.
type StatusResponse struct {
	Response
	PrintFlag json.RawMessage `json:"printflag"`
}

// Printed reports whether the service marked the content as printed.
func (r *StatusResponse) Printed() bool {
	return rawNumberIs(r.PrintFlag, 1)
}

// PrintStatus reports whether the content identified by contentID has been
// printed. Anything other than printflag == 1, including its absence, means
// not yet printed.
func (c *Client) PrintStatus(ctx context.Context, contentID int64) (bool, error) {
	params := url.Values{
		"ak":             {c.ak},
		"timestamp":      {c.timestamp()},
		"printcontentid": {strconv.FormatInt(contentID, 10)},
	}

	c.logger.Info("checking print status", "content_id", contentID)

	var statusResp StatusResponse
	if err := c.call(ctx, http.MethodGet, statusEndpoint, params, nil, c.timeouts.Default, &statusResp); err != nil {
		return false, err
	}

	printed := statusResp.Printed()
	c.logger.Info("print status", "content_id", contentID, "printed", printed)
	return printed, nil
}
