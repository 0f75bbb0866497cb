package memobird

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// BindResponse represents the response from binding a user to a device.
type BindResponse struct {
	Response
	UserID json.RawMessage `json:"showapi_userid"`
}

// BindUser binds the caller to a device and returns the user ID the service
// assigns. userIdentifying is an optional free-form caller identifier.
func (c *Client) BindUser(ctx context.Context, deviceID, userIdentifying string) (string, error) {
	params := url.Values{
		"ak":              {c.ak},
		"timestamp":       {c.timestamp()},
		"memobirdID":      {deviceID},
		"useridentifying": {userIdentifying},
	}

	c.logger.Info("getting user ID", "device_id", deviceID)

	var bindResp BindResponse
	if err := c.call(ctx, http.MethodGet, bindEndpoint, params, nil, c.timeouts.Default, &bindResp); err != nil {
		return "", err
	}

	// a numeric zero counts as missing
	userID := rawString(bindResp.UserID)
	if userID == "" || rawNumberIs(bindResp.UserID, 0) {
		return "", &APIError{
			Code:    bindResp.Code(),
			Message: "user ID not found in successful API response",
		}
	}

	c.logger.Info("obtained user ID", "device_id", deviceID, "user_id", userID)
	return userID, nil
}
