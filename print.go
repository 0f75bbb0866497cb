package memobird

import (
	"context"
	"encoding/json"
	"net/http"
)

// PrintRequest is the body of a content submission.
type PrintRequest struct {
	AK           string `json:"ak"`
	Timestamp    string `json:"timestamp"`
	PrintContent string `json:"printcontent"`
	MemobirdID   string `json:"memobirdID"`
	UserID       string `json:"userID"`
}

// PrintURLRequest is the body of a URL submission.
type PrintURLRequest struct {
	AK         string `json:"ak"`
	Timestamp  string `json:"timestamp"`
	PrintURL   string `json:"printUrl"`
	MemobirdID string `json:"memobirdID"`
	UserID     string `json:"userID"`
}

// PrintResponse represents the response from submitting content or a URL.
type PrintResponse struct {
	Response
	ContentID json.RawMessage `json:"printcontentid"`
}

// PrintContent builds payload and submits it to the device. It returns the
// content ID used to poll PrintStatus. An empty payload is rejected with a
// *ContentError before any request is made.
func (c *Client) PrintContent(ctx context.Context, deviceID, userID string, payload *Payload) (int64, error) {
	var content string
	if payload != nil {
		content = payload.Build()
	}
	if content == "" {
		c.logger.Warn("content payload is empty, nothing to print", "device_id", deviceID)
		return 0, &ContentError{Op: "print content", Err: ErrEmptyContent}
	}

	req := PrintRequest{
		AK:           c.ak,
		Timestamp:    c.timestamp(),
		PrintContent: content,
		MemobirdID:   deviceID,
		UserID:       userID,
	}

	c.logger.Info("sending content to device", "device_id", deviceID, "user_id", userID, "length", len(content))

	var printResp PrintResponse
	if err := c.call(ctx, http.MethodPost, printEndpoint, nil, req, c.timeouts.Print, &printResp); err != nil {
		return 0, err
	}

	contentID, err := printResp.contentID("print")
	if err != nil {
		return 0, err
	}

	c.logger.Info("print request successful", "content_id", contentID)
	return contentID, nil
}

// PrintURL asks the service to fetch and print the page at targetURL.
func (c *Client) PrintURL(ctx context.Context, deviceID, userID, targetURL string) (int64, error) {
	req := PrintURLRequest{
		AK:         c.ak,
		Timestamp:  c.timestamp(),
		PrintURL:   targetURL,
		MemobirdID: deviceID,
		UserID:     userID,
	}

	c.logger.Info("sending URL to device", "url", targetURL, "device_id", deviceID, "user_id", userID)

	var printResp PrintResponse
	if err := c.call(ctx, http.MethodPost, printURLEndpoint, nil, req, c.timeouts.PrintURL, &printResp); err != nil {
		return 0, err
	}

	contentID, err := printResp.contentID("print URL")
	if err != nil {
		return 0, err
	}

	c.logger.Info("print URL request successful", "content_id", contentID)
	return contentID, nil
}

func (r *PrintResponse) contentID(op string) (int64, error) {
	id, ok := rawInt(r.ContentID)
	if !ok {
		return 0, &APIError{
			Code:    r.Code(),
			Message: "content ID not found in successful " + op + " API response",
		}
	}
	return id, nil
}
