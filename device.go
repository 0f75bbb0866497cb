package memobird

import (
	"context"
	"errors"
	"io"
)

// Device is a printer bound to a user. A Device always holds a valid user
// ID: NewDevice returns an error instead of an unbound Device.
//
// The bound identifiers are read-only, so a Device may be shared for reads.
// Concurrent submissions are only as safe as the Client's *http.Client.
type Device struct {
	client   *Client
	deviceID string
	userID   string
}

// ErrNilClient is returned by NewDevice when no client is given.
var ErrNilClient = errors.New("memobird client cannot be nil")

// NewDevice binds the caller to deviceID and returns the session.
func NewDevice(ctx context.Context, c *Client, deviceID, userIdentifying string) (*Device, error) {
	if c == nil {
		return nil, ErrNilClient
	}

	c.logger.Info("initializing device", "device_id", deviceID)

	userID, err := c.BindUser(ctx, deviceID, userIdentifying)
	if err != nil {
		return nil, err
	}

	c.logger.Info("device initialized", "device_id", deviceID, "user_id", userID)
	return &Device{client: c, deviceID: deviceID, userID: userID}, nil
}

// DeviceID returns the Memobird device ID.
func (d *Device) DeviceID() string {
	return d.deviceID
}

// UserID returns the user ID obtained when binding.
func (d *Device) UserID() string {
	return d.userID
}

// PrintText prints a single block of text.
func (d *Device) PrintText(ctx context.Context, text string) (int64, error) {
	payload := d.client.NewPayload().AddText(text)
	return d.client.PrintContent(ctx, d.deviceID, d.userID, payload)
}

// PrintImage normalizes and prints a single image.
func (d *Device) PrintImage(ctx context.Context, r io.Reader) (int64, error) {
	payload := d.client.NewPayload()
	if err := payload.AddImage(r); err != nil {
		d.client.logger.Error("failed to prepare image for printing", "error", err)
		return 0, err
	}
	return d.client.PrintContent(ctx, d.deviceID, d.userID, payload)
}

// PrintImageFile is PrintImage for an image on disk.
func (d *Device) PrintImageFile(ctx context.Context, path string) (int64, error) {
	payload := d.client.NewPayload()
	if err := payload.AddImageFile(path); err != nil {
		d.client.logger.Error("failed to prepare image for printing", "path", path, "error", err)
		return 0, err
	}
	return d.client.PrintContent(ctx, d.deviceID, d.userID, payload)
}

// PrintPayload prints a payload assembled by the caller.
func (d *Device) PrintPayload(ctx context.Context, payload *Payload) (int64, error) {
	return d.client.PrintContent(ctx, d.deviceID, d.userID, payload)
}

// PrintURL prints the page at url.
func (d *Device) PrintURL(ctx context.Context, url string) (int64, error) {
	return d.client.PrintURL(ctx, d.deviceID, d.userID, url)
}

// CheckStatus reports whether contentID has been printed.
func (d *Device) CheckStatus(ctx context.Context, contentID int64) (bool, error) {
	return d.client.PrintStatus(ctx, contentID)
}
