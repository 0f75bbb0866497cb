// Package memobird provides a client for the Memobird cloud thermal printer API.
//
// The Memobird API accepts print jobs as a single string of base64 encoded
// parts: GBK text and 1 bit BMP images, each tagged and joined with "|". This
// package builds that string and speaks the request/response contract of the
// service.
//
// Basic usage:
//
//	client, err := memobird.New(accessKey)
//
//	// Bind once, then print
//	device, err := memobird.NewDevice(ctx, client, deviceID, "")
//	contentID, err := device.PrintText(ctx, "Hello")
//
//	// Mix text and images in one job
//	payload := client.NewPayload().AddText("Receipt")
//	err = payload.AddImageFile("/path/to/logo.png")
//	contentID, err = device.PrintPayload(ctx, payload)
//
//	// Poll completion
//	printed, err := device.CheckStatus(ctx, contentID)
//
// Images are decoded (PNG, JPEG, GIF, BMP, TIFF, WebP), flattened onto white,
// scaled down to the 384 pixel print head, converted to gray with a gamma
// lift and dithered to black and white.
//
// Errors are one of *ContentError, *NetworkError or *APIError, and all of
// them match ErrMemobird with errors.Is. Nothing is retried.
package memobird
