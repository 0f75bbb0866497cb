package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/enthus-golang/memobird"
)

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text <text>...",
		Short: "Print text",
		Long:  `Print text. Multiple arguments are joined with spaces.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			a.logger.Debug("received print text request", "text", truncate(text, 50))

			device, err := a.newDevice(cmd.Context())
			if err != nil {
				return err
			}
			contentID, err := device.PrintText(cmd.Context(), text)
			if err != nil {
				return describe("text", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Text sent to printer successfully. Content ID: %d\n", contentID)
			return nil
		},
	}
}

func newImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image <path|data-url|base64>",
		Short: "Print an image",
		Long: `Print an image, scaled to the paper width and dithered to black and white.

The argument is a local file path, a data URL such as
"data:image/png;base64,..." or raw base64 image data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debug("received print image request", "source", truncate(args[0], 50))

			src, err := openImageSource(args[0], a.logger)
			if err != nil {
				return err
			}

			payload := memobird.NewPayload()
			if err := src.addTo(payload); err != nil {
				return describe("image", err)
			}

			device, err := a.newDevice(cmd.Context())
			if err != nil {
				return err
			}
			contentID, err := device.PrintPayload(cmd.Context(), payload)
			if err != nil {
				return describe("image", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s sent to printer successfully. Content ID: %d\n", src.kind, contentID)
			return nil
		},
	}
}

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Print the web page at a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, err := a.newDevice(cmd.Context())
			if err != nil {
				return err
			}
			contentID, err := device.PrintURL(cmd.Context(), args[0])
			if err != nil {
				return describe("URL", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "URL content sent to printer successfully. Content ID: %d\n", contentID)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <content-id>",
		Short: "Check whether submitted content has been printed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid content ID %q: %w", args[0], err)
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			printed, err := client.PrintStatus(cmd.Context(), contentID)
			if err != nil {
				return describe("status", err)
			}

			if printed {
				fmt.Fprintf(cmd.OutOrStdout(), "Content %d has been printed.\n", contentID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Content %d has not been printed yet.\n", contentID)
			}
			return nil
		},
	}
}

func newPrintCmd(a *app) *cobra.Command {
	var (
		parts  []cliPart
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print several text and image parts in one submission",
		Long: `Print several parts in one submission. Parts are printed in the order
the --text and --image flags are given:

  memobird print --text "Shopping list" --image ./logo.png --text "eggs"

With --dry-run the encoded content is shown instead of being sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(parts) == 0 {
				return errors.New("nothing to print: give at least one --text or --image")
			}

			payload := memobird.NewPayload()
			for _, part := range parts {
				if err := part.addTo(payload, a); err != nil {
					return err
				}
			}

			if dryRun {
				return writeDryRun(cmd, payload)
			}

			device, err := a.newDevice(cmd.Context())
			if err != nil {
				return err
			}
			contentID, err := device.PrintPayload(cmd.Context(), payload)
			if err != nil {
				return describe("content", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Content sent to printer successfully. Content ID: %d\n", contentID)
			return nil
		},
	}

	cmd.Flags().Var(&partsFlag{kind: partText, parts: &parts}, "text", "text part (repeatable)")
	cmd.Flags().Var(&partsFlag{kind: partImage, parts: &parts}, "image", "image part: path, data URL or base64 (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the encoded content without sending it")
	return cmd
}

func writeDryRun(cmd *cobra.Command, payload *memobird.Payload) error {
	wire := payload.Build()
	decoded, err := memobird.DecodePayload(wire)
	if err != nil {
		return fmt.Errorf("decoding built content: %w", err)
	}

	for i, part := range decoded {
		switch p := part.(type) {
		case memobird.TextPart:
			fmt.Fprintf(cmd.OutOrStdout(), "%d: text %q\n", i+1, p.Text)
		case memobird.ImagePart:
			fmt.Fprintf(cmd.OutOrStdout(), "%d: image, %d byte bitmap\n", i+1, len(p.Bitmap))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), wire)
	return nil
}

// describe prefixes err with what failed, keeping it matchable.
func describe(what string, err error) error {
	var (
		contentErr *memobird.ContentError
		apiErr     *memobird.APIError
		netErr     *memobird.NetworkError
	)
	switch {
	case errors.As(err, &contentErr):
		return fmt.Errorf("error processing %s: %w", what, err)
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		return fmt.Errorf("error printing %s (API/network): %w", what, err)
	default:
		return fmt.Errorf("memobird client error printing %s: %w", what, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
