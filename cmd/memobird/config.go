package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/enthus-golang/memobird"
)

type config struct {
	AK              string
	DeviceID        string
	UserIdentifying string
	BaseURL         string
}

func (a *app) config() config {
	return config{
		AK:              strings.TrimSpace(a.v.GetString("ak")),
		DeviceID:        strings.TrimSpace(a.v.GetString("device_id")),
		UserIdentifying: a.v.GetString("user_identifying"),
		BaseURL:         strings.TrimSpace(a.v.GetString("base_url")),
	}
}

// check reports every missing setting at once.
func (c config) check(needDevice bool) error {
	var missing []string
	if c.AK == "" {
		missing = append(missing, "access key (--ak or "+envPrefix+"_AK)")
	}
	if needDevice && c.DeviceID == "" {
		missing = append(missing, "device ID (--device-id or "+envPrefix+"_DEVICE_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, " and "))
	}
	return nil
}

func (a *app) newClient() (*memobird.Client, error) {
	cfg := a.config()
	if err := cfg.check(false); err != nil {
		return nil, err
	}

	opts := []memobird.Option{memobird.WithLogger(a.logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, memobird.WithBaseURL(cfg.BaseURL))
	}
	return memobird.New(cfg.AK, opts...)
}

func (a *app) newDevice(ctx context.Context) (*memobird.Device, error) {
	cfg := a.config()
	if err := cfg.check(true); err != nil {
		return nil, err
	}

	client, err := a.newClient()
	if err != nil {
		return nil, err
	}

	device, err := memobird.NewDevice(ctx, client, cfg.DeviceID, cfg.UserIdentifying)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	return device, nil
}

// newLogger builds the CLI's text logger. verbose wins over LOG_LEVEL.
func newLogger(w io.Writer, verbose bool, level string) *slog.Logger {
	lvl := slog.LevelInfo
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
