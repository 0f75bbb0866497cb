package main

import (
	"strings"

	"github.com/enthus-golang/memobird"
)

type partKind int

const (
	partText partKind = iota
	partImage
)

type cliPart struct {
	kind  partKind
	value string
}

func (p cliPart) addTo(payload *memobird.Payload, a *app) error {
	if p.kind == partText {
		payload.AddText(p.value)
		return nil
	}

	src, err := openImageSource(p.value, a.logger)
	if err != nil {
		return err
	}
	if err := src.addTo(payload); err != nil {
		return describe("image", err)
	}
	return nil
}

// partsFlag is a repeatable flag whose values land in a list shared with
// other partsFlags, so --text and --image keep their relative order.
type partsFlag struct {
	kind  partKind
	parts *[]cliPart
}

func (f *partsFlag) String() string {
	if f.parts == nil {
		return ""
	}
	var values []string
	for _, p := range *f.parts {
		if p.kind == f.kind {
			values = append(values, p.value)
		}
	}
	return "[" + strings.Join(values, ",") + "]"
}

func (f *partsFlag) Set(value string) error {
	*f.parts = append(*f.parts, cliPart{kind: f.kind, value: value})
	return nil
}

func (f *partsFlag) Type() string {
	return "stringArray"
}
