// Package report renders analysis results as a human-readable text report
// or as JSON or MessagePack documents for downstream tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/pipeline"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects an output encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "text", "json" and "msgpack" (also "txt" and "mpk").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("report: unknown format %q", s)
	}
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".txt"
	}
}

// Write renders res to w in format f.
func Write(w io.Writer, res *pipeline.Result, f Format) error {
	switch f {
	case FormatText, "":
		return WriteText(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatMsgpack:
		return WriteMsgpack(w, res)
	default:
		return fmt.Errorf("report: unknown format %q", f)
	}
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// ReadJSON decodes a result written by WriteJSON.
func ReadJSON(r io.Reader) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WriteMsgpack encodes res as MessagePack using the JSON field names.
func WriteMsgpack(w io.Writer, res *pipeline.Result) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(res)
}

// ReadMsgpack decodes a result written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*pipeline.Result, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var res pipeline.Result
	if err := dec.Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
