// Package plantuml implements the text encoding used by PlantUML servers in
// diagram URLs: raw deflate followed by base64 over the PlantUML alphabet.
package plantuml

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

const (
	DefaultServer = "https://www.plantuml.com/plantuml"
	alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"
)

var encoding = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding)

type ImageFormat string

const (
	FormatSVG ImageFormat = "svg"
	FormatPNG ImageFormat = "png"
)

func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", s)
	}
}

// Encode compresses text and encodes it for a server URL.
func Encode(text string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("deflate: %w", err)
	}
	return encoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode.
func Decode(encoded string) (string, error) {
	raw, err := encoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("inflate: %w", err)
	}
	return string(out), nil
}

// URL builds <server>/<format>/<encoded>. An empty server means DefaultServer.
func URL(server string, format ImageFormat, encoded string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" {
		server = DefaultServer
	}
	if format == "" {
		format = FormatSVG
	}
	return server + "/" + string(format) + "/" + encoded
}
