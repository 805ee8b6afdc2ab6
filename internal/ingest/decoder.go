package ingest

import (
	"context"
	"encoding/base64"
)

// Decoder turns the raw bytes of an image into the reference stored on the
// item.
type Decoder interface {
	Decode(ctx context.Context, name, mediaType string, data []byte) (string, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, name, mediaType string, data []byte) (string, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, name, mediaType string, data []byte) (string, error) {
	return f(ctx, name, mediaType, data)
}

// DataURIDecoder encodes images as base64 data URIs.
type DataURIDecoder struct{}

// Decode returns "data:<mediaType>;base64,<payload>".
func (DataURIDecoder) Decode(ctx context.Context, _ string, mediaType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
