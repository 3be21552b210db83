package logo

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Asset is a self-contained logo ready to be used as an image source.
// Width and Height are the decoded pixel size, or 0 when the format
// could not be decoded.
type Asset struct {
	DataURI   string `json:"dataUri"`
	MediaType string `json:"mediaType"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// DisplayWidth returns the proportional width for the given display height.
func (a Asset) DisplayWidth(height int) int {
	if a.Width <= 0 || a.Height <= 0 || height <= 0 {
		return 0
	}
	return (a.Width*height + a.Height/2) / a.Height
}

var errMalformedDataURI = errors.New("malformed data uri")

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURI is the inverse of EncodeDataURI. Only base64 payloads are accepted.
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	mediaType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errMalformedDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mediaType, data, nil
}
