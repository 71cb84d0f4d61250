// datauri.go implements the data-URI codec used by every endpoint that
// accepts or returns inline payloads (images and WAV audio).
package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned when a payload is neither a well-formed
// data URI nor bare base64.
var ErrInvalidDataURI = errors.New("core: invalid data URI")

// DataURIToBytes decodes a data URI ("data:<mime>;base64,<payload>") or a
// bare base64 string into raw bytes.
func DataURIToBytes(uri string) ([]byte, error) {
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		_, rest, found := strings.Cut(uri, ",")
		if !found {
			return nil, fmt.Errorf("%w: missing comma separator", ErrInvalidDataURI)
		}
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return data, nil
}

// BytesToDataURI encodes raw bytes as a data URI with the given MIME type.
func BytesToDataURI(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
