package imagepkg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

var ErrBadDataURI = errors.New("malformed data URI")

// ParseDataURI decodes "data:[<mediatype>][;base64],<data>" and returns the
// payload with its type/subtype.
func ParseDataURI(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrBadDataURI
	}
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return du.Data, du.ContentType(), nil
}

// EncodeDataURI returns data as a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	if strings.Count(mediaType, "/") != 1 {
		mediaType = "application/octet-stream"
	}
	return dataurl.New(data, mediaType).String()
}
