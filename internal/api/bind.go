package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrymomot/authsession/core"
)

const maxBodySize = 1 << 16

var errUnsupportedMediaType = core.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")

// bindJSON strictly decodes a single JSON object from the request body.
func bindJSON(w http.ResponseWriter, r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errUnsupportedMediaType
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", core.ErrBadRequest)
		}
		return fmt.Errorf("%w: %v", core.ErrBadRequest, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", core.ErrBadRequest)
	}
	return nil
}
