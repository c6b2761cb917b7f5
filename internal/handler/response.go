package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/forgo/bookmarks/api/internal/model"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// DecodeJSON decodes a JSON request body into v. Failures are returned as
// model.HTTPError: 413 when the body exceeds the pipeline's limit, 400 when
// it is empty or malformed.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return bodyError(err)
	}
	if decoder.More() {
		return model.NewBadRequestError("request body must contain a single JSON value", nil)
	}
	return nil
}

// DecodeForm parses a URL-encoded request body
func DecodeForm(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, bodyError(err)
	}
	return r.PostForm, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &tooLarge):
		return model.NewPayloadTooLargeError(tooLarge.Limit)
	case errors.Is(err, io.EOF):
		return model.NewBadRequestError("request body is empty", err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return model.NewBadRequestError("request body is not valid JSON", err)
	case errors.As(err, &typeErr):
		return model.NewBadRequestError("request body has a field of the wrong type: "+typeErr.Field, err)
	}
	return model.NewBadRequestError(err.Error(), err)
}
