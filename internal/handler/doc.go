// Package handler provides HTTP request handlers for the Bookmarks API.
//
// # Handler Pattern
//
// Handlers are Func values that return an error instead of writing one:
//
//	func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) error {
//	    if !allowed {
//	        return model.NewForbiddenError("not your bookmark")
//	    }
//	    WriteJSON(w, http.StatusOK, bookmark)
//	    return nil
//	}
//
// Errors.Wrap adapts a Func to http.Handler and hands any returned error to
// the terminal error handler, which writes the envelope:
//
//	{"error": {"message": "...", "statusCode": 403, "stack": "..."}}
//
// stack is omitted in production.
//
// # Request Bodies
//
// DecodeJSON and DecodeForm read bodies capped by the pipeline's body limit
// and translate failures into 400 and 413 errors.
package handler
