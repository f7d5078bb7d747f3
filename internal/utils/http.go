package utils

import (
	"fmt"
	"net/http"
)

// WriteHTML writes a small HTML page to the HTTP response with the given
// status code. Used by the OAuth loopback listener to show the user a
// human-readable completion page in the browser tab that carried the
// authorization callback.
//
// Parameters:
//
//	w          - the HTTP response writer to write the response to
//	body       - HTML fragment placed inside the page body
//	statusCode - HTTP status code to set in the response (e.g. http.StatusOK)
//
// Returns:
//
//	int   - number of bytes written to the response body
//	error - non-nil if the underlying write fails
func WriteHTML(w http.ResponseWriter, body string, statusCode int) (int, error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	page := fmt.Sprintf("<!DOCTYPE html><html><body>%s</body></html>", body)
	return w.Write([]byte(page))
}
