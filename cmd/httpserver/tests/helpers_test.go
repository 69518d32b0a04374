//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-petr/pet-split/pkg/web"
)

// do sends the request to the test server and decodes the response into data.
func do(t *testing.T, method, url string, body any, data any) (int, web.Response) {
	t.Helper()

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	res := web.Response{Data: data}

	if w.Body.Len() > 0 {
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Errorf("Decoding response body error: %v", err)
		}
	}

	return w.Code, res
}
