package users

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docportal/auth"

	"github.com/julienschmidt/httprouter"
)

// Degenerate bodies on the public upsert must be rejected cleanly
// before any store access; a literal null body decodes into a nil map
// without error and used to panic on the email assignment.
func TestUpsertRejectsDegenerateBody(t *testing.T) {
	h := NewHandler(nil, auth.New([]byte("test-secret")))
	ps := httprouter.Params{{Key: "email", Value: "a@x.com"}}

	for _, body := range []string{`null`, `{`, `"just a string"`, `42`} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/user/a@x.com", strings.NewReader(body))

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Fatalf("body %q: handler panicked: %v", body, rec)
				}
			}()
			h.Upsert(w, r, ps)
		}()

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}
