package pay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docportal/middleware"

	"github.com/redis/go-redis/v9"
)

func intentRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/payment-intent", strings.NewReader(body))
	ctx := context.WithValue(r.Context(), middleware.EmailKey, "a@x.com")
	return r.WithContext(ctx)
}

type fakeLocker struct {
	setnxVal bool
	setnxErr error
	deleted  []string
}

func (f *fakeLocker) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(f.setnxVal, f.setnxErr)
}

func (f *fakeLocker) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Requests rejected by validation must never reach the gateway.
func TestCreateIntentRejectsBadInput(t *testing.T) {
	h := NewHandler("sk_test_unused", nil)

	for _, body := range []string{`{}`, `{"price":0}`, `{"price":-5}`, `{`} {
		w := httptest.NewRecorder()
		h.CreateIntent(w, intentRequest(body), nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestAcquireLockContention(t *testing.T) {
	h := &Handler{rdx: &fakeLocker{setnxVal: false}}

	release, proceed := h.acquireLock(context.Background(), "a@x.com")
	if proceed {
		t.Fatal("contended lock must not proceed")
	}
	if release != nil {
		t.Fatal("contended lock must not hand out a release")
	}
}

// A SetNX failure lets the request proceed, but without a release: the
// lock may be held by a concurrent request for the same caller and must
// not be deleted out from under it.
func TestAcquireLockErrorHoldsNothing(t *testing.T) {
	fake := &fakeLocker{setnxErr: errors.New("redis down")}
	h := &Handler{rdx: fake}

	release, proceed := h.acquireLock(context.Background(), "a@x.com")
	if !proceed {
		t.Fatal("lock backend failure must not block payments")
	}
	if release != nil {
		t.Fatal("no release may be handed out when the lock was not taken")
	}
	if len(fake.deleted) != 0 {
		t.Fatalf("lock was deleted despite never being acquired: %v", fake.deleted)
	}
}

func TestAcquireLockReleasesOwnKey(t *testing.T) {
	fake := &fakeLocker{setnxVal: true}
	h := &Handler{rdx: fake}

	release, proceed := h.acquireLock(context.Background(), "a@x.com")
	if !proceed || release == nil {
		t.Fatal("acquired lock must proceed with a release")
	}
	release()
	if len(fake.deleted) != 1 || fake.deleted[0] != "intent_lock:a@x.com" {
		t.Fatalf("expected own lock key released, got %v", fake.deleted)
	}
}

func TestIntentAmountMinorUnits(t *testing.T) {
	cases := []struct{ price, want int64 }{
		{1, 100},
		{450, 45000},
		{9999, 999900},
	}
	for _, tc := range cases {
		if got := intentAmount(tc.price); got != tc.want {
			t.Errorf("intentAmount(%d) = %d, want %d", tc.price, got, tc.want)
		}
	}
}
