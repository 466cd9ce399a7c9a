package pay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"docportal/middleware"
	"docportal/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// lockTTL bounds how long a caller's intent lock is held.
const lockTTL = 5 * time.Second

// locker is the slice of the redis client the double-submit lock needs;
// narrowed so tests can fake it.
type locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Handler struct {
	rdx locker
}

// NewHandler configures the Stripe client. rdx may be nil; the
// double-submit lock is skipped then.
func NewHandler(secretKey string, rdx *redis.Client) *Handler {
	stripe.Key = secretKey
	h := &Handler{}
	if rdx != nil {
		h.rdx = rdx
	}
	return h
}

// acquireLock takes the per-caller double-submit lock. The release func
// is nil unless this request holds the lock: a failed SetNX must never
// delete a lock a concurrent request legitimately owns.
func (h *Handler) acquireLock(ctx context.Context, email string) (release func(), proceed bool) {
	if h.rdx == nil {
		return nil, true
	}
	key := "intent_lock:" + email
	acquired, err := h.rdx.SetNX(ctx, key, "1", lockTTL).Result()
	if err != nil {
		log.Printf("pay: intent lock for %s: %v", email, err)
		return nil, true
	}
	if !acquired {
		return nil, false
	}
	return func() { h.rdx.Del(ctx, key) }, true
}

// intentAmount converts a catalog price to the gateway's minor units.
func intentAmount(price int64) int64 {
	return price * 100
}

// POST /payment-intent (authenticated). Forwards price*100 minor units
// with a fixed currency to the gateway and returns its client secret
// verbatim. Gateway failures surface to the caller; nothing is retried.
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var service struct {
		Price int64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil || service.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	email, _ := middleware.Email(r.Context())
	release, proceed := h.acquireLock(r.Context(), email)
	if !proceed {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Payment intent already in flight")
		return
	}
	if release != nil {
		defer release()
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(intentAmount(service.Price)),
		Currency:           stripe.String(string(stripe.CurrencyINR)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("pay: create intent for %s: %v", email, err)
		utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"clientSecret": intent.ClientSecret,
	})
}
