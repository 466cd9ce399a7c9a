package routes

import (
	"net/http"
	"strings"

	"docportal/booking"
	"docportal/catalog"
	"docportal/doctors"
	"docportal/middleware"
	"docportal/pay"
	"docportal/ratelim"
	"docportal/users"

	"github.com/julienschmidt/httprouter"
)

func AddUserRoutes(router *httprouter.Router, h *users.Handler, gate *middleware.Gate, rl *ratelim.RateLimiter) {
	upsert := rl.Limit(h.Upsert)
	promote := gate.AdminOnly(h.MakeAdmin)

	// httprouter cannot register both /user/:email and /user/admin/:email
	// (static segment conflicts with the wildcard), so PUT /user/* is
	// dispatched by hand.
	router.PUT("/user/*path", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		path := strings.TrimPrefix(ps.ByName("path"), "/")
		if email, ok := strings.CutPrefix(path, "admin/"); ok && email != "" && !strings.Contains(email, "/") {
			promote(w, r, httprouter.Params{{Key: "email", Value: email}})
			return
		}
		if path == "" || strings.Contains(path, "/") {
			http.NotFound(w, r)
			return
		}
		upsert(w, r, httprouter.Params{{Key: "email", Value: path}})
	})

	router.GET("/users", gate.Authenticate(h.List))
	router.GET("/admin/:email", h.IsAdmin)
}

func AddBookingRoutes(router *httprouter.Router, h *booking.Handler, gate *middleware.Gate, rl *ratelim.RateLimiter) {
	router.POST("/booking", rl.Limit(h.Create))
	router.GET("/booking", gate.Authenticate(h.ListByPatient))
	router.GET("/booking/:id", gate.Authenticate(h.Get))
	router.PATCH("/booking/:id", gate.Authenticate(h.Confirm))
	router.GET("/booking/:id/receipt", gate.Authenticate(h.Receipt))
	router.GET("/available", h.Available)
	router.GET("/available/updates", h.Hub.Updates)
}

func AddCatalogRoutes(router *httprouter.Router, h *catalog.Handler) {
	router.GET("/service", h.List)
}

func AddDoctorRoutes(router *httprouter.Router, h *doctors.Handler, gate *middleware.Gate) {
	router.POST("/doctor", gate.AdminOnly(h.Add))
	router.GET("/doctor", gate.AdminOnly(h.List))
	router.DELETE("/doctor/:email", gate.AdminOnly(h.Remove))
}

func AddPayRoutes(router *httprouter.Router, h *pay.Handler, gate *middleware.Gate) {
	router.POST("/payment-intent", gate.Authenticate(h.CreateIntent))
}
