package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docportal/auth"
	"docportal/booking"
	"docportal/catalog"
	"docportal/db"
	"docportal/doctors"
	"docportal/middleware"
	"docportal/mq"
	"docportal/pay"
	"docportal/ratelim"
	"docportal/rdx"
	"docportal/routes"
	"docportal/users"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "Doctors portal server running")
}

func health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":5000"
	} else if port[0] != ':' {
		port = ":" + port
	}

	secret := os.Getenv("ACCESS_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET is not set")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := db.Connect(ctx, mongoURI)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Redis is optional: without it, booking events and the payment
	// double-submit lock are skipped.
	redisClient, err := rdx.Connect(context.Background())
	if err != nil {
		log.Printf("Redis unavailable, continuing without events: %v", err)
		redisClient = nil
	} else {
		go mq.StartNotificationWorker(redisClient)
	}

	tokens := auth.New([]byte(secret))
	gate := middleware.NewGate(tokens, users.RoleOf(store.Users))
	rateLimiter := ratelim.NewRateLimiter()
	hub := booking.NewHub()

	bookingHandler := &booking.Handler{
		Ledger:        booking.NewLedger(booking.NewMongoStore(store)),
		Events:        mq.NewEmitter(redisClient),
		Hub:           hub,
		ReceiptSecret: []byte(secret),
	}
	userHandler := users.NewHandler(store.Users, tokens)
	doctorHandler := doctors.NewHandler(store.Doctors)
	catalogHandler := catalog.NewHandler(store.Services)
	payHandler := pay.NewHandler(os.Getenv("STRIPE_SECRET_KEY"), redisClient)

	router := httprouter.New()
	router.GET("/", index)
	router.GET("/health", health)
	routes.AddUserRoutes(router, userHandler, gate, rateLimiter)
	routes.AddBookingRoutes(router, bookingHandler, gate, rateLimiter)
	routes.AddCatalogRoutes(router, catalogHandler)
	routes.AddDoctorRoutes(router, doctorHandler, gate)
	routes.AddPayRoutes(router, payHandler, gate)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Doctors portal listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Server stopped cleanly")
}
