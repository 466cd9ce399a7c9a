package users

import (
	"context"
	"encoding/json"
	"net/http"

	"docportal/auth"
	"docportal/middleware"
	"docportal/models"
	"docportal/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	users  *mongo.Collection
	tokens *auth.Tokens
}

func NewHandler(users *mongo.Collection, tokens *auth.Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// RoleOf returns the store-backed role resolver used by the admin gate.
// An identity with no user record is an ordinary patient, not an error.
func RoleOf(users *mongo.Collection) middleware.RoleFunc {
	return func(ctx context.Context, email string) (string, error) {
		var u models.User
		err := users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
		if err == mongo.ErrNoDocuments {
			return "patient", nil
		}
		if err != nil {
			return "", err
		}
		if u.Role == "admin" {
			return "admin", nil
		}
		return "patient", nil
	}
}

// PUT /user/:email (public). Upserts the profile and issues a fresh
// credential, so first login and profile update are the same call.
// Role and _id are stripped from the body: role changes only go through
// the admin promotion endpoint.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	var profile map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	// A body of literal null decodes without error and leaves the map nil.
	if profile == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	delete(profile, "_id")
	delete(profile, "role")
	profile["email"] = email

	res, err := h.users.UpdateOne(
		r.Context(),
		bson.M{"email": email},
		bson.M{"$set": profile},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to upsert user")
		return
	}

	token, err := h.tokens.Issue(email)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"result": res,
		"token":  token,
	})
}

// GET /users (authenticated).
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := h.users.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cur.Close(r.Context())

	users := []models.User{}
	if err := cur.All(r.Context(), &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// PUT /user/admin/:email (admin). Promoting an unknown email is a 404,
// not a silent no-op.
func (h *Handler) MakeAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	res, err := h.users.UpdateOne(
		r.Context(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": "admin"}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /admin/:email (public). Unknown users are simply not admins.
func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var u models.User
	err := h.users.FindOne(r.Context(), bson.M{"email": ps.ByName("email")}).Decode(&u)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"admin": u.Role == "admin"})
}
