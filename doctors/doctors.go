package doctors

import (
	"encoding/json"
	"net/http"

	"docportal/models"
	"docportal/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handler struct {
	doctors *mongo.Collection
}

func NewHandler(doctors *mongo.Collection) *Handler {
	return &Handler{doctors: doctors}
}

// POST /doctor (admin).
func (h *Handler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doctor models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if doctor.Email == "" || doctor.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	res, err := h.doctors.InsertOne(r.Context(), doctor)
	if mongo.IsDuplicateKeyError(err) {
		utils.RespondWithError(w, http.StatusConflict, "Doctor already exists")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add doctor")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

// GET /doctor (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := h.doctors.Find(r.Context(), bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch doctors")
		return
	}
	defer cur.Close(r.Context())

	doctors := []models.Doctor{}
	if err := cur.All(r.Context(), &doctors); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch doctors")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doctors)
}

// DELETE /doctor/:email (admin).
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := h.doctors.DeleteOne(r.Context(), bson.M{"email": ps.ByName("email")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove doctor")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Doctor not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
