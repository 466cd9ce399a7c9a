package catalog

import (
	"net/http"

	"docportal/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	services *mongo.Collection
}

func NewHandler(services *mongo.Collection) *Handler {
	return &Handler{services: services}
}

// GET /service (public). Names only; the full schedule comes from
// /available.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := h.services.Find(r.Context(), bson.M{},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch services")
		return
	}
	defer cur.Close(r.Context())

	services := []bson.M{}
	if err := cur.All(r.Context(), &services); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch services")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, services)
}
