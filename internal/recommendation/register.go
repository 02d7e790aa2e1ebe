package recommendation

import (
	"database/sql"
	"net/http"

	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/controller"
	"github.com/plipplupp/forecast-to-clothing/internal/recommendation/repository"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB) {
	recommendationRepository := repository.NewRepository(db)
	recommendationController := controller.NewRecommendationController(recommendationRepository)
	recommendationController.RegisterRoutes(mux)
}
