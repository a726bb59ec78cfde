package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/verdara/verdara-backend/internal/api/http"
	"github.com/verdara/verdara-backend/internal/api/http/middleware"
	"github.com/verdara/verdara-backend/internal/auth"
	designshttp "github.com/verdara/verdara-backend/internal/designs/http"
	designsvc "github.com/verdara/verdara-backend/internal/designs/service"
	pricinghttp "github.com/verdara/verdara-backend/internal/pricing/http"
	pricingrepo "github.com/verdara/verdara-backend/internal/pricing/repository"
	pricingsvc "github.com/verdara/verdara-backend/internal/pricing/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Environment string

	AuthClient *fbauth.Client
	Designs    *designsvc.DesignService
	Estimator  *pricingsvc.Estimator
	Prices     *pricingrepo.PriceStore
	History    *pricingrepo.EstimateHistoryRepo

	DB    *pgxpool.Pool
	Cache *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	designsHandler := designshttp.New(dep.Designs)
	designsHandler.RegisterPublic(api)

	authed := api.Group("")
	authed.Use(auth.RequireUser(dep.AuthClient))

	designsGroup := authed.Group("/designs")
	designsHandler.Register(designsGroup)

	pricingHandler := pricinghttp.New(dep.Estimator, dep.Prices, dep.History)
	pricingHandler.Register(authed)

	return r
}
