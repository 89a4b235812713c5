package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/worklane/worklane-backend/internal/api/http"
	projectshttp "github.com/worklane/worklane-backend/internal/projects/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Projects    *projectshttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	dep.Projects.Register(api)

	return r
}
