package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	httpapi "github.com/makerstash/diy-backend/internal/api/http"
	"github.com/makerstash/diy-backend/internal/api/http/middleware"
	projecthttp "github.com/makerstash/diy-backend/internal/projects/http"
	"github.com/makerstash/diy-backend/internal/projects/repository"
	uploadhttp "github.com/makerstash/diy-backend/internal/uploads/http"
	uploadstorage "github.com/makerstash/diy-backend/internal/uploads/storage"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Store       repository.Store
	Images      uploadstorage.ImageStore

	CORSOrigins    []string
	MaxUploadBytes int64
	// UploadDir, when set, is served statically at /uploads (local driver).
	UploadDir string
	// UploadRPS/UploadBurst bound the per-client upload rate; zero values
	// fall back to one request per second with a small burst.
	UploadRPS   rate.Limit
	UploadBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware(dep.CORSOrigins))

	if dep.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = dep.MaxUploadBytes
		r.Use(maxBodyBytes(dep.MaxUploadBytes))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	if dep.UploadDir != "" {
		r.Static("/uploads", dep.UploadDir)
	}

	api := r.Group("/api")

	projecthttp.Register(api.Group("/projects"), dep.Store)

	rps := dep.UploadRPS
	if rps == 0 {
		rps = 1
	}
	burst := dep.UploadBurst
	if burst == 0 {
		burst = 5
	}
	uploadhttp.Register(api.Group("/upload"), dep.Images, middleware.RateLimit(rps, burst))

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}

	cfg.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

func maxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
