/* router.go
 * Contains the route table. Every route is served at the root and again under /api
 * Authors: knockout-pool contributors
 */

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// NewHandler builds the HTTP handler for the pool, wrapped in a CORS policy that allows any origin.
// Forwarding headers are ignored unless the peer is one of cfg.TrustedProxies
func NewHandler(cfg Config) http.Handler {
	var clock clockwork.Clock
	if cfg.API != nil {
		clock = cfg.API.Clock
	}
	s := &Server{
		api:     cfg.API,
		limiter: newIPLimiter(cfg.LoginRatePerMinute, clock),
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("proxies", cfg.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(requestLogger(), gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	for _, base := range []string{"/", "/api"} {
		s.routes(r.Group(base))
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestHeader},
	}).Handler(r)
}

func (s *Server) routes(g *gin.RouterGroup) {
	g.GET("/health", s.health)

	credentials := g.Group("", rateLimit(s.limiter))
	credentials.POST("/register", s.register)
	credentials.POST("/login", s.login)

	user := g.Group("", requireAuth(s.api.Auth))
	user.GET("/user", s.user)
	user.GET("/teams", s.teams)
	user.GET("/teams/available", s.availableTeams)
	user.GET("/picks", s.picks)
	user.POST("/picks/submit", s.submitPicks)
	user.PUT("/picks/update", s.updatePicks)
	user.DELETE("/picks/delete/:id", s.deletePick)
	user.GET("/admin/settings", s.settings)

	admin := user.Group("/admin", s.requireAdmin())
	admin.GET("/users", s.adminUsers)
	admin.GET("/picks", s.adminPicks)
	admin.PUT("/settings", s.updateSettings)
	admin.POST("/settings/advance", s.advanceDay)
	admin.GET("/settings/history", s.settingsHistory)
	admin.POST("/team-availability", s.teamAvailability)
	admin.PUT("/users/:id/role", s.userRole)
	admin.PUT("/users/:id/status", s.userStatus)
}
