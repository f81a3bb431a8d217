package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/pkg/httpx"
	"github.com/lanternsoft/lantern/pkg/jwtx"
	"github.com/lanternsoft/lantern/pkg/slogx"

	_ "github.com/lanternsoft/lantern/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	Guard          *service.AccessGuard
	TokenService   *service.TokenService
	AccountService *service.AccountService
	PostService    *service.PostService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPosts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Lantern API
//	@version		0.1.0
//	@description	Account, session and content service. Sessions use short-lived
//	@description	EdDSA access tokens plus single-use refresh tokens with rotation;
//	@description	reuse of a consumed refresh token signs the account out everywhere.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT credential. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Accounts: r.AccountService, Tokens: r.TokenService}

	// Credential-issuing endpoints all take the strict per-IP limit; they
	// are the brute-force surface.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleGoogle),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.AccountService}
	guard := httpx.AuthnMiddleware(r.Guard)
	limit := httpx.RateLimitByIP(httpx.LenientLimit)

	r.Mux.Handle("GET /v1/users/me", httpx.Chain(http.HandlerFunc(h.HandleMe), guard, limit))
	r.Mux.Handle("DELETE /v1/users/me", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard, limit))
	r.Mux.Handle("GET /v1/users", httpx.Chain(http.HandlerFunc(h.HandleList), guard, limit))
	r.Mux.Handle("GET /v1/users/search/{name}", httpx.Chain(http.HandlerFunc(h.HandleSearch), guard, limit))
	r.Mux.Handle("GET /v1/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), guard, limit))
	r.Mux.Handle("PUT /v1/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), guard, limit))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{Posts: r.PostService}
	guard := httpx.AuthnMiddleware(r.Guard)
	limit := httpx.RateLimitByIP(httpx.LenientLimit)

	r.Mux.Handle("POST /v1/posts", httpx.Chain(http.HandlerFunc(h.HandleCreate), guard, limit))
	r.Mux.Handle("GET /v1/posts", httpx.Chain(http.HandlerFunc(h.HandleList), guard, limit))
	r.Mux.Handle("GET /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), guard, limit))
	r.Mux.Handle("PUT /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), guard, limit))
	r.Mux.Handle("DELETE /v1/posts/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard, limit))
	r.Mux.Handle("POST /v1/posts/{id}/comments", httpx.Chain(http.HandlerFunc(h.HandleAddComment), guard, limit))
	r.Mux.Handle("GET /v1/posts/{id}/comments", httpx.Chain(http.HandlerFunc(h.HandleListComments), guard, limit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier))
}
