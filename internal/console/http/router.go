package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/obs"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/jwtx"
	"github.com/waypointhq/console/pkg/slogx"

	_ "github.com/waypointhq/console/api/console" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	baseURL      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	GateService         *service.AccessGateService
	RegistrationService *service.RegistrationService
	InviteService       *service.InviteService
	ApprovalService     *service.ApprovalService
	EmailChangeService  *service.EmailChangeService
	ProfileService      *service.ProfileService
	DirectoryService    *service.DirectoryService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	baseURL, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		baseURL:      baseURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerRegistration()
	r.registerInvites()
	r.registerApprovals()
	r.registerProfile()
	r.registerDirectory()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Admin Console API
//	@version		0.1.0
//	@description	Identity lifecycle and access control for the admin console: invitation tokens, pending-approval registration, role-gated login, and verified email changes.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs minted per login; a process restart invalidates outstanding sessions.
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
//	@description				Console session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{GateService: r.GateService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerRegistration() {
	// POST /signup - strict rate limit by IP + email to slow invite brute force
	signupHandler := &SignupHandler{RegistrationService: r.RegistrationService}
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerInvites() {
	mintHandler := &InviteMintHandler{
		InviteService: r.InviteService,
		BaseURL:       r.baseURL,
	}

	// POST /invites - moderate rate limit by user (admin operation)
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(mintHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerApprovals() {
	h := &PendingHandler{ApprovalService: r.ApprovalService}

	secured := func(hf http.HandlerFunc) http.Handler {
		return httpx.Chain(hf,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/pending", secured(h.HandleList))
	r.Mux.Handle("POST /v1/pending/{id}/approve", secured(h.HandleApprove))
	r.Mux.Handle("POST /v1/pending/{id}/reject", secured(h.HandleReject))
}

func (r *Router) registerProfile() {
	emailHandler := &EmailHandler{
		EmailChangeService: r.EmailChangeService,
		BaseURL:            r.baseURL,
	}
	profileHandler := &ProfileHandler{ProfileService: r.ProfileService}

	secured := func(hf http.HandlerFunc) http.Handler {
		return httpx.Chain(hf,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/profile/email", secured(emailHandler.HandleRequest))
	r.Mux.Handle("POST /v1/profile/password", secured(profileHandler.HandlePassword))
	r.Mux.Handle("POST /v1/profile/name", secured(profileHandler.HandleName))

	// GET /email/verify - public link target, strict rate limit by IP
	r.Mux.Handle("GET /v1/email/verify",
		httpx.Chain(http.HandlerFunc(emailHandler.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerDirectory() {
	usersHandler := &UsersHandler{DirectoryService: r.DirectoryService}
	shopsHandler := &ShopsHandler{DirectoryService: r.DirectoryService}

	secured := func(hf http.HandlerFunc) http.Handler {
		return httpx.Chain(hf,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", secured(usersHandler.HandleList))
	r.Mux.Handle("DELETE /v1/users/{uid}", secured(usersHandler.HandleDelete))

	r.Mux.Handle("GET /v1/shops", secured(shopsHandler.HandleList))
	r.Mux.Handle("POST /v1/shops", secured(shopsHandler.HandleCreate))
	r.Mux.Handle("PUT /v1/shops/{id}", secured(shopsHandler.HandleUpdate))
	r.Mux.Handle("DELETE /v1/shops/{id}", secured(shopsHandler.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", obs.Handler())
}
