package router // package router assembles the echo app: global middleware, the guard and every route

import (
	"net/http" // net/http supplies the method names used by CORS

	"github.com/labstack/echo/v4"                   // echo is the web framework used for this project
	echomw "github.com/labstack/echo/v4/middleware" // echo's stock middleware (CORS, recover, logger)

	"github.com/iliyamo/postboard/internal/handler"    // handlers that implement the endpoints
	"github.com/iliyamo/postboard/internal/middleware" // JWT guard, rate limiter and response cache
)

// Deps holds everything the routes need.  RateLimiter and Cache may be nil,
// in which case their middleware passes every request through.
type Deps struct {
	Users       handler.UserStore
	Posts       handler.PostStore
	Votes       handler.VoteStore
	Hasher      handler.PasswordHasher
	Tokens      Tokens
	Events      handler.EventPublisher
	RateLimiter *middleware.RateLimiter
	Cache       *middleware.ResponseCache
	CORSOrigins []string
	// AccessLog enables echo's request logger.
	AccessLog bool
}

// Tokens both issues tokens at login and verifies them in the guard.
type Tokens interface {
	handler.TokenIssuer
	middleware.TokenVerifier
}

// New builds the echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	// Request schemas carry `validate` tags; c.Validate runs them.
	e.Validator = handler.NewValidator()

	// Pre middleware runs before routing, so /posts/ and /posts match the same route.
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	if d.AccessLog {
		e.Use(echomw.Logger())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins(d.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
	}))

	// The rate limiter is not installed globally.  Public routes get it
	// directly; protected routes get it after the guard so that user-keyed
	// strategies see the authenticated user instead of "anon".
	RegisterRoutes(e)
	RegisterAuth(e, d)
	RegisterPosts(e, d)
	return e
}

func origins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"} // allow every origin, as the original API did
	}
	return in
}

// RegisterRoutes registers the unauthenticated service endpoints.  They are
// not rate limited so that health checks never get a 429.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	// Load balancers and monitoring poll /healthz to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration, login and the user reads.  User reads
// require a token; single-user reads are served through the response cache
// because a user never changes after registration.
func RegisterAuth(e *echo.Echo, d Deps) {
	users := handler.NewUserHandler(d.Users, d.Hasher, d.Events)
	login := handler.NewAuthHandler(d.Users, d.Hasher, d.Tokens)
	limit := d.RateLimiter.Middleware()

	// Registration and login are open, keyed by IP and route for the limiter.
	e.POST("/users", users.Register, limit)
	e.POST("/login", login.Login, limit)

	// Everything below needs a bearer token; the limiter runs after the guard.
	guard := middleware.JWTAuth(d.Tokens, d.Users)
	e.GET("/me", users.Me, guard, limit)

	g := e.Group("/users", guard, limit)
	// The list changes with every registration, so it is never cached.
	g.GET("", users.List)
	g.GET("/:id", users.Get, d.Cache.Middleware())
}

// RegisterPosts registers the post and vote routes, all behind the guard.
func RegisterPosts(e *echo.Echo, d Deps) {
	posts := handler.NewPostHandler(d.Posts, d.Events)
	votes := handler.NewVoteHandler(d.Votes, d.Events)
	guard := middleware.JWTAuth(d.Tokens, d.Users)
	limit := d.RateLimiter.Middleware()

	g := e.Group("/posts", guard, limit)
	g.GET("", posts.List)
	// Static segments win over params in echo, so /latest never reaches Get.
	g.GET("/latest", posts.Latest)
	g.GET("/:id", posts.Get)
	g.POST("", posts.Create)
	g.PUT("/:id", posts.Replace)   // full replacement; title and content required
	g.PATCH("/:id", posts.Patch)   // partial update of the fields present
	g.DELETE("/:id", posts.Delete) // 204, votes go with the post

	e.POST("/vote", votes.Vote, guard, limit)
}
