package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lakefield/todoapi/auth"
	rh "github.com/lakefield/todoapi/route-handlers"
	"github.com/lakefield/todoapi/webutil"
)

const (
	todosBasePath = "/todos"
	usersBasePath = "/users"

	paramID = "id" // General parameter name for resource IDs
)

func SetupRoutes(
	todoHandler *rh.TodoHandler,
	userHandler *rh.UserHandler,
	tokens *auth.TokenService,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                                                 // Log every request
	r.Use(middleware.Recoverer)                                              // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second))                              // Set a timeout context for requests
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type

	configureTodoRoutes(r, todoHandler)
	configureUserRoutes(r, userHandler, tokens)

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// configureTodoRoutes wires the todo CRUD surface. The routes are not
// behind RequireAuth: todos carry a creator reference but access is not
// scoped to it in the current API contract.
func configureTodoRoutes(r chi.Router, handler *rh.TodoHandler) {
	specificTodoPath := "/{" + paramID + "}"

	r.Route(todosBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetTodos))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateTodo))
		r.Route(specificTodoPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetTodo))
			r.Patch("/", webutil.MakeHandler(handler.HandleUpdateTodo))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteTodo))
		})
	})
}

func configureUserRoutes(r chi.Router, handler *rh.UserHandler, tokens *auth.TokenService) {
	r.Route(usersBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(handler.HandleCreateUser))
		r.Post("/login", webutil.MakeHandler(handler.HandleLogin))

		r.Group(func(r chi.Router) {
			r.Use(tokens.RequireAuth)
			r.Get("/me", webutil.MakeHandler(handler.HandleGetMe))
			r.Delete("/me/token", webutil.MakeHandler(handler.HandleDeleteToken))
		})
	})
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
