package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the router used by both serve modes:
// - OPTIONS on any path is answered by the CORS middleware
// - GET and HEAD are served from root
// - any other method gets 501 Not Implemented
//
// mux only runs middleware for matched routes, so the fallback handlers are
// wrapped explicitly; "OPTIONS *" ends up there.
func NewRouter(root string, logger Logger) *mux.Router {
	middleware := []mux.MiddlewareFunc{WithAccessLog(logger), WithPermissiveCORS}

	router := mux.NewRouter()
	// Leave path cleaning to http.FileServer so directory redirects keep
	// their usual behaviour and their CORS headers.
	router.SkipClean(true)
	router.Use(middleware...)

	router.Methods(http.MethodGet, http.MethodHead).Handler(StaticHandler(root))
	router.PathPrefix("/").HandlerFunc(unsupportedMethod)

	router.NotFoundHandler = chain(http.NotFoundHandler(), middleware)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(unsupportedMethod), middleware)

	return router
}

// chain applies middleware the way mux does: the first entry is outermost.
func chain(h http.Handler, middleware []mux.MiddlewareFunc) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
