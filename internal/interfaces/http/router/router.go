package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

type mount struct {
	prefix    string
	registrar RouteRegistrar
}

// Router mounts the resources of one service under its context path
type Router struct {
	engine      *gin.Engine
	contextPath string
	root        gin.HandlerFunc
	mounts      []mount
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithContextPath sets the path every resource is served under (e.g. "/payment-service")
func WithContextPath(path string) RouterOption {
	return func(r *Router) {
		r.contextPath = "/" + strings.Trim(path, "/")
		if r.contextPath == "/" {
			r.contextPath = ""
		}
	}
}

// WithRoot serves GET / at the engine root, outside the context path
func WithRoot(h gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.root = h
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ContextPath returns the path resources are mounted under
func (r *Router) ContextPath() string {
	return r.contextPath
}

// Register mounts registrar at prefix below the context path
func (r *Router) Register(prefix string, registrar RouteRegistrar) *Router {
	r.mounts = append(r.mounts, mount{prefix: prefix, registrar: registrar})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	if r.root != nil {
		r.engine.GET("/", r.root)
	}
	base := r.engine.Group(r.contextPath)
	for _, m := range r.mounts {
		m.registrar.RegisterRoutes(base.Group(m.prefix))
	}
}

// DomainGroup is a declarative set of routes mounted as one registrar
type DomainGroup struct {
	name       string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new named route group
func NewDomainGroup(name string) *DomainGroup {
	return &DomainGroup{name: name}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	if len(dg.middleware) > 0 {
		rg.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		rg.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}
