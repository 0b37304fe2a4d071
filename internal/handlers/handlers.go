package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/config"
	"github.com/lord-einar/megasys/internal/middleware"
	"github.com/lord-einar/megasys/internal/permissions"
	"github.com/lord-einar/megasys/internal/repository"
	"github.com/lord-einar/megasys/internal/service"
	"github.com/lord-einar/megasys/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	remitoService *service.RemitoService
	avisos        *service.AvisoPublisher
	db            *pgxpool.Pool
	cache         *redis.Client
	photos        *storage.PhotoStore
	users         *repository.UserRepository
	sessions      *repository.SessionRepository
	sedes         *repository.SedeRepository
	personal      *repository.PersonalRepository
	inventario    *repository.InventarioRepository
	remitos       *repository.RemitoRepository
	visitas       *repository.VisitaRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, photos *storage.PhotoStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	sedeRepo := repository.NewSedeRepository(db)
	personalRepo := repository.NewPersonalRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	remitoRepo := repository.NewRemitoRepository(db)
	visitaRepo := repository.NewVisitaRepository(db)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   service.NewAuthService(userRepo, sessionRepo, cfg, log),
		remitoService: service.NewRemitoService(remitoRepo, inventarioRepo, log),
		avisos:        service.NewAvisoPublisher(cache, log),
		db:            db,
		cache:         cache,
		photos:        photos,
		users:         userRepo,
		sessions:      sessionRepo,
		sedes:         sedeRepo,
		personal:      personalRepo,
		inventario:    inventarioRepo,
		remitos:       remitoRepo,
		visitas:       visitaRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	// Public auth surface: login URL, IdP callback, refresh. Everything else
	// sits behind the bearer middleware.
	auth := v1.Group("/auth")
	auth.GET("/login", h.LoginURL)
	auth.GET("/callback", h.Callback)
	auth.POST("/login/local", h.LoginLocal)
	auth.POST("/refresh", h.Refresh)

	authed := v1.Group("/auth")
	authed.Use(middleware.Auth(h.cfg, h.users, h.sessions))
	authed.GET("/me", h.Me)
	authed.POST("/logout", h.Logout)

	protected := v1.Group("")
	protected.Use(middleware.Auth(h.cfg, h.users, h.sessions))

	registerResource(protected, "sedes", resourceRoutes{
		list:   h.ListSedes,
		get:    h.GetSede,
		create: h.CreateSede,
		update: h.UpdateSede,
		delete: h.DeleteSede,
	})
	registerResource(protected, "personal", resourceRoutes{
		list:   h.ListPersonal,
		get:    h.GetPersonal,
		create: h.CreatePersonal,
		update: h.UpdatePersonal,
		delete: h.DeletePersonal,
	})
	registerResource(protected, "inventario", resourceRoutes{
		list:   h.ListInventario,
		get:    h.GetInventarioItem,
		create: h.CreateInventarioItem,
		update: h.UpdateInventarioItem,
		delete: h.DeleteInventarioItem,
	})

	remitos := protected.Group("/remitos")
	remitos.GET("", middleware.RequirePermission(permissions.ResourceRemitos, permissions.ActionRead), h.ListRemitos)
	remitos.GET("/:id", middleware.RequirePermission(permissions.ResourceRemitos, permissions.ActionRead), h.GetRemito)
	remitos.POST("", middleware.RequirePermission(permissions.ResourceRemitos, permissions.ActionCreate), h.CreateRemito)
	remitos.POST("/:id/devolver", middleware.RequirePermission(permissions.ResourceRemitos, permissions.ActionDevolver), h.DevolverRemito)

	visitas := protected.Group("/visitas")
	visitas.GET("", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionRead), h.ListVisitas)
	visitas.GET("/:id", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionRead), h.GetVisita)
	visitas.POST("", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionCreate), h.CreateVisita)
	visitas.PUT("/:id", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionUpdate), h.UpdateVisita)
	visitas.DELETE("/:id", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionDelete), h.DeleteVisita)
	visitas.POST("/:id/aviso", middleware.RequirePermission(permissions.ResourceVisitas, permissions.ActionEnviarAviso), h.EnviarAvisoVisita)

	usuarios := protected.Group("/usuarios")
	usuarios.Use(middleware.RequireRole(permissions.RoleSuperAdmin))
	usuarios.GET("", h.ListUsuarios)
	usuarios.PUT("/:id/role", h.UpdateUsuarioRole)
	usuarios.PUT("/:id/status", h.UpdateUsuarioStatus)
}

type resourceRoutes struct {
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	create gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

// registerResource wires standard CRUD routes, each gated by the capability
// table entry for (resource, action).
func registerResource(parent *gin.RouterGroup, resource string, routes resourceRoutes) {
	group := parent.Group("/" + resource)
	group.GET("", middleware.RequirePermission(resource, permissions.ActionRead), routes.list)
	group.GET("/:id", middleware.RequirePermission(resource, permissions.ActionRead), routes.get)
	group.POST("", middleware.RequirePermission(resource, permissions.ActionCreate), routes.create)
	group.PUT("/:id", middleware.RequirePermission(resource, permissions.ActionUpdate), routes.update)
	group.DELETE("/:id", middleware.RequirePermission(resource, permissions.ActionDelete), routes.delete)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
