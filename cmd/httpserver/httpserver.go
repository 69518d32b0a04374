// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-split/internal/expensedelivery"
	"github.com/go-petr/pet-split/internal/expenserepo"
	"github.com/go-petr/pet-split/internal/expenseservice"
	"github.com/go-petr/pet-split/internal/groupdelivery"
	"github.com/go-petr/pet-split/internal/grouprepo"
	"github.com/go-petr/pet-split/internal/groupservice"
	"github.com/go-petr/pet-split/internal/memberdelivery"
	"github.com/go-petr/pet-split/internal/memberrepo"
	"github.com/go-petr/pet-split/internal/memberservice"
	"github.com/go-petr/pet-split/internal/middleware"
	"github.com/go-petr/pet-split/internal/settlementdelivery"
	"github.com/go-petr/pet-split/internal/settlementrepo"
	"github.com/go-petr/pet-split/internal/settlementservice"
	"github.com/go-petr/pet-split/pkg/configpkg"
	"github.com/go-petr/pet-split/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config, metrics *middleware.Metrics) (*Server, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	memberService := memberservice.New(memberrepo.NewRepoPGS(conn))
	groupService := groupservice.New(grouprepo.NewRepoPGS(conn))
	expenseService := expenseservice.New(expenserepo.NewRepoPGS(conn), groupService)
	settlementService := settlementservice.New(
		settlementrepo.NewRepoPGS(conn),
		groupService,
		metrics.SettlementTransfers,
	)

	memberHandler := memberdelivery.NewHandler(memberService)
	groupHandler := groupdelivery.NewHandler(groupService)
	expenseHandler := expensedelivery.NewHandler(expenseService)
	settlementHandler := settlementdelivery.NewHandler(settlementService)

	if config.Environment != configpkg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(metrics.Handler())
	engine.Use(gin.Recovery())

	engine.POST("/members", memberHandler.Create)
	engine.GET("/members/:username", memberHandler.Get)
	engine.GET("/members/:username/groups", groupHandler.ListByMember)

	engine.POST("/groups", groupHandler.Create)
	engine.GET("/groups/:id", groupHandler.Get)
	engine.PATCH("/groups/:id", groupHandler.Update)
	engine.DELETE("/groups/:id", groupHandler.Delete)
	engine.POST("/groups/:id/members", groupHandler.AddMember)
	engine.GET("/groups/:id/members", groupHandler.ListMembers)

	engine.POST("/groups/:id/expenses", expenseHandler.Create)
	engine.GET("/groups/:id/expenses", expenseHandler.List)
	engine.GET("/expenses/:id", expenseHandler.Get)
	engine.PUT("/expenses/:id", expenseHandler.Update)
	engine.DELETE("/expenses/:id", expenseHandler.Delete)

	engine.GET("/groups/:id/balances", settlementHandler.Balances)
	engine.GET("/groups/:id/settlements/suggested", settlementHandler.Suggest)
	engine.POST("/groups/:id/settlements", settlementHandler.Record)
	engine.GET("/groups/:id/settlements", settlementHandler.List)
	engine.POST("/settlements/:id/paid", settlementHandler.MarkPaid)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
		return fmt.Errorf("cannot register currency validator: %w", err)
	}

	if err := v.RegisterValidation("amount", currencypkg.ValidAmount); err != nil {
		return fmt.Errorf("cannot register amount validator: %w", err)
	}

	return nil
}
