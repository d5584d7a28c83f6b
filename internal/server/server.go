// Package server exposes the invoice workflow over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	"github.com/sanoh-intern/be-finance-accounting/internal/invoice"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/email"
	"github.com/sanoh-intern/be-finance-accounting/internal/providers/pdf"
	"github.com/sanoh-intern/be-finance-accounting/internal/sequence"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
	taxdomain "github.com/sanoh-intern/be-finance-accounting/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	email.Module,
	pdf.Module,
	sequence.Module,
	storage.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	invoiceSvc invoicedomain.Service
	taxSvc     taxdomain.Service
	store      storage.Store
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
	TaxSvc     taxdomain.Service
	Store      storage.Store
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		invoiceSvc: p.InvoiceSvc,
		taxSvc:     p.TaxSvc,
		store:      p.Store,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/:role", s.AuthRequired())

	anyRole := s.RequireRole(auth.RoleSuperAdmin, auth.RoleFinance, auth.RoleSupplier)
	backOffice := s.RequireRole(auth.RoleSuperAdmin, auth.RoleFinance)

	// -------- Invoice headers --------
	api.GET("/inv-header", anyRole, s.ListInvHeaders)
	api.GET("/inv-header/bp-code/:bp_code", backOffice, s.ListInvHeadersByBPCode)
	api.GET("/inv-header/detail/:inv_no", anyRole, s.GetInvHeader)
	api.POST("/inv-header/store", s.RequireRole(auth.RoleFinance, auth.RoleSupplier), s.StoreInvHeader)
	api.PUT("/inv-header/:inv_no", backOffice, s.UpdateInvHeader)
	api.PUT("/inv-header/in-process/:inv_no", backOffice, s.MarkInvHeaderInProcess)
	api.POST("/inv-header/upload-payment/:inv_no", backOffice, s.UploadInvHeaderPayment)
	api.POST("/inv-header/receipt/:inv_no", backOffice, s.GenerateInvHeaderReceipt)

	// -------- Invoice lines --------
	api.GET("/inv-line/outstanding", anyRole, s.ListOutstandingInvLines)
	api.GET("/inv-line/outstanding/:bp_code", backOffice, s.ListOutstandingInvLinesByBPCode)
	api.GET("/inv-line/:inv_no", anyRole, s.ListInvLines)

	// -------- Tax rates --------
	api.GET("/ppn", anyRole, s.ListPPN)
	api.GET("/pph", anyRole, s.ListPPH)

	// -------- Stored documents --------
	api.GET("/files/:folder/:filename", anyRole, s.StreamDocument)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
