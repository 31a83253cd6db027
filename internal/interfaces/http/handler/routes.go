package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vikalp/backend/internal/interfaces/http/router"
)

// InvoiceRoutes creates the route group for invoices and their documents.
// exportLimit guards the export endpoint and may be nil.
func InvoiceRoutes(invoices *InvoiceHandler, docs *DocumentHandler, authMiddleware, exportLimit gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")
	group.Use(authMiddleware)

	group.POST("/calculate", invoices.Calculate)
	group.POST("", invoices.Submit)
	group.GET("", invoices.List)
	group.GET("/:id", invoices.Get)
	group.DELETE("/:id", invoices.Delete)

	group.GET("/:id/document", docs.Document)
	group.GET("/:id/download-pdf", docs.DownloadPDF)
	if exportLimit != nil {
		group.GET("/:id/export", exportLimit, docs.Export)
	} else {
		group.GET("/:id/export", docs.Export)
	}

	return group
}

// ExportRoutes creates the route group for export job records
func ExportRoutes(docs *DocumentHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("exports", "/exports")
	group.Use(authMiddleware)
	group.GET("/:id", docs.GetExportJob)
	return group
}

// CustomerRoutes creates the route group for customers
func CustomerRoutes(desk *ServiceDeskHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("customers", "/customers")
	group.Use(authMiddleware)
	group.POST("", desk.CreateCustomer)
	group.PUT("/:id", desk.UpdateCustomer)
	group.DELETE("/:id", desk.DeleteCustomer)
	return group
}

// LookupRoutes creates the public route group for customer self-service.
// It carries no JWT; lookupLimit throttles each caller and may be nil.
func LookupRoutes(h *LookupHandler, lookupLimit gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("lookup", "/customers/lookup")
	group.Use(lookupLimit)
	group.GET("/:mobile", h.Lookup)
	group.GET("/:mobile/invoices/:id/export", h.Export)
	return group
}

// ComplaintRoutes creates the route group for complaints
func ComplaintRoutes(desk *ServiceDeskHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("complaints", "/complaints")
	group.Use(authMiddleware)
	group.POST("", desk.RaiseComplaint)
	group.GET("/:id/invoice-draft", desk.InvoiceDraft)
	group.PUT("/:id/status", desk.UpdateComplaintStatus)
	return group
}

// DashboardRoutes creates the route group for the dashboard
func DashboardRoutes(desk *ServiceDeskHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("dashboard", "/dashboard")
	group.Use(authMiddleware)
	group.GET("/stats", desk.DashboardStats)
	return group
}

// AuthRoutes creates the route group for the current session
func AuthRoutes(h *AuthHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("auth", "/auth")
	group.Use(authMiddleware)
	group.GET("/me", h.Me)
	group.POST("/logout", h.Logout)
	return group
}

// SystemRoutes creates the unauthenticated health endpoints, mounted at the root
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "")
	group.GET("/health", h.Health)
	group.GET("/ready", h.Ready)
	group.GET("/system/info", h.GetSystemInfo)
	return group
}
