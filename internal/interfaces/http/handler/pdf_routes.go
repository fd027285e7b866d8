package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/router"
)

// PDFRoutes creates the route group for the PDF endpoints
func PDFRoutes(handler *PDFHandler, middleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("pdf", "/pdf")
	group.Use(middleware...)

	group.POST("/render", handler.RenderChecklist)
	group.POST("/render-job-ticket", handler.RenderJobTicket)
	group.POST("/render-job-ticket-with-images", handler.RenderJobTicketWithImages)
	group.POST("/render-job-ticket-short-work-period", handler.RenderJobTicketShortWorkPeriod)

	group.GET("/templates", handler.ListTemplates)

	return group
}
