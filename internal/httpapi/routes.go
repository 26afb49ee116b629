package httpapi

import "github.com/gin-gonic/gin"

// Register wires the record API onto r.
// Keep this free of business logic; handlers delegate to the record service.
func Register(r gin.IRouter, h Handlers) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/records", h.ListRecords)
		api.POST("/records", h.CreateRecord)
		api.DELETE("/records/:id", h.DeleteRecord)

		api.GET("/stats", h.Stats)
		api.GET("/clients", h.Clients)
		api.GET("/developers", h.Developers)

		api.GET("/export/csv", h.ExportCSV)
	}
}
