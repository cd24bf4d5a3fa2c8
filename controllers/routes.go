// file: controllers/routes.go
package controllers

import (
	"net/http"

	"founders-fest/middleware"
	"founders-fest/models"

	"github.com/gin-gonic/gin"
)

// Routes holds every handler group mounted by RegisterRoutes. Nil groups are skipped.
type Routes struct {
	Auth        *AuthController
	Content     *ContentController
	Submissions *SubmissionController
	Intake      *IntakeController
	Settings    *SettingsController
	Uploads     *UploadController
	Mail        *MailController
	Pages       *PageController

	// Access decides who may enter /admin. A nil Access denies everyone.
	Access middleware.Guard
	// PublicCORS is applied to the public JSON API.
	PublicCORS gin.HandlerFunc
	// Feed serves the admin websocket.
	Feed http.HandlerFunc
}

// RegisterRoutes mounts the public API and the guarded admin area on router.
func RegisterRoutes(router *gin.Engine, r Routes) {
	router.GET("/health", Health)

	// ---------------- public ----------------
	api := router.Group("/api")
	if r.PublicCORS != nil {
		api.Use(r.PublicCORS)
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	if r.Content != nil {
		api.GET("/content/:name", r.Content.PublicList)
	}
	if r.Settings != nil {
		api.GET("/settings/home", r.Settings.Home)
		api.GET("/settings/about/:year", r.Settings.About)
		awards := r.Settings.KeyValues(models.AwardsContentTable)
		api.GET("/settings/awards", awards.List)
		api.GET("/settings/awards/:key", awards.Get)
		api.GET("/contact-info", r.Settings.KeyValues(models.ContactInfoTable).List)
	}
	if r.Intake != nil {
		api.POST("/attendees", r.Intake.RegisterAttendee)
		api.POST("/stall-bookings", r.Intake.BookStall)
		api.POST("/award-nominations", r.Intake.Nominate)
		api.POST("/contact-queries", r.Intake.SubmitContactQuery)
	}
	if r.Pages != nil {
		router.GET("/tickets/qr.png", r.Pages.TicketQRCode)
	}

	// ---------------- admin ----------------
	if r.Auth != nil {
		if r.Access != nil {
			router.GET(middleware.LoginPath, middleware.RedirectIfAdmin(r.Access), r.Auth.ShowLoginPage)
		} else {
			router.GET(middleware.LoginPath, r.Auth.ShowLoginPage)
		}
		router.POST(middleware.LoginPath, r.Auth.Login)
		router.POST("/admin/logout", r.Auth.Logout)
	}

	var guard gin.HandlerFunc
	if r.Access != nil {
		guard = middleware.AdminRequired(r.Access)
	} else {
		// fail closed when no guard is configured
		guard = func(c *gin.Context) {
			c.Redirect(http.StatusFound, middleware.LoginPath)
			c.Abort()
		}
	}
	admin := router.Group("/admin", guard)
	if r.Pages != nil {
		admin.GET("", r.Pages.Dashboard)
	}
	if r.Feed != nil {
		admin.GET("/ws", gin.WrapF(r.Feed))
	}

	adm := admin.Group("/api")
	if r.Content != nil {
		adm.GET("/collections", r.Content.Names)
		adm.GET("/collections/:name", r.Content.List)
		adm.POST("/collections/:name", r.Content.Add)
		adm.PATCH("/collections/:name/:id", r.Content.Update)
		adm.DELETE("/collections/:name/:id", r.Content.Remove)
		adm.POST("/collections/:name/:id/toggle", r.Content.ToggleVisible)
		adm.POST("/collections/:name/:id/move", r.Content.Move)
	}
	if r.Submissions != nil {
		adm.GET("/submissions/:kind", r.Submissions.List)
		adm.GET("/submissions/:kind/:id", r.Submissions.Detail)
		adm.POST("/submissions/:kind/:id/status", r.Submissions.SetStatus)
		adm.GET("/export/:kind", r.Submissions.Export)
		adm.POST("/tickets/:id", r.Submissions.ResendTicket)
		adm.GET("/deliveries", r.Submissions.DeliveriesList)
		adm.GET("/contact-queries", r.Submissions.ContactQueries)
	}
	if r.Settings != nil {
		s := r.Settings
		adm.GET("/settings/home", s.Home)
		adm.PUT("/settings/home", s.SaveHome)
		adm.GET("/settings/about/:year", s.About)
		adm.PUT("/settings/about/:year", s.SaveAbout)
		adm.GET("/settings/email/:key", s.Email)
		adm.PUT("/settings/email/:key", s.SaveEmail)
		for path, table := range map[string]string{
			"/settings/awards": models.AwardsContentTable,
			"/contact-info":    models.ContactInfoTable,
		} {
			kv := s.KeyValues(table)
			adm.GET(path, kv.List)
			adm.POST(path, kv.Create)
			adm.GET(path+"/:key", kv.Get)
			adm.PUT(path+"/:key", kv.Put)
			adm.DELETE(path+"/:key", kv.Delete)
		}
	}
	if r.Uploads != nil {
		adm.POST("/uploads", r.Uploads.Upload)
	}
	if r.Mail != nil {
		adm.POST("/email/send", r.Mail.Send)
	}
}
