package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Categories     *handlers.CategoriesHandler
	StaffDirectory *handlers.StaffHandler
	Payments       *handlers.PaymentsHandler
	Reports        *handlers.ReportsHandler
	Dashboard      *handlers.DashboardHandler
	Settings       *handlers.SettingsHandler
	Articles       *handlers.ArticlesHandler
	Templates      *handlers.TemplatesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. A single login serves every portal;
// role checks per group decide what a session may reach.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	// Student portal: own tickets and their threads.
	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Get("/:id/replies", cfg.Tickets.ListReplies)

	// Category picker is readable by any authenticated user.
	categories := app.Group("/categories", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	categories.Get("", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)

	categoryAdmin := categories.Group("", auth.RequireRole(domain.RoleAdmin))
	categoryAdmin.Post("", cfg.Categories.Create)
	categoryAdmin.Put("/:id", cfg.Categories.Update)
	categoryAdmin.Delete("/:id", cfg.Categories.Delete)

	// Knowledge base: published articles readable by any authenticated user.
	articles := app.Group("/articles", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	articles.Get("", cfg.Articles.ListPublished)
	articles.Get("/:id", cfg.Articles.GetPublished)
	articles.Post("/:id/feedback", cfg.Articles.Feedback)

	// Staff portal: the full queue plus lifecycle actions.
	staffOnly := auth.RequireRole(domain.RoleStaff, domain.RoleAdmin)
	staffTickets := app.Group("/staff/tickets", cfg.AuthMiddleware.Handle, staffOnly)
	staffTickets.Get("", cfg.StaffTickets.List)
	staffTickets.Get("/:id", cfg.StaffTickets.Get)
	staffTickets.Post("/:id/assign", cfg.StaffTickets.Assign)
	staffTickets.Post("/:id/resolve", cfg.StaffTickets.Resolve)
	staffTickets.Post("/:id/close", cfg.StaffTickets.Close)
	staffTickets.Patch("/:id/status", cfg.StaffTickets.UpdateStatus)
	staffTickets.Post("/:id/verify-payment", cfg.StaffTickets.VerifyPayment)
	staffTickets.Post("/:id/replies/from-template", cfg.Tickets.ReplyFromTemplate)
	staffTickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.StaffTickets.Delete)

	// Knowledge-base authoring portal.
	staffArticles := app.Group("/staff/articles", cfg.AuthMiddleware.Handle, staffOnly)
	staffArticles.Get("", cfg.Articles.ListAll)
	staffArticles.Get("/stats", cfg.Articles.Stats)
	staffArticles.Post("", cfg.Articles.Create)
	staffArticles.Get("/:id", cfg.Articles.Get)
	staffArticles.Put("/:id", cfg.Articles.Update)
	staffArticles.Patch("/:id/status", cfg.Articles.UpdateStatus)
	staffArticles.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Articles.Delete)

	articleCategories := app.Group("/article-categories", cfg.AuthMiddleware.Handle, staffOnly)
	articleCategories.Get("", cfg.Articles.ListCategories)

	articleCategoryAdmin := articleCategories.Group("", auth.RequireRole(domain.RoleAdmin))
	articleCategoryAdmin.Post("", cfg.Articles.CreateCategory)
	articleCategoryAdmin.Put("/:id", cfg.Articles.UpdateCategory)
	articleCategoryAdmin.Delete("/:id", cfg.Articles.DeleteCategory)

	// Canned responses for the staff reply composer.
	templates := app.Group("/staff/templates", cfg.AuthMiddleware.Handle, staffOnly)
	templates.Get("", cfg.Templates.List)
	templates.Post("", cfg.Templates.Create)
	templates.Get("/:id", cfg.Templates.Get)
	templates.Put("/:id", cfg.Templates.Update)
	templates.Delete("/:id", cfg.Templates.Delete)

	directory := app.Group("/staff-directory", cfg.AuthMiddleware.Handle, staffOnly)
	directory.Get("", cfg.StaffDirectory.List)
	directory.Get("/:id", cfg.StaffDirectory.Get)

	directoryAdmin := directory.Group("", auth.RequireRole(domain.RoleAdmin))
	directoryAdmin.Post("", cfg.StaffDirectory.Create)
	directoryAdmin.Put("/:id", cfg.StaffDirectory.Update)
	directoryAdmin.Delete("/:id", cfg.StaffDirectory.Delete)

	// Business-office payment portal.
	payments := app.Group("/payments", cfg.AuthMiddleware.Handle, staffOnly)
	payments.Post("", cfg.Payments.Create)
	payments.Get("", cfg.Payments.List)
	payments.Get("/stats", cfg.Payments.Stats)
	payments.Get("/:id", cfg.Payments.Get)
	payments.Post("/:id/verify", cfg.Payments.Verify)
	payments.Patch("/:id/status", cfg.Payments.UpdateStatus)
	payments.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Payments.Delete)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, staffOnly)
	reports.Get("", cfg.Reports.List)
	reports.Get("/export", cfg.Reports.Export)
	reports.Get("/saved", cfg.Reports.ListSaved)
	reports.Post("/saved", cfg.Reports.Save)
	reports.Get("/saved/:id", cfg.Reports.RunSaved)
	reports.Delete("/saved/:id", cfg.Reports.DeleteSaved)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, staffOnly)
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Post("/refresh", cfg.Dashboard.Refresh)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Users.ListUsers)
	admin.Post("/users", cfg.Users.ProvisionUser)
	admin.Patch("/users/:id/access", cfg.Users.SetUserAccess)
	admin.Delete("/users/:id", cfg.Users.DeleteUser)
	admin.Get("/settings/strategies", cfg.Settings.Get)
	admin.Put("/settings/strategies", cfg.Settings.Update)
}
