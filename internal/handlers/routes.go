package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/logger"
	"github.com/justsurfingit/joblocal/internal/realtime"
	"github.com/justsurfingit/joblocal/internal/services"
)

// Route is one REST endpoint and the access it demands.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Handlers groups every REST handler the API mounts.
type Handlers struct {
	Auth          *AuthHandler
	Jobs          *JobHandler
	Applications  *ApplicationHandler
	Notifications *NotificationHandler
	Admin         *AdminHandler
	Users         *UserHandler
	Files         *FileHandler
}

// Routes is the full REST surface, relative to /api.
func (h *Handlers) Routes() []Route {
	return []Route{
		{http.MethodGet, "/health", Public, HealthCheck},

		{http.MethodPost, "/auth/signup", Public, h.Auth.Signup},
		{http.MethodPost, "/auth/login", Public, h.Auth.Login},
		{http.MethodPost, "/auth/firebase-login", Public, h.Auth.FirebaseLogin},
		{http.MethodPost, "/auth/send-otp", Public, h.Auth.SendOTP},
		{http.MethodPost, "/auth/verify-otp", Public, h.Auth.VerifyOTP},
		{http.MethodGet, "/auth/me", Authenticated, h.Auth.Me},
		{http.MethodGet, "/auth/login-history/:userId", AdminOnly, h.Auth.LoginHistory},
		{http.MethodGet, "/auth/google", Public, h.Auth.GoogleStart},
		{http.MethodGet, "/auth/google/callback", Public, h.Auth.GoogleCallback},

		{http.MethodGet, "/jobs", Public, h.Jobs.ListJobs},
		{http.MethodPost, "/jobs", OwnerOnly, h.Jobs.CreateJob},
		{http.MethodPost, "/jobs/extract", OwnerOnly, h.Jobs.ParseJob},
		{http.MethodGet, "/jobs/:id", Public, h.Jobs.GetJob},
		{http.MethodPut, "/jobs/:id", Authenticated, h.Jobs.UpdateJob},
		{http.MethodDelete, "/jobs/:id", Authenticated, h.Jobs.DeleteJob},
		{http.MethodGet, "/jobs/:id/applications", Authenticated, h.Jobs.ListApplications},
		{http.MethodPost, "/jobs/:id/apply", JobSeekerOnly, h.Jobs.Apply},
		{http.MethodPost, "/jobs/:id/save", JobSeekerOnly, h.Jobs.SaveJob},
		{http.MethodPost, "/jobs/:id/review", Authenticated, h.Jobs.AddReview},
		{http.MethodGet, "/jobs/:id/reviews", Public, h.Jobs.ListReviews},
		{http.MethodPut, "/jobs/applications/:id/status", Authenticated, h.Applications.UpdateStatus},
		{http.MethodDelete, "/jobs/applications/:id", Authenticated, h.Applications.Delete},

		{http.MethodGet, "/applications/:id", Authenticated, h.Applications.Get},
		{http.MethodPut, "/applications/:id/status", Authenticated, h.Applications.UpdateStatus},
		{http.MethodGet, "/applications/user/:userId", Authenticated, h.Applications.ListForUser},
		{http.MethodGet, "/applications/users/:id", Authenticated, h.Applications.GetUser},

		{http.MethodGet, "/notifications", Authenticated, h.Notifications.List},
		{http.MethodPut, "/notifications/:id/read", Authenticated, h.Notifications.MarkRead},
		{http.MethodPut, "/notifications/read-all", Authenticated, h.Notifications.MarkAllRead},
		{http.MethodPost, "/notifications/send", Authenticated, h.Notifications.Send},
		{http.MethodPost, "/notifications/job-posted", OwnerOnly, h.Notifications.JobPosted},
		{http.MethodPost, "/notifications/new-application", JobSeekerOnly, h.Notifications.NewApplication},

		{http.MethodGet, "/admin/stats", AdminOnly, h.Admin.Stats},
		{http.MethodGet, "/admin/activity", AdminOnly, h.Admin.Activity},
		{http.MethodGet, "/admin/users", AdminOnly, h.Admin.Users},
		{http.MethodPut, "/admin/users/:id", AdminOnly, h.Admin.UpdateUserStatus},
		{http.MethodDelete, "/admin/users/:id", AdminOnly, h.Admin.DeleteUser},
		{http.MethodPut, "/admin/jobs/:id", AdminOnly, h.Admin.UpdateJobStatus},
		{http.MethodDelete, "/admin/companies/:id", AdminOnly, h.Admin.DeleteCompany},

		{http.MethodGet, "/users/dashboard", JobSeekerOnly, h.Users.Dashboard},
		{http.MethodGet, "/users/owner-dashboard", OwnerOnly, h.Users.OwnerDashboard},
		{http.MethodPut, "/users/profile", Authenticated, h.Users.UpdateProfile},
	}
}

// Mount registers routes on r, each behind the middleware its Access needs.
func Mount(r gin.IRouter, auth *services.AuthService, routes []Route) {
	for _, rt := range routes {
		r.Handle(rt.Method, rt.Path, chain(auth, rt.Access, rt.Handler)...)
	}
}

type RouterOptions struct {
	CORSOrigins []string
	Hub         *realtime.Hub
}

// NewRouter builds the gin engine: REST under /api, uploads and the socket
// endpoint at the root.
func NewRouter(h *Handlers, auth *services.AuthService, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.AccessLog())

	config := cors.DefaultConfig()
	config.AllowOrigins = opts.CORSOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	if len(opts.CORSOrigins) == 0 {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}
	r.Use(cors.New(config))

	Mount(r.Group("/api"), auth, h.Routes())

	if h.Files != nil {
		r.GET("/uploads/*path", h.Files.Serve)
	}
	if opts.Hub != nil {
		allow := func(origin string) bool {
			return len(opts.CORSOrigins) == 0 || slices.Contains(opts.CORSOrigins, origin)
		}
		r.GET("/socket", gin.WrapF(realtime.Handler(opts.Hub, allow)))
	}
	return r
}
