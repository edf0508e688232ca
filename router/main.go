package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/config"
	"github.com/rsichomba/portfolio-lms/database"
	"github.com/rsichomba/portfolio-lms/handlers"
	admin_handlers "github.com/rsichomba/portfolio-lms/handlers/admin"
	assignment_handlers "github.com/rsichomba/portfolio-lms/handlers/assignment"
	auth_handlers "github.com/rsichomba/portfolio-lms/handlers/auth"
	blog_handlers "github.com/rsichomba/portfolio-lms/handlers/blog"
	contact_handlers "github.com/rsichomba/portfolio-lms/handlers/contact"
	course_handlers "github.com/rsichomba/portfolio-lms/handlers/course"
	dashboard_handlers "github.com/rsichomba/portfolio-lms/handlers/dashboard"
	document_handlers "github.com/rsichomba/portfolio-lms/handlers/document"
	meeting_handlers "github.com/rsichomba/portfolio-lms/handlers/meeting"
	note_handlers "github.com/rsichomba/portfolio-lms/handlers/note"
	parent_handlers "github.com/rsichomba/portfolio-lms/handlers/parent"
	portfolio_handlers "github.com/rsichomba/portfolio-lms/handlers/portfolio"
	stats_handlers "github.com/rsichomba/portfolio-lms/handlers/stats"
	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/services/storage"
	"github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/cache"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage, reporting *database.ReportingStore) {
	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "portfolio-lms-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	spacesClient, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: env.SPACES_ACCESS_KEY,
		SecretKey: env.SPACES_SECRET_KEY,
		Bucket:    env.SPACES_BUCKET,
		Region:    env.SPACES_REGION,
		Endpoint:  env.SPACES_ENDPOINT,
		CDNURL:    env.SPACES_CDN_URL,
	})
	if err != nil {
		log.Printf("Warning: Spaces storage unavailable: %v. File uploads will fail.", err)
	}

	emailService := services.NewEmailService()
	enrollmentService := services.NewEnrollmentService(db)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, emailService, spacesClient)
	portfolioHandler := portfolio_handlers.NewPortfolioHandler(db)
	blogHandler := blog_handlers.NewBlogHandler(db)
	noteHandler := note_handlers.NewNoteHandler(db)
	documentHandler := document_handlers.NewDocumentHandler(db, spacesClient)
	courseHandler := course_handlers.NewCourseHandler(db, enrollmentService, emailService)
	assignmentHandler := assignment_handlers.NewAssignmentHandler(db, enrollmentService, spacesClient)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(db)
	parentHandler := parent_handlers.NewParentHandler(db, emailService)
	contactHandler := contact_handlers.NewContactHandler(db, emailService)
	meetingHandler := meeting_handlers.NewMeetingHandler(db)
	statsHandler := stats_handlers.NewStatsHandler(reporting, redisCache)
	adminHandler := admin_handlers.NewAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/verify-email", authMiddleware.Required(), authHandler.VerifyEmail)
	authGroup.Post("/resend-verification", authMiddleware.Required(), authHandler.ResendVerification)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.Me)
	profileGroup.Put("/", authHandler.UpdateProfile)
	profileGroup.Post("/picture", authHandler.UploadProfilePicture)

	// Portfolio: skills
	skills := api.Group("/skills")
	skills.Get("/", portfolioHandler.ListSkills)
	skills.Post("/", authMiddleware.RequireStaff(), portfolioHandler.CreateSkill)
	skills.Put("/:id", authMiddleware.RequireStaff(), portfolioHandler.UpdateSkill)
	skills.Delete("/:id", authMiddleware.RequireStaff(), portfolioHandler.DeleteSkill)

	// Portfolio: projects
	projects := api.Group("/projects")
	projects.Get("/", portfolioHandler.ListProjects)
	projects.Get("/:slug", portfolioHandler.GetProject)
	projects.Post("/", authMiddleware.RequireStaff(), portfolioHandler.CreateProject)
	projects.Put("/:id", authMiddleware.RequireStaff(), portfolioHandler.UpdateProject)
	projects.Delete("/:id", authMiddleware.RequireStaff(), portfolioHandler.DeleteProject)

	// Portfolio: testimonials
	testimonials := api.Group("/testimonials")
	testimonials.Get("/", portfolioHandler.ListTestimonials)
	testimonials.Post("/", authMiddleware.Optional(), portfolioHandler.CreateTestimonial)
	testimonials.Delete("/:id", authMiddleware.RequireStaff(), portfolioHandler.DeleteTestimonial)

	// Portfolio: books
	books := api.Group("/books", authMiddleware.Optional())
	books.Get("/", portfolioHandler.ListBooks)
	books.Get("/:id", portfolioHandler.GetBook)
	books.Post("/", authMiddleware.RequireStaff(), portfolioHandler.CreateBook)
	books.Delete("/:id", authMiddleware.RequireStaff(), portfolioHandler.DeleteBook)

	// Blog posts; reads resolve the viewer when a token is present
	blog := api.Group("/blog", authMiddleware.Optional())
	blog.Get("/", blogHandler.List)
	blog.Get("/:slug", blogHandler.Get)
	blog.Post("/", authMiddleware.Required(), blogHandler.Create)
	blog.Put("/:id", authMiddleware.Required(), blogHandler.Update)
	blog.Delete("/:id", authMiddleware.Required(), blogHandler.Delete)

	// Notes
	notes := api.Group("/notes", authMiddleware.Optional())
	notes.Get("/", noteHandler.List)
	notes.Get("/:slug", noteHandler.Get)
	notes.Post("/", authMiddleware.Required(), noteHandler.Create)
	notes.Put("/:id", authMiddleware.Required(), noteHandler.Update)
	notes.Delete("/:id", authMiddleware.Required(), noteHandler.Delete)

	// Documents
	documents := api.Group("/documents", authMiddleware.Optional())
	documents.Get("/", documentHandler.List)
	documents.Get("/:slug", documentHandler.Get)
	documents.Get("/:slug/download", documentHandler.Download)
	documents.Post("/", authMiddleware.RequireRole(model.RoleInstructor, model.RoleAdmin), documentHandler.Upload)
	documents.Delete("/:id", authMiddleware.Required(), documentHandler.Delete)

	// Courses
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.List)
	courses.Get("/:slug", authMiddleware.Optional(), courseHandler.Get)
	courses.Post("/", authMiddleware.Required(), courseHandler.Create)
	courses.Put("/:id", authMiddleware.Required(), courseHandler.Update)
	courses.Delete("/:id", authMiddleware.Required(), courseHandler.Delete)

	// Course modules and lessons
	courses.Post("/:id/modules", authMiddleware.Required(), courseHandler.CreateModule)
	courses.Put("/:id/modules/:moduleId", authMiddleware.Required(), courseHandler.UpdateModule)
	courses.Delete("/:id/modules/:moduleId", authMiddleware.Required(), courseHandler.DeleteModule)
	api.Get("/modules/:moduleId/lessons", authMiddleware.Optional(), courseHandler.ListLessons)
	courses.Post("/:id/modules/:moduleId/lessons", authMiddleware.Required(), courseHandler.CreateLesson)
	courses.Delete("/:id/lessons/:lessonId", authMiddleware.Required(), courseHandler.DeleteLesson)

	// Enrollment and progress
	courses.Post("/:id/enroll", authMiddleware.Required(), courseHandler.Enroll)
	courses.Delete("/:id/enroll", authMiddleware.Required(), courseHandler.Unenroll)
	courses.Get("/:id/progress", authMiddleware.Required(), courseHandler.MyProgress)
	courses.Post("/:id/progress/modules", authMiddleware.Required(), courseHandler.CompleteModule)
	api.Get("/enrollments", authMiddleware.Required(), courseHandler.MyEnrollments)
	api.Get("/certificates", authMiddleware.Required(), courseHandler.MyCertificates)
	api.Get("/certificates/verify/:certificateId", courseHandler.VerifyCertificate)

	// Course reviews
	courses.Get("/:id/reviews", courseHandler.ListReviews)
	courses.Post("/:id/reviews", authMiddleware.Required(), courseHandler.CreateReview)
	courses.Delete("/:id/reviews/:reviewId", authMiddleware.Required(), courseHandler.DeleteReview)

	// Assignments
	courses.Get("/:courseId/assignments", authMiddleware.Required(), assignmentHandler.ListByCourse)
	courses.Post("/:courseId/assignments", authMiddleware.Required(), assignmentHandler.Create)
	assignments := api.Group("/assignments", authMiddleware.Required())
	assignments.Get("/:id", assignmentHandler.Get)
	assignments.Put("/:id", assignmentHandler.Update)
	assignments.Delete("/:id", assignmentHandler.Delete)
	assignments.Post("/:id/submissions", assignmentHandler.Submit)
	assignments.Get("/:id/submissions", assignmentHandler.ListSubmissions)
	assignments.Get("/:id/submissions/me", assignmentHandler.MySubmission)
	api.Get("/submissions", authMiddleware.Required(), assignmentHandler.MySubmissions)
	api.Post("/submissions/:submissionId/grade", authMiddleware.Required(), assignmentHandler.Grade)

	// Dashboards
	dashboard := api.Group("/dashboard", authMiddleware.Required())
	dashboard.Get("/student", dashboardHandler.Student)
	dashboard.Get("/instructor", dashboardHandler.Instructor)

	// Parent-student links
	parents := api.Group("/parent", authMiddleware.Required())
	parents.Post("/link", parentHandler.RequestLink)
	parents.Post("/link/:id/verify", parentHandler.VerifyLink)
	parents.Put("/link/:id/permissions", parentHandler.UpdatePermissions)
	parents.Delete("/link/:id", parentHandler.Unlink)
	parents.Get("/children", parentHandler.Children)
	parents.Get("/children/:studentId/progress", parentHandler.ChildProgress)

	// Contact form
	api.Post("/contact", authMiddleware.Optional(), contactHandler.Submit)

	// Meetings
	meetings := api.Group("/meetings")
	meetings.Get("/", meetingHandler.List)
	meetings.Get("/:slug", meetingHandler.Get)
	meetings.Post("/", authMiddleware.Required(), meetingHandler.Create)
	meetings.Post("/:id/book", authMiddleware.Required(), meetingHandler.Book)
	meetings.Delete("/:id/book", authMiddleware.Required(), meetingHandler.CancelBooking)
	meetings.Delete("/:id", authMiddleware.Required(), meetingHandler.Delete)
	api.Get("/bookings", authMiddleware.Required(), meetingHandler.MyBookings)

	// Stats: public aggregates plus the student's own progress rows
	api.Get("/stats", statsHandler.Site)
	api.Get("/stats/courses", statsHandler.Courses)
	api.Get("/stats/progress", authMiddleware.Required(), statsHandler.Progress)

	// Admin area (staff only)
	admin := api.Group("/admin", authMiddleware.RequireStaff())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id/role", adminHandler.ChangeRole)
	admin.Delete("/users/:id", adminHandler.DeactivateUser)
	admin.Post("/users/:id/reactivate", adminHandler.ReactivateUser)
	admin.Get("/settings", adminHandler.ListSettings)
	admin.Put("/settings/:key", adminHandler.UpdateSetting)
	admin.Get("/audit", adminHandler.ListAuditLogs)
	admin.Get("/cron-logs", adminHandler.ListCronLogs)
	admin.Get("/reviews/pending", adminHandler.ListPendingReviews)
	admin.Post("/reviews/:id/approve", adminHandler.ApproveReview)
	admin.Delete("/reviews/:id", adminHandler.RejectReview)
	admin.Get("/messages", contactHandler.List)
	admin.Post("/messages/:id/read", contactHandler.MarkRead)
	admin.Post("/messages/:id/responded", contactHandler.MarkResponded)
	admin.Delete("/messages/:id", contactHandler.Delete)
}
