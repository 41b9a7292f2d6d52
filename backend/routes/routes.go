package routes

import (
	"studyhub/backend/config"
	"studyhub/backend/controllers"
	"studyhub/backend/middleware"
	"studyhub/backend/session"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, store session.Store) {
	api := app.Group("/api")

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	user := api.Group("/user", authMiddleware)
	user.Get("/profile", userController.GetProfile)
	user.Put("/profile", userController.UpdateProfile)
	user.Get("/stats", analyticsController.GetUserStats)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	testsController := controllers.NewTestsController(db, cfg, store)
	courses := api.Group("/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/selected", coursesController.ListSelectedCourses)
	courses.Post("/selected", coursesController.SelectCourse)
	courses.Put("/selected/:name", coursesController.UpdateExamDate)
	courses.Delete("/selected/:name", coursesController.DeselectCourse)
	courses.Get("/:name/questions", coursesController.GetCourseQuestions)
	courses.Get("/:name/tests/filters", testsController.GetTestFilters)
	courses.Post("/:name/tests", testsController.CreateTestSession)
	courses.Get("/:name/tests/:session", testsController.GetTestSession)
	courses.Post("/:name/tests/:session/answers", testsController.AnswerQuestion)
	courses.Post("/:name/tests/:session/finish", testsController.FinishTest)

	// Questions routes
	questionsController := controllers.NewQuestionsController(db, cfg)
	api.Put("/questions/:id/status", authMiddleware, questionsController.MarkQuestionStatus)

	// Tests routes
	userTestsController := controllers.NewUserTestsController(db, cfg)
	tests := api.Group("/tests", authMiddleware)
	tests.Get("/results/:session", testsController.GetTestResult)
	tests.Get("/attempts", testsController.ListTestAttempts)
	tests.Get("/scheduled", userTestsController.ListUserTests)
	tests.Post("/scheduled", userTestsController.CreateUserTest)
	tests.Get("/scheduled/:id", userTestsController.GetUserTest)
	tests.Put("/scheduled/:id/toggle", userTestsController.ToggleUserTest)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	api.Get("/progress", authMiddleware, progressController.GetProgress)

	// Dashboard routes
	overviewController := controllers.NewOverviewController(db, cfg)
	api.Get("/dashboard", authMiddleware, overviewController.GetDashboard)

	// Schedule routes
	scheduleController := controllers.NewScheduleController(db, cfg)
	schedule := api.Group("/schedule", authMiddleware)
	schedule.Get("/", scheduleController.GetSchedule)
	schedule.Post("/blocked", scheduleController.BlockTimeSlot)
	schedule.Delete("/blocked/:id", scheduleController.UnblockTimeSlot)
	schedule.Get("/sessions", scheduleController.ListStudySessions)
	schedule.Get("/sessions/upcoming", scheduleController.UpcomingStudySessions)
	schedule.Post("/sessions", scheduleController.AddStudySession)
	schedule.Put("/sessions/:id/toggle", scheduleController.ToggleStudySession)
	schedule.Delete("/sessions/:id", scheduleController.DeleteStudySession)

	// Admin routes
	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.Post("/courses", coursesController.CreateCourse)
	admin.Put("/courses/:name", coursesController.UpdateCourse)
	admin.Get("/courses/:name/analytics", coursesController.GetCourseAnalytics)
	admin.Post("/courses/:name/categories", coursesController.CreateCategory)
	admin.Post("/questions", questionsController.CreateQuestion)
	admin.Post("/questions/import", questionsController.ImportQuestions)
	admin.Put("/questions/:id", questionsController.UpdateQuestion)
	admin.Delete("/questions/:id", questionsController.DeleteQuestion)
}
