package server

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/handlers/admin"
	"github.com/s/onlineLearning/internal/handlers/personal"
	"github.com/s/onlineLearning/internal/metrics"
	"github.com/s/onlineLearning/internal/middleware"
	"github.com/s/onlineLearning/internal/models"
)

// NewRouter собирает все маршруты API
func NewRouter(h *handlers.Handler, corsOrigins []string) http.Handler {
	adminService := &admin.Service{Handler: h}
	personalService := &personal.Service{Handler: h}

	r := mux.NewRouter()
	r.Use(middleware.AccessLog(h.Log))

	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// --- Google OAuth (только если настроен) ---
	if h.Config != nil {
		r.HandleFunc("/auth/google/login", h.HandleGoogleLogin).Methods("GET")
		r.HandleFunc("/auth/google/callback", h.HandleGoogleCallback).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.DBTimeout)

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	api.HandleFunc("/courses", h.ListCourses).Methods("GET")
	api.HandleFunc("/courses/{id:[0-9]+}", h.GetCourse).Methods("GET")
	api.HandleFunc("/courses/{id:[0-9]+}/reviews", h.ListReviews).Methods("GET")
	api.HandleFunc("/webinars", h.ListWebinars).Methods("GET")
	api.HandleFunc("/certificates/{certificateId}", h.GetCertificate).Methods("GET")

	authed := middleware.Authenticated(h)
	catalog := middleware.RequiredRole(h, models.RoleTeacher, models.RoleAdmin)
	adminOnly := middleware.RequiredRole(h, models.RoleAdmin)

	user := func(fn http.HandlerFunc) http.Handler { return authed(fn) }
	teacher := func(fn http.HandlerFunc) http.Handler { return authed(catalog(fn)) }
	adm := func(fn http.HandlerFunc) http.Handler { return authed(adminOnly(fn)) }

	// --- Пользователь ---
	api.Handle("/me", user(h.Me)).Methods("GET")
	api.Handle("/me/interests", user(personalService.UpdateInterests)).Methods("PUT")
	api.Handle("/courses/{id:[0-9]+}/lessons/{lessonId:[0-9]+}", user(h.GetLesson)).Methods("GET")
	api.Handle("/courses/{id:[0-9]+}/reviews", user(h.SubmitReview)).Methods("POST")

	api.Handle("/enrollments", user(h.ListEnrollments)).Methods("GET")
	api.Handle("/enrollments", user(h.Enroll)).Methods("POST")
	api.Handle("/enrollments/check", user(h.CheckEnrollment)).Methods("GET")
	api.Handle("/enrollments/{enrollmentId:[0-9]+}", user(h.Unenroll)).Methods("DELETE")
	api.Handle("/enrollments/{enrollmentId:[0-9]+}/lessons/{lessonId:[0-9]+}/complete", user(h.CompleteLesson)).Methods("POST")
	api.Handle("/enrollments/{enrollmentId:[0-9]+}/lessons/{lessonId:[0-9]+}/check", user(h.CheckLesson)).Methods("GET")

	api.Handle("/favorites/courses", user(personalService.ListFavoriteCourses)).Methods("GET")
	api.Handle("/favorites/courses", user(personalService.ToggleFavoriteCourse)).Methods("POST")
	api.Handle("/favorites/webinars", user(personalService.ListFavoriteWebinars)).Methods("GET")
	api.Handle("/favorites/webinars", user(personalService.ToggleFavoriteWebinar)).Methods("POST")

	// --- Учитель / админ: каталог ---
	api.Handle("/courses", teacher(adminService.CreateCourse)).Methods("POST")
	api.Handle("/courses/{id:[0-9]+}", teacher(adminService.UpdateCourse)).Methods("PUT")
	api.Handle("/courses/{id:[0-9]+}", teacher(adminService.DeleteCourse)).Methods("DELETE")
	api.Handle("/courses/{id:[0-9]+}/lessons", teacher(adminService.AddLessons)).Methods("POST")
	api.Handle("/courses/{id:[0-9]+}/lessons/{lessonId:[0-9]+}", teacher(adminService.UpdateLesson)).Methods("PUT")
	api.Handle("/courses/{id:[0-9]+}/lessons/{lessonId:[0-9]+}", teacher(adminService.DeleteLesson)).Methods("DELETE")
	api.Handle("/webinars", teacher(adminService.CreateWebinar)).Methods("POST")
	api.Handle("/admin/students-results", teacher(adminService.StudentsResults)).Methods("GET")

	// --- Только админ ---
	api.Handle("/admin/users", adm(adminService.ListUsers)).Methods("GET")
	api.Handle("/admin/users/{id:[0-9]+}/role", adm(adminService.ChangeRole)).Methods("PUT")

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(r)
}
