package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	taskService        service.TaskServiceI
	leaderboardService service.LeaderboardServiceI
	jwtService         JWTServiceI
	watcher            repository.RecordWatcherI
}

type ServicesList struct {
	UserService        service.UserServiceI
	TaskService        service.TaskServiceI
	LeaderboardService service.LeaderboardServiceI
	JwtService         JWTServiceI
	Watcher            repository.RecordWatcherI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		taskService:        servicesOptions.TaskService,
		leaderboardService: servicesOptions.LeaderboardService,
		jwtService:         servicesOptions.JwtService,
		watcher:            servicesOptions.Watcher,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Put("/me/username", s.SetUsername)
			r.Get("/me", s.GetMe)
			r.Get("/me/stream", s.StreamMe)
			r.Post("/tasks", s.CreateTask)
			r.Patch("/tasks/{id}", s.RenameTask)
			r.Post("/tasks/{id}/archive", s.ArchiveTask)
			r.Delete("/tasks/{id}", s.DeleteTask)
			r.Post("/tasks/{id}/complete", s.CompleteTask)
			r.Get("/calendar", s.GetCalendar)
			r.Get("/leaderboard", s.GetLeaderboard)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
