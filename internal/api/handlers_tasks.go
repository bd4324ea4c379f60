package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/service"
	"github.com/streakhq/streakboard/pkg/httputil"
	"github.com/streakhq/streakboard/pkg/streak"
)

type CreateTaskRequest struct {
	Name string `json:"name"`
}

type RenameTaskRequest struct {
	Name string `json:"name"`
}

type CompleteTaskRequest struct {
	Date string `json:"date,omitempty"`
}

type LeaderboardRowResponse struct {
	Position int    `json:"position"`
	Badge    string `json:"badge"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

type GetLeaderboardResponse struct {
	Boards map[streak.Window][]LeaderboardRowResponse `json:"boards"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.AddTask(ctx, uid, &service.AddTaskRequest{Name: req.Name})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrRecordNotFound):
			logger.Error("create task error: record doesn't exist")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user record doesn't exist", nil)
		default:
			logger.Error("create task error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating task", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

func (s *Server) RenameTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("rename task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	taskID, err := taskIDFromPath(r)
	if err != nil {
		logger.Error("rename task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req RenameTaskRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("rename task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.RenameTask(ctx, uid, taskID, req.Name)
	if err != nil {
		s.writeTaskError(w, logger, "rename task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task renamed")
}

func (s *Server) ArchiveTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("archive task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	taskID, err := taskIDFromPath(r)
	if err != nil {
		logger.Error("archive task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	task, err := s.taskService.ToggleArchive(ctx, uid, taskID)
	if err != nil {
		s.writeTaskError(w, logger, "archive task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task archive toggled")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("task deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	taskID, err := taskIDFromPath(r)
	if err != nil {
		logger.Error("task deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.taskService.DeleteTask(ctx, uid, taskID)
	if err != nil {
		s.writeTaskError(w, logger, "task deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("task deleted")
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("complete task error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	taskID, err := taskIDFromPath(r)
	if err != nil {
		logger.Error("complete task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	// Body is optional: without one the completion lands on today
	var req CompleteTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("complete task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.taskService.MarkComplete(ctx, uid, taskID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidDate):
			logger.Error("complete task error: malformed date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "date is not a valid YYYY-MM-DD calendar date", nil)
		case errors.Is(err, errorvalues.ErrDateNotAllowed):
			logger.Error("complete task error: future date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "completion date can't be in the future", nil)
		default:
			s.writeTaskError(w, logger, "complete task", err)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("task completion recorded")
}

func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get calendar error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	view, err := s.taskService.MonthView(ctx, uid, time.Now())
	if err != nil {
		s.writeTaskError(w, logger, "get calendar", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, view)
	logger.Info("calendar provided")
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	boards, err := s.leaderboardService.Boards(ctx, time.Now())
	if err != nil {
		logger.Error("get leaderboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while building leaderboard", nil)
		return
	}
	resp := GetLeaderboardResponse{
		Boards: make(map[streak.Window][]LeaderboardRowResponse, len(boards)),
	}
	for window, rows := range boards {
		out := make([]LeaderboardRowResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, LeaderboardRowResponse{
				Position: row.Position,
				Badge:    streak.Badge(row.Position),
				Username: row.Username,
				Count:    row.Count,
			})
		}
		resp.Boards[window] = out
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("leaderboard provided")
}

func (s *Server) writeTaskError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrRecordNotFound):
		logger.Error(op + " error: record doesn't exist")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "user record doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		logger.Error(op + " error: unexist task")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "task doesn't exist", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func taskIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
