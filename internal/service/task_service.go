package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/pkg/entity"
	"github.com/streakhq/streakboard/pkg/streak"
)

// TaskService mutates the task list inside a user's record. Every operation
// reads the stored record, transforms the list in memory and writes it back
// as a tasks-only merge, so username and unknown future fields stay intact.
type TaskService struct {
	records repository.UserRecordsRepositoryI
}

func NewTaskService(recordsRepo repository.UserRecordsRepositoryI) *TaskService {
	if recordsRepo == nil {
		log.Fatal("provided nil recordsRepo")
	}
	return &TaskService{
		records: recordsRepo,
	}
}

func (ts *TaskService) AddTask(ctx context.Context, uid uuid.UUID, req *AddTaskRequest) (*entity.Task, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return nil, err
	}
	// Time-based id, bumped past the current maximum so that two tasks
	// created within one millisecond still get distinct ids
	id := time.Now().UnixMilli()
	for _, t := range rec.Tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	task := entity.Task{
		ID:      id,
		Name:    req.Name,
		History: []string{},
	}
	tasks := append(slices.Clone(rec.Tasks), task)
	if err := ts.putTasks(ctx, uid, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

func (ts *TaskService) RenameTask(ctx context.Context, uid uuid.UUID, taskID int64, name string) (*entity.Task, error) {
	err := validate.Struct(AddTaskRequest{Name: name})
	if err != nil {
		return nil, errors.New("validation error: " + err.Error())
	}
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return nil, err
	}
	i := taskIndex(rec.Tasks, taskID)
	if i < 0 {
		return nil, errorvalues.ErrTaskNotFound
	}
	tasks := slices.Clone(rec.Tasks)
	tasks[i].Name = name
	if err := ts.putTasks(ctx, uid, tasks); err != nil {
		return nil, err
	}
	return &tasks[i], nil
}

func (ts *TaskService) ToggleArchive(ctx context.Context, uid uuid.UUID, taskID int64) (*entity.Task, error) {
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return nil, err
	}
	i := taskIndex(rec.Tasks, taskID)
	if i < 0 {
		return nil, errorvalues.ErrTaskNotFound
	}
	tasks := slices.Clone(rec.Tasks)
	tasks[i].Archived = !tasks[i].Archived
	if err := ts.putTasks(ctx, uid, tasks); err != nil {
		return nil, err
	}
	return &tasks[i], nil
}

func (ts *TaskService) DeleteTask(ctx context.Context, uid uuid.UUID, taskID int64) error {
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return err
	}
	i := taskIndex(rec.Tasks, taskID)
	if i < 0 {
		return errorvalues.ErrTaskNotFound
	}
	tasks := slices.Delete(slices.Clone(rec.Tasks), i, i+1)
	return ts.putTasks(ctx, uid, tasks)
}

func (ts *TaskService) MarkComplete(ctx context.Context, uid uuid.UUID, taskID int64, date string) (*CompletionResult, error) {
	if date == "" {
		date = time.Now().Format(streak.DateLayout)
	}
	day, err := streak.ParseDate(date)
	if err != nil {
		return nil, errorvalues.ErrInvalidDate
	}
	if day.After(time.Now()) {
		return nil, errorvalues.ErrDateNotAllowed
	}
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return nil, err
	}
	i := taskIndex(rec.Tasks, taskID)
	if i < 0 {
		return nil, errorvalues.ErrTaskNotFound
	}
	updated, broken, err := streak.RecordCompletion(rec.Tasks[i], date)
	if err != nil {
		return nil, err
	}
	if len(updated.History) == len(rec.Tasks[i].History) {
		// Duplicate completion: nothing changed, skip the write
		return &CompletionResult{Task: &updated, StreakBroken: false}, nil
	}
	tasks := slices.Clone(rec.Tasks)
	tasks[i] = updated
	if err := ts.putTasks(ctx, uid, tasks); err != nil {
		return nil, err
	}
	return &CompletionResult{Task: &updated, StreakBroken: broken}, nil
}

func (ts *TaskService) MonthView(ctx context.Context, uid uuid.UUID, now time.Time) (*MonthView, error) {
	rec, err := ts.getRecord(ctx, uid)
	if err != nil {
		return nil, err
	}
	days := streak.MonthGrid(now)
	view := MonthView{
		Days:  days,
		Tasks: make([]MonthViewTask, 0, len(rec.Tasks)),
	}
	for _, task := range rec.Tasks {
		if task.Archived {
			continue
		}
		done := make([]string, 0, len(days))
		for _, d := range task.History {
			if streak.InWindow(d, streak.Monthly, now) {
				done = append(done, d)
			}
		}
		view.Tasks = append(view.Tasks, MonthViewTask{
			ID:            task.ID,
			Name:          task.Name,
			Streak:        task.Streak,
			LongestStreak: task.LongestStreak,
			Done:          done,
		})
	}
	return &view, nil
}

func (ts *TaskService) getRecord(ctx context.Context, uid uuid.UUID) (*entity.UserRecord, error) {
	rec, err := ts.records.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return rec, nil
}

func (ts *TaskService) putTasks(ctx context.Context, uid uuid.UUID, tasks []entity.Task) error {
	err := ts.records.Put(ctx, uid, &repository.RecordPatch{Tasks: tasks})
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func taskIndex(tasks []entity.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t entity.Task) bool { return t.ID == id })
}
