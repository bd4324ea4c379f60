package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/streakhq/streakboard/internal/error_values"
	"github.com/streakhq/streakboard/internal/repository"
	"github.com/streakhq/streakboard/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users   repository.UsersRepositoryI
	records repository.UserRecordsRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI, recordsRepo repository.UserRecordsRepositoryI) *UserService {
	if usersRepo == nil || recordsRepo == nil {
		log.Fatal("on user service provided nil repos")
	}
	return &UserService{
		users:   usersRepo,
		records: recordsRepo,
	}
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
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
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	err = us.users.Create(ctx, &entity.User{
		Name:         req.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, errorvalues.ErrUserExists
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	user, err := us.users.FindByName(ctx, req.Name)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	// New identity gets an empty record right away so that task operations
	// and subscriptions have a row to work with before onboarding
	err = us.records.Put(ctx, user.ID, &repository.RecordPatch{Tasks: []entity.Task{}})
	if err != nil {
		return nil, errors.New("repository record creating error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Login(ctx context.Context, name, password string) (*entity.User, error) {
	user, err := us.users.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Onboard(ctx context.Context, uid uuid.UUID, req *OnboardRequest) error {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	rec, err := us.records.Get(ctx, uid)
	if err != nil && !errors.Is(err, errorvalues.ErrRecordNotFound) {
		return errors.New("repository error: " + err.Error())
	}
	if rec != nil && rec.Username != "" {
		return errorvalues.ErrUsernameAlreadySet
	}
	err = us.records.Put(ctx, uid, &repository.RecordPatch{Username: &req.Username})
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (us *UserService) Record(ctx context.Context, uid uuid.UUID) (*entity.UserRecord, error) {
	rec, err := us.records.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	return rec, nil
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
