package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/pkg/constant"
	"github.com/vroomprestige/vroom-api/pkg/response"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, user *users.User) error
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, userID string) (*users.User, error)
	EmailTakenByOther(ctx context.Context, email string, excludeID string) (bool, error)
	FindAllSummaries(ctx context.Context) ([]users.Summary, error)
	UpdateFields(ctx context.Context, userID string, updates map[string]interface{}) error
	DeleteCascade(ctx context.Context, userID string) error
}

type UserUsecase struct {
	repo UserRepository
}

func NewUserUsecase(repo UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

// Register creates a self-service account. Every registration gets the
// CLIENT role; elevated roles are only assigned through the admin surface.
func (u *UserUsecase) Register(ctx context.Context, req users.RegisterRequest) (*users.User, error) {
	existing, err := u.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing != nil {
		return nil, response.NewError(http.StatusBadRequest, "email_already_exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	user := users.User{
		ID:           "USR" + ksuid.New().String(),
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Password:     string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		Photo:        constant.DefaultProfilePhoto,
		Role:         constant.RoleClient,
		RegisteredAt: time.Now(),
	}

	if err := u.repo.Create(ctx, &user); err != nil {
		return nil, response.InternalServerError(err)
	}
	return &user, nil
}

// Login verifies the credentials and returns the account. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (u *UserUsecase) Login(ctx context.Context, req users.LoginRequest) (*users.User, error) {
	email := strings.TrimSpace(req.Email)

	user, err := u.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, response.NewError(http.StatusUnauthorized, "invalid_credentials", nil)
	}

	return user, nil
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (*users.User, error) {
	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}
	return user, nil
}

// UpdateProfile rewrites the caller's own name, surname, phone and address.
// Email and role are not reachable through this path.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, req users.ProfileUpdateRequest) error {
	updates := map[string]interface{}{
		"Nom":     req.Name,
		"Prenom":  req.Surname,
		"Tel":     req.Phone,
		"Adresse": req.Address,
	}
	if err := u.repo.UpdateFields(ctx, userID, updates); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]users.Summary, error) {
	summaries, err := u.repo.FindAllSummaries(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return summaries, nil
}

// AdminCreate creates an account from the admin dashboard with a
// caller-supplied role, defaulting to CLIENT.
func (u *UserUsecase) AdminCreate(ctx context.Context, req users.AdminCreateRequest) (*users.AdminCreateResponse, error) {
	existing, err := u.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing != nil {
		return nil, response.NewError(http.StatusBadRequest, "email_already_exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	role := req.Role
	if role == "" {
		role = constant.RoleClient
	}

	user := users.User{
		ID:           "USR" + ksuid.New().String(),
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Password:     string(hash),
		Phone:        req.Phone,
		Photo:        constant.DefaultProfilePhoto,
		Role:         role,
		RegisteredAt: time.Now(),
	}

	if err := u.repo.Create(ctx, &user); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &users.AdminCreateResponse{
		ID:      user.ID,
		Name:    user.Name,
		Surname: user.Surname,
		Email:   user.Email,
		Role:    user.Role,
	}, nil
}

// AdminUpdate applies the provided non-empty fields to an account. Email
// uniqueness is re-checked against every other account; the password is
// re-hashed only when a new one is supplied.
func (u *UserUsecase) AdminUpdate(ctx context.Context, userID string, req users.AdminUpdateRequest) error {
	existing, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if existing == nil {
		return response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	if req.Email != "" {
		taken, err := u.repo.EmailTakenByOther(ctx, req.Email, userID)
		if err != nil {
			return response.InternalServerError(err)
		}
		if taken {
			return response.NewError(http.StatusBadRequest, "email_already_in_use", nil)
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["Nom"] = req.Name
	}
	if req.Surname != "" {
		updates["Prenom"] = req.Surname
	}
	if req.Email != "" {
		updates["Email"] = req.Email
	}
	if req.Phone != "" {
		updates["Tel"] = req.Phone
	}
	if req.Role != "" {
		updates["Role"] = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return response.InternalServerError(err)
		}
		updates["MotDePasse"] = string(hash)
	}

	if len(updates) == 0 {
		return nil
	}

	if err := u.repo.UpdateFields(ctx, userID, updates); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

// AdminDelete removes an account and all of its reservations. Admins cannot
// delete their own account.
func (u *UserUsecase) AdminDelete(ctx context.Context, userID string, callerID string) error {
	if userID == callerID {
		return response.NewError(http.StatusBadRequest, "cannot_delete_own_account", nil)
	}

	existing, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if existing == nil {
		return response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	if err := u.repo.DeleteCascade(ctx, userID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}
