package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

const minPasswordLength = 8

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	limiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, limiter LoginRateLimiter) *UserService {
	if limiter == nil {
		limiter = NewMemoryLoginRateLimiter(15*time.Minute, 5)
	}
	return &UserService{
		logger:  logger,
		users:   users,
		limiter: limiter,
	}
}

type CreateUserInput struct {
	FullName               string
	Email                  string
	Password               string
	EducationalInstitution string
	Role                   string
}

// UpdateUserInput lleva solo los campos a modificar; nil no cambia nada.
type UpdateUserInput struct {
	FullName               *string
	Email                  *string
	Password               *string
	EducationalInstitution *string
	Role                   *string
	IsActive               *bool
}

// Signup registra un estudiante. El registro publico nunca crea otros roles.
func (s *UserService) Signup(ctx context.Context, input CreateUserInput) (domain.User, error) {
	input.Role = domain.RoleStudent
	return s.CreateUser(ctx, input)
}

// CreateUser crea un usuario con cualquier rol valido (uso administrativo).
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)
	if !isValidEmail(email) {
		return domain.User{}, ErrInvalidEmail
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return domain.User{}, ErrInvalidInput
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.ValidRole(role) {
		return domain.User{}, ErrInvalidInput
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		FullName:               fullName,
		Email:                  email,
		PasswordHash:           hash,
		EducationalInstitution: strings.TrimSpace(input.EducationalInstitution),
		Role:                   role,
		IsActive:               true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate valida email y password. Los intentos se limitan por email y
// un login exitoso reinicia el contador. Los usuarios inactivos no pueden
// ingresar.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !s.limiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.User{}, ErrUserInactive
	}
	s.limiter.Reset(emailAddr)

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}
	return user, nil
}

// GetActiveUser carga el usuario y falla si fue desactivado. Se usa al
// refrescar tokens para no re-emitir credenciales a cuentas bloqueadas.
func (s *UserService) GetActiveUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, ErrUserInactive
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, notFound(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, role string) ([]domain.User, error) {
	role = strings.TrimSpace(role)
	if role != "" && !domain.ValidRole(role) {
		return nil, ErrInvalidInput
	}
	return s.users.List(ctx, role)
}

// UpdateProfile permite al propio usuario cambiar nombre e institucion.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, fullName, institution *string) (domain.User, error) {
	return s.UpdateUser(ctx, id, UpdateUserInput{FullName: fullName, EducationalInstitution: institution})
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return domain.User{}, ErrInvalidInput
		}
		user.FullName = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if !isValidEmail(email) {
			return domain.User{}, ErrInvalidEmail
		}
		user.Email = email
	}
	if input.EducationalInstitution != nil {
		user.EducationalInstitution = strings.TrimSpace(*input.EducationalInstitution)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return domain.User{}, ErrInvalidInput
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, notFound(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return notFound(s.users.Delete(ctx, id))
}

// EnsureAdmin crea el admin si el email no existe. Devuelve true si lo creo.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	_, err := s.CreateUser(ctx, CreateUserInput{
		FullName: name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrInvalidInput
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
