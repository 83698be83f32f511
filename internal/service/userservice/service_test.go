package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface domain.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

// MockTokenService é uma implementação mock da interface TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID, companyID, userRole string) (string, error) {
	args := m.Called(userID, companyID, userRole)
	return args.String(0), args.Error(1)
}

func newService() (*userservice.UserService, *MockUserRepository, *MockTokenService) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenService)
	return userservice.NewService(repo, tokens, logger.NewLogger("debug")), repo, tokens
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc, repo, _ := newService()
	companyID := uuid.NewString()

	repo.On("CountByCompany", mock.Anything, companyID).Return(0, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin && u.CompanyID == companyID &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("segredo123")) == nil
	})).Return(domain.User{ID: "u-1", CompanyID: companyID, Email: "dono@oficina.com", Role: domain.RoleAdmin}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: "dono@oficina.com", Password: "segredo123", CompanyID: companyID})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	repo.AssertExpectations(t)
}

func TestRegister_NextUsersAreOperators(t *testing.T) {
	svc, repo, _ := newService()
	companyID := uuid.NewString()

	repo.On("CountByCompany", mock.Anything, companyID).Return(1, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleOperator
	})).Return(domain.User{ID: "u-2", Role: domain.RoleOperator}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: "mecanico@oficina.com", Password: "segredo123", CompanyID: companyID})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, user.Role)
}

func TestRegister_Validation(t *testing.T) {
	svc, repo, _ := newService()
	companyID := uuid.NewString()

	cases := map[string]domain.UserRegistration{
		"sem email":        {Password: "segredo123", CompanyID: companyID},
		"email inválido":   {Email: "nao-e-email", Password: "segredo123", CompanyID: companyID},
		"senha curta":      {Email: "a@b.com", Password: "123", CompanyID: companyID},
		"oficina inválida": {Email: "a@b.com", Password: "segredo123", CompanyID: "abc"},
	}
	for name, reg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), reg)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newService()
	companyID := uuid.NewString()

	repo.On("CountByCompany", mock.Anything, companyID).Return(2, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).
		Return(domain.User{}, apperror.NewConflictError("O email 'a@b.com' já está em uso."))

	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "a@b.com", Password: "segredo123", CompanyID: companyID})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestLogin_Success(t *testing.T) {
	svc, repo, tokens := newService()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "a@b.com").
		Return(domain.User{ID: "u-1", CompanyID: "c-1", PasswordHash: string(hash), Role: domain.RoleOperator}, nil)
	tokens.On("GenerateToken", "u-1", "c-1", "operator").Return("jwt-token", nil)

	token, err := svc.Login(context.Background(), "a@b.com", "segredo123")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	tokens.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, tokens := newService()
	hash, _ := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	repo.On("FindByEmail", mock.Anything, "a@b.com").Return(domain.User{ID: "u-1", PasswordHash: string(hash)}, nil)

	_, err := svc.Login(context.Background(), "a@b.com", "errada")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("FindByEmail", mock.Anything, "x@y.com").Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))

	_, err := svc.Login(context.Background(), "x@y.com", "qualquer")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestLogin_DatabaseFailure(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("FindByEmail", mock.Anything, "x@y.com").
		Return(domain.User{}, apperror.NewDBError("Falha ao buscar usuário", errors.New("timeout")))

	_, err := svc.Login(context.Background(), "x@y.com", "qualquer")

	assert.IsType(t, &apperror.ExternalServiceError{}, err)
}
