package service

import (
	"context"
	"testing"

	"bancapdv/internal/apperr"
	"bancapdv/internal/config"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrRegistroNaoEncontrado
}

func (r *fakeUsuarioRepo) List(_ context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if incluirInativos || u.Ativo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) SetAtivo(_ context.Context, id uuid.UUID, ativo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return apperr.ErrRegistroNaoEncontrado
	}
	u.Ativo = ativo
	return nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

func authFixture(t *testing.T) (AuthService, *fakeUsuarioRepo, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 8,
		JWTRefreshHours:    72,
	}
	repo := newFakeUsuarioRepo()
	return NewAuthService(repo, cfg), repo, cfg
}

func TestLogin(t *testing.T) {
	svc, _, cfg := authFixture(t)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "maria", Nome: "Maria Silva", Password: "senha123", Perfil: "operador",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "maria", Password: "senha123",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "operador", resp.User.Perfil)

	// The access token must carry the identity claims the middleware reads.
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "maria", claims["username"])
	assert.Equal(t, "operador", claims["perfil"])
}

// Login failures are indistinguishable on purpose: the response never reveals
// whether the username exists.
func TestLoginCredenciaisInvalidas(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "maria", Nome: "Maria Silva", Password: "senha123", Perfil: "operador",
	})
	require.NoError(t, err)

	_, errSenha := svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "errada"})
	_, errUsuario := svc.Login(context.Background(), dto.LoginRequest{Username: "inexistente", Password: "senha123"})

	require.Error(t, errSenha)
	require.Error(t, errUsuario)
	assert.Equal(t, errSenha.Error(), errUsuario.Error())
}

func TestLoginUsuarioDesativado(t *testing.T) {
	svc, _, _ := authFixture(t)

	criado, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "jose", Nome: "José Santos", Password: "senha123", Perfil: "gerente",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DesativarUsuario(context.Background(), uuid.MustParse(criado.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "jose", Password: "senha123"})
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "ana", Nome: "Ana Costa", Password: "senha123", Perfil: "admin",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "senha123"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, renovado.User.ID)
	assert.NotEmpty(t, renovado.AccessToken)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.Refresh(context.Background(), "não-é-um-jwt")
	assert.Error(t, err)
}

func TestAtualizarUsuarioTrocaSenha(t *testing.T) {
	svc, _, _ := authFixture(t)

	criado, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "carla", Nome: "Carla Souza", Password: "antiga1", Perfil: "operador",
	})
	require.NoError(t, err)

	nova := "novasenha"
	_, err = svc.AtualizarUsuario(context.Background(), uuid.MustParse(criado.ID), dto.AtualizarUsuarioRequest{
		Password: &nova,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "antiga1"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: nova})
	assert.NoError(t, err)
}
