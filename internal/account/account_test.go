package account

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

// mockUserRepository for testing
type mockUserRepository struct {
	users map[uuid.UUID]*User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepository) CreateUser(user *User) error {
	if _, exists := m.users[user.ID]; exists {
		return fmt.Errorf("user already exists")
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetUserByID(id uuid.UUID) (*User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepository) GetUserByUsername(username string) (*User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func testKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)
	return privateKey, &privateKey.PublicKey
}

func testConfig() Config {
	return Config{
		JWTExpirationHours: 1,
		ChallengeTTLSec:    300,
	}
}

func TestAccountService_GenerateAndValidateJWT(t *testing.T) {
	repo := newMockUserRepository()
	privateKey, publicKey := testKeyPair(t)
	service := NewAccountService(repo, testConfig(), privateKey, publicKey)

	user := &User{
		ID:        uuid.New(),
		Username:  "tester",
		CreatedAt: time.Now().Unix(),
	}
	assert.NoError(t, repo.CreateUser(user))

	token, expiresAt, err := service.GenerateJWT(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	validated, err := service.ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)
	assert.Equal(t, "tester", validated.Username)
}

func TestAccountService_ValidateJWT_RejectsExpiredToken(t *testing.T) {
	repo := newMockUserRepository()
	privateKey, publicKey := testKeyPair(t)
	config := testConfig()
	config.JWTExpirationHours = -1 // already expired at issuance
	service := NewAccountService(repo, config, privateKey, publicKey)

	user := &User{ID: uuid.New(), Username: "tester"}
	assert.NoError(t, repo.CreateUser(user))

	token, _, err := service.GenerateJWT(user)
	assert.NoError(t, err)

	_, err = service.ValidateJWT(token)
	assert.Error(t, err)
}

func TestAccountService_ValidateJWT_RejectsTokenSignedWithDifferentKey(t *testing.T) {
	repo := newMockUserRepository()
	privateKey, _ := testKeyPair(t)
	_, otherPublicKey := testKeyPair(t)
	issuer := NewAccountService(repo, testConfig(), privateKey, &privateKey.PublicKey)
	verifier := NewAccountService(repo, testConfig(), privateKey, otherPublicKey)

	user := &User{ID: uuid.New(), Username: "tester"}
	assert.NoError(t, repo.CreateUser(user))

	token, _, err := issuer.GenerateJWT(user)
	assert.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}

func TestAccountService_ValidateJWT_RejectsUnknownUser(t *testing.T) {
	repo := newMockUserRepository()
	privateKey, publicKey := testKeyPair(t)
	service := NewAccountService(repo, testConfig(), privateKey, publicKey)

	// Token for a user that was never persisted.
	ghost := &User{ID: uuid.New(), Username: "ghost"}
	token, _, err := service.GenerateJWT(ghost)
	assert.NoError(t, err)

	_, err = service.ValidateJWT(token)
	assert.Error(t, err)
}

func TestAccountEndpoints_GetChallenge_ConcurrentRequests(t *testing.T) {
	repo := newMockUserRepository()
	privateKey, publicKey := testKeyPair(t)
	service := NewAccountService(repo, testConfig(), privateKey, publicKey)
	endpoints := NewEndpoints(repo, testConfig(), service)

	usernames := []string{"alice", "bob", "carol", "dave"}
	for _, username := range usernames {
		assert.NoError(t, repo.CreateUser(&User{
			ID:       uuid.New(),
			Username: username,
		}))
	}

	// Login challenges arrive on concurrent handler goroutines; the
	// shared challenge map must survive simultaneous issuance.
	var wg sync.WaitGroup
	const requestsPerUser = 100
	for _, username := range usernames {
		for i := 0; i < requestsPerUser; i++ {
			wg.Add(1)
			go func(username string) {
				defer wg.Done()
				var ctx fasthttp.RequestCtx
				ctx.Request.SetRequestURI("/accounts/challenge?username=" + username)
				endpoints.GetChallenge(&ctx)
				assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
			}(username)
		}
	}
	wg.Wait()

	endpoints.mu.Lock()
	defer endpoints.mu.Unlock()
	assert.Len(t, endpoints.challenges, len(usernames))
	for _, username := range usernames {
		info, ok := endpoints.challenges[username]
		assert.True(t, ok)
		assert.NotEmpty(t, info.challenge)
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := extractBearerToken("Bearer abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = extractBearerToken("abc.def.ghi")
	assert.Error(t, err)

	_, err = extractBearerToken("Basic abc")
	assert.Error(t, err)

	_, err = extractBearerToken("Bearer abc def")
	assert.Error(t, err)
}

func TestParseRSAPublicKey(t *testing.T) {
	_, publicKey := testKeyPair(t)

	pemData := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(publicKey),
	}))

	parsed, err := parseRSAPublicKey(pemData)
	assert.NoError(t, err)
	assert.True(t, publicKey.Equal(parsed))

	_, err = parseRSAPublicKey("not a pem")
	assert.Error(t, err)
}
