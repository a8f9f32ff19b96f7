package account

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const (
	headerAuthorization = "Authorization"
	headerBearer        = "Bearer"
)

// User is an authenticated account. PublicKey is the PEM-encoded RSA
// key the client signs login challenges with.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	PublicKey string    `json:"publicKey"`
	CreatedAt int64     `json:"createdAt"`
}

type UserRepository interface {
	CreateUser(user *User) error
	GetUserByID(id uuid.UUID) (*User, error)
	GetUserByUsername(username string) (*User, error)
}

type Config struct {
	JWTExpirationHours int `mapstructure:"jwt_expiration_hours"`
	ChallengeTTLSec    int `mapstructure:"challenge_ttl_sec"`
}

type JWTClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWS claims the client signs to answer a login challenge.
type authJWSClaims struct {
	Username  string `json:"username"`
	Challenge string `json:"challenge"`
	IssuedAt  int64  `json:"iat"`
}

type ChallengeResponse struct {
	Challenge string `json:"challenge"`
	ExpiresAt int64  `json:"expiresAt"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	PublicKey string `json:"publicKey"`
}

type challengeInfo struct {
	challenge string
	expiresAt time.Time
}

var timeNowFunc = time.Now

type AccountEndpoints struct {
	userRepository UserRepository
	config         Config
	accountService *AccountService
	// Issued login challenges awaiting a signed answer. Guarded by mu;
	// handlers run on concurrent goroutines.
	mu         sync.Mutex
	challenges map[string]challengeInfo
}

func NewEndpoints(userRepository UserRepository, config Config, accountService *AccountService) *AccountEndpoints {
	return &AccountEndpoints{
		userRepository: userRepository,
		config:         config,
		accountService: accountService,
		challenges:     make(map[string]challengeInfo),
	}
}

// Register handles POST /accounts/register
func (ae *AccountEndpoints) Register(ctx *fasthttp.RequestCtx) {
	var req RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		ctx.Error("Invalid request body", fasthttp.StatusBadRequest)
		return
	}
	if req.Username == "" {
		ctx.Error("Username is required", fasthttp.StatusBadRequest)
		return
	}
	if _, err := parseRSAPublicKey(req.PublicKey); err != nil {
		log.Error().Err(err).Msg("Invalid public key")
		ctx.Error("Invalid public key", fasthttp.StatusBadRequest)
		return
	}

	existing, err := ae.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up user")
		ctx.Error("Internal server error", fasthttp.StatusInternalServerError)
		return
	}
	if existing != nil {
		ctx.Error("Username already taken", fasthttp.StatusConflict)
		return
	}

	newUser := &User{
		ID:        uuid.New(),
		Username:  req.Username,
		PublicKey: req.PublicKey,
		CreatedAt: time.Now().Unix(),
	}
	if err := ae.userRepository.CreateUser(newUser); err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		ctx.Error("Failed to create user", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusCreated)
	ctx.SetContentType("application/json")
	response := map[string]string{"id": newUser.ID.String(), "username": newUser.Username}
	json.NewEncoder(ctx).Encode(response)
}

// GetChallenge generates a challenge for user login
func (ae *AccountEndpoints) GetChallenge(ctx *fasthttp.RequestCtx) {
	username := ctx.QueryArgs().Peek("username")
	if username == nil {
		log.Error().Msg("Missing username parameter")
		ctx.Error("Missing username parameter", fasthttp.StatusBadRequest)
		return
	}

	user, err := ae.userRepository.GetUserByUsername(string(username))
	if err != nil || user == nil {
		log.Error().Err(err).Msg("User not found")
		ctx.Error("User not found", fasthttp.StatusNotFound)
		return
	}

	challenge, err := generateChallenge()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate challenge")
		ctx.Error("Internal server error", fasthttp.StatusInternalServerError)
		return
	}

	expiresAt := time.Now().Add(time.Duration(ae.config.ChallengeTTLSec) * time.Second)
	ae.mu.Lock()
	ae.challenges[string(username)] = challengeInfo{
		challenge: challenge,
		expiresAt: expiresAt,
	}
	ae.mu.Unlock()

	response := ChallengeResponse{
		Challenge: challenge,
		ExpiresAt: expiresAt.Unix(),
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(response)
}

// Auth handles login: the client answers the challenge with a JWS
// signed by its registered key, the server answers with a session JWT.
func (ae *AccountEndpoints) Auth(ctx *fasthttp.RequestCtx) {
	authHeader := ctx.Request.Header.Peek(headerAuthorization)
	if authHeader == nil {
		log.Error().Msg("Missing authorization header")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	signedJWS, err := extractBearerToken(string(authHeader))
	if err != nil {
		log.Error().Err(err).Msg("Invalid authorization header")
		ctx.Error("Invalid authorization header", fasthttp.StatusBadRequest)
		return
	}

	claims, err := ae.verifyAuthJWS(signedJWS)
	if err != nil {
		log.Error().Err(err).Msg("Failed to verify JWS")
		ctx.Error("Failed to verify JWS", fasthttp.StatusUnauthorized)
		return
	}

	user, err := ae.userRepository.GetUserByUsername(claims.Username)
	if err != nil || user == nil {
		log.Error().Err(err).Msg("User not found")
		ctx.Error("User not found", fasthttp.StatusNotFound)
		return
	}

	token, expiresAt, err := ae.accountService.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate JWT")
		ctx.Error("Internal server error", fasthttp.StatusInternalServerError)
		return
	}

	// Challenges are single use.
	ae.mu.Lock()
	delete(ae.challenges, claims.Username)
	ae.mu.Unlock()

	response := LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(response)
}

func (ae *AccountEndpoints) verifyAuthJWS(signedJWS string) (*authJWSClaims, error) {
	// Parse the JWS without verification to extract the claims
	msg, err := jws.Parse([]byte(signedJWS))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWS: %w", err)
	}

	var claims authJWSClaims
	if err := json.Unmarshal(msg.Payload(), &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JWS claims: %w", err)
	}

	timeNow := timeNowFunc()
	issuedAtTime := time.Unix(claims.IssuedAt, 0)
	if issuedAtTime.Add(time.Duration(ae.config.ChallengeTTLSec) * time.Second).Before(timeNow) {
		return nil, fmt.Errorf("JWS has expired")
	}

	user, err := ae.userRepository.GetUserByUsername(claims.Username)
	if err != nil || user == nil {
		return nil, fmt.Errorf("user not found")
	}

	publicKey, err := parseRSAPublicKey(user.PublicKey)
	if err != nil {
		return nil, err
	}

	verified, err := jws.Verify([]byte(signedJWS), jws.WithKey(jwa.RS256(), publicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to verify JWS signature: %w", err)
	}
	if len(verified) == 0 {
		return nil, fmt.Errorf("JWS signature verification failed")
	}

	ae.mu.Lock()
	stored, exists := ae.challenges[claims.Username]
	if exists && stored.expiresAt.Before(timeNow) {
		delete(ae.challenges, claims.Username)
	}
	ae.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("no challenge found for user")
	}
	if stored.challenge != claims.Challenge {
		return nil, fmt.Errorf("challenge mismatch")
	}
	if stored.expiresAt.Before(timeNow) {
		return nil, fmt.Errorf("challenge has expired")
	}

	return &claims, nil
}

func parseRSAPublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("failed to decode public key PEM")
	}
	publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return publicKey, nil
}

func generateChallenge() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
