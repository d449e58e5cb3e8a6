package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT signs the tokens that grant access to a single game session.
type JWT struct {
	signKey       any
	verifyKey     any
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

type SessionClaims struct {
	SessionId string `json:"session_id"`
	jwt.RegisteredClaims
}

func (j *JWT) NewSessionClaims(sessionId string) *SessionClaims {
	now := time.Now()
	return &SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
}

func loadPrivateKey() (*rsa.PrivateKey, bool, error) {
	privateKeyStr, ok := os.LookupEnv("JWT_PRIVATE_KEY")
	if ok {
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyStr))
		return key, true, err
	}
	privateKeyPath, ok := os.LookupEnv("JWT_PRIVATE_KEY_FILE")
	if !ok {
		return nil, false, nil
	}
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, true, fmt.Errorf("unable to read JWT private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
	return key, true, err
}

func loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyStr, ok := os.LookupEnv("JWT_PUBLIC_KEY")
	if ok {
		return jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyStr))
	}
	publicKeyPath, ok := os.LookupEnv("JWT_PUBLIC_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE env variable set")
	}
	publicKeyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT public key: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
}

func loadLifetime() (time.Duration, error) {
	lifetimeStr, ok := os.LookupEnv("JWT_TOKEN_LIFETIME")
	if !ok {
		return time.Hour * 24, nil
	}
	lifetime, err := time.ParseDuration(lifetimeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid JWT_TOKEN_LIFETIME: %w", err)
	}
	return lifetime, nil
}

// NewJWT prefers an RS256 key pair and falls back to an HS256 JWT_SECRET.
func NewJWT() (*JWT, error) {
	lifetime, err := loadLifetime()
	if err != nil {
		return nil, err
	}

	privateKey, found, err := loadPrivateKey()
	if err != nil {
		return nil, err
	}
	if found {
		publicKey, err := loadPublicKey()
		if err != nil {
			return nil, err
		}
		j := &JWT{
			signKey:       privateKey,
			verifyKey:     publicKey,
			signingMethod: jwt.SigningMethodRS256,
			tokenLifetime: lifetime,
		}
		return j, nil
	}

	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok || secret == "" {
		return nil, fmt.Errorf("no JWT_PRIVATE_KEY, JWT_PRIVATE_KEY_FILE or JWT_SECRET env variable set")
	}
	return NewHMACJWT([]byte(secret), lifetime), nil
}

func NewHMACJWT(secret []byte, lifetime time.Duration) *JWT {
	return &JWT{
		signKey:       secret,
		verifyKey:     secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.signKey)
}

func (j *JWT) ParseSessionClaims(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.verifyKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
