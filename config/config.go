package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Review edit policies decide who may update or delete a review.
const (
	// ReviewPolicyGroupOnly grants review mutations exclusively to members of
	// the Movies Administrators group.
	ReviewPolicyGroupOnly = "group_only"
	// ReviewPolicyOwnerOrGroup additionally grants the review's owner.
	ReviewPolicyOwnerOrGroup = "owner_or_group"
)

const (
	defaultTokenTTLHours = 24
	defaultDatabasePath  = "cinescore.db"
)

type Config struct {
	// database path
	DatabasePath string

	// JWT signing secret and token lifetime
	AuthSecret    string
	TokenTTLHours int

	// which review edit policy is active (see ReviewPolicy* constants)
	ReviewEditPolicy string

	// origin allowed by the CORS middleware
	CORSAllowedOrigin string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", defaultDatabasePath)

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("AUTH_SECRET must be set")
	}

	tokenTTL := getEnvIntOrDefault("AUTH_TOKEN_TTL_HOURS", defaultTokenTTLHours)

	policy := getEnvOrDefault("REVIEW_EDIT_POLICY", ReviewPolicyGroupOnly)
	if policy != ReviewPolicyGroupOnly && policy != ReviewPolicyOwnerOrGroup {
		return Config{}, fmt.Errorf("invalid REVIEW_EDIT_POLICY '%s': must be %q or %q", policy, ReviewPolicyGroupOnly, ReviewPolicyOwnerOrGroup)
	}

	corsOrigin := getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	cfg := Config{
		DatabasePath:      dbPath,
		AuthSecret:        secret,
		TokenTTLHours:     tokenTTL,
		ReviewEditPolicy:  policy,
		CORSAllowedOrigin: corsOrigin,
	}

	return cfg, nil
}
