package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

// EnvService reads configuration from the process environment after layering
// .env and .env.<APP_ENV> on top of it.
type EnvService struct {
	appEnv string
	notes  []string
}

func NewEnvService() *EnvService {
	return NewEnvServiceFrom(".")
}

// NewEnvServiceFrom loads the dotenv files found in dir.
func NewEnvServiceFrom(dir string) *EnvService {
	e := &EnvService{appEnv: os.Getenv("APP_ENV")}
	if e.appEnv == "" {
		e.appEnv = "dev"
	}

	if err := godotenv.Load(dir + "/.env"); err != nil {
		e.notes = append(e.notes, "no .env file found, using process environment")
	}

	envFile := fmt.Sprintf("%s/.env.%s", dir, e.appEnv)
	if err := godotenv.Overload(envFile); err != nil {
		e.notes = append(e.notes, fmt.Sprintf("could not load %s: %v", envFile, err))
	}

	return e
}

func (e *EnvService) AppEnv() string {
	return e.appEnv
}

// Notes returns what happened while loading, for logging once a logger exists.
func (e *EnvService) Notes() []string {
	return e.notes
}

func (e *EnvService) Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.Get(key); val != "" {
		return val
	}
	return defaultValue
}

// GetBool accepts yes/y/on as well as anything strconv.ParseBool does.
func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := strings.ToLower(e.Get(key))
	if val == "" {
		return defaultValue
	}
	switch val {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return parsed
}

// GetDuration parses a Go duration. Invalid values return the default and
// are noted.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		e.notes = append(e.notes, fmt.Sprintf("invalid %s=%q, using %s", key, val, defaultValue))
		return defaultValue
	}
	return parsed
}

func (e *EnvService) Profile() entity.Profile {
	return entity.Profile{
		IDNumber:  e.Get("ID_NUMBER"),
		Name:      e.Get("NAME"),
		BirthDate: e.Get("BIRTH_DATE"),
		Phone:     e.Get("PHONE"),

		Address:               e.Get("ADDRESS"),
		ZipCode:               e.Get("ZIPCODE"),
		EmergencyContactName:  e.Get("EMERGENCY_CONTACT_NAME"),
		EmergencyContactPhone: e.Get("EMERGENCY_CONTACT_PHONE"),

		PassiveSmoking: e.GetBool("PASSIVE_SMOKING", false),
		SmokingHabit:   e.GetBool("SMOKING_HABIT", false),
		DrinkingHabit:  e.GetBool("DRINKING_HABIT", false),
		BetelNutHabit:  e.GetBool("BETEL_NUT_HABIT", false),

		AgreeDataCollection:     e.GetBool("AGREE_DATA_COLLECTION", false),
		AgreeSatisfactionSurvey: e.GetBool("AGREE_SATISFACTION_SURVEY", false),
	}
}
