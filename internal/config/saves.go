package config

import (
	"fmt"
	"os"
	"strings"
)

type SaveBackend string

const (
	SaveNone     SaveBackend = "none"
	SaveSQLite   SaveBackend = "sqlite"
	SavePostgres SaveBackend = "postgres"
	SaveRedis    SaveBackend = "redis"
)

type Saves struct {
	Backend    SaveBackend
	SQLitePath string
	Redis      Redis
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func NewSaves() (*Saves, error) {
	backend := SaveBackend(strings.ToLower(lookupDefault("MINES_SAVE_BACKEND", string(SaveSQLite))))
	switch backend {
	case SaveNone, SaveSQLite, SavePostgres, SaveRedis:
	default:
		return nil, fmt.Errorf(
			"MINES_SAVE_BACKEND must be one of none, sqlite, postgres, redis; got %q", backend,
		)
	}

	db, err := lookupInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	saves := &Saves{
		Backend:    backend,
		SQLitePath: lookupDefault("MINES_SQLITE_PATH", "mines.db"),
		Redis: Redis{
			Addr:     lookupDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		},
	}

	return saves, nil
}
