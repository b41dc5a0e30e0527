package config

import "strconv"

// StoreConfig selects the backing stores. An empty Postgres DSN runs the
// server against in-memory fakes seeded with a bootstrap admin, which is
// only useful for local development.
type StoreConfig interface {
	GetPostgresDSN() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetPostgresDSN() string {
	return GetEnv("POSTGRES_DSN", "")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}
