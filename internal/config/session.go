package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Sessions struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxCells      int
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func NewSessions() (*Sessions, error) {
	ttl, err := lookupDuration("SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	interval, err := lookupDuration("SESSION_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	maxCells := 100 * 100
	if s, ok := os.LookupEnv("SESSION_MAX_CELLS"); ok {
		maxCells, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("unable to convert SESSION_MAX_CELLS to int: %w", err)
		}
	}

	sessions := &Sessions{
		TTL:           ttl,
		SweepInterval: interval,
		MaxCells:      maxCells,
	}

	return sessions, nil
}
