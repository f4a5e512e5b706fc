package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

// Load reads a .env file from the working directory into the environment.
// Variables that are already set win. A missing file is not an error.
func Load(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to load env file: %w", err)
	}
	return nil
}

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func lookupBool(key string, fallback bool) bool {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback
	}
	return s != "0" && s != "false"
}

// Board returns the board size a new session starts with.
func Board() (mines.Config, error) {
	c := mines.DefaultConfig
	var err error
	if c.Width, err = lookupInt("MINES_WIDTH", c.Width); err != nil {
		return c, err
	}
	if c.Height, err = lookupInt("MINES_HEIGHT", c.Height); err != nil {
		return c, err
	}
	if c.MineCount, err = lookupInt("MINES_MINES", c.MineCount); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid MINES_WIDTH/MINES_HEIGHT/MINES_MINES: %w", err)
	}
	return c, nil
}

func Settings() mines.Settings {
	return mines.Settings{
		OpenFirst: lookupBool("MINES_OPEN_FIRST", mines.DefaultSettings.OpenFirst),
		AutoChord: lookupBool("MINES_AUTO_CHORD", mines.DefaultSettings.AutoChord),
	}
}

// JournalFile is where moves are journaled; empty disables the journal.
func JournalFile() string {
	return os.Getenv("MINES_JOURNAL_FILE")
}

// MetricsFile is the Prometheus textfile target; empty disables metrics
// export.
func MetricsFile() string {
	return os.Getenv("MINES_METRICS_FILE")
}
