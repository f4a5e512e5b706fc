// Package journal appends one JSON line per move and per finished game to a
// size-rotated file.
package journal

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Journal struct {
	log *logrus.Logger
}

// New writes to path, rotating at 10 MB and keeping 3 old files. An empty path
// gives a journal that drops everything.
func New(path string) (*Journal, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.InfoLevel)

	if path != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      logrus.InfoLevel,
			Formatter: &logrus.JSONFormatter{
				TimestampFormat: time.RFC3339Nano,
			},
		})
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}

	return &Journal{log: log}, nil
}

func (j *Journal) NewGame(c mines.Config) {
	j.log.WithFields(logrus.Fields{
		"width":      c.Width,
		"height":     c.Height,
		"mine_count": c.MineCount,
	}).Info("new game")
}

func (j *Journal) Move(index int, action mines.Action, state mines.State, changed bool) {
	j.log.WithFields(logrus.Fields{
		"index":   index,
		"action":  action.String(),
		"state":   state.String(),
		"changed": changed,
	}).Info("move")
}

func (j *Journal) GameOver(state mines.State, elapsed time.Duration) {
	j.log.WithFields(logrus.Fields{
		"state":      state.String(),
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("game over")
}

// Close detaches the file hook; later records are dropped. The rotating
// writer inside the hook exposes no Close, so its file handle stays open
// until the process exits.
func (j *Journal) Close() error {
	j.log.ReplaceHooks(make(logrus.LevelHooks))
	return nil
}
