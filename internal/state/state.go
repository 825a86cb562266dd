// Package state wires configuration, file access, the content index, and
// the notes watcher together for the commands.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/quillnotes/quill/internal/config"
	"github.com/quillnotes/quill/internal/constants"
	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/order"
	"github.com/quillnotes/quill/internal/pathutil"
)

type State struct {
	Config   *config.Config
	Handler  *note.FileHandler
	Index    *index.Service
	Logger   *slog.Logger
	Home     string
	NotesDir string
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	viper.AddConfigPath(filepath.Join(home, constants.ConfigDir))
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	// An unconfigured notes directory is tolerated here so that the init
	// command can run; StartScan reports it for everything else.
	var initErr *config.ConfigInitError
	if err := config.EnsureConfigExists(home); err != nil && !errors.As(err, &initErr) {
		return nil, err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}

	notesDir := pathutil.NormalizePath(cfg.NotesDir)

	logger := slog.Default()
	handler := note.NewFileHandler(notesDir, cfg.IgnoredFolders...)

	return &State{
		Config:   cfg,
		Handler:  handler,
		Index:    index.NewService(handler.ReadText, logger),
		Logger:   logger,
		Home:     home,
		NotesDir: notesDir,
	}, nil
}

// StartScan lists the corpus and kicks off a background index rebuild. The
// returned channel closes when the scan settles.
func (s *State) StartScan(ctx context.Context) (<-chan struct{}, error) {
	if strings.TrimSpace(s.NotesDir) == "" {
		return nil, &config.ConfigInitError{}
	}
	refs, err := s.Handler.List()
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return s.Index.StartScan(ctx, refs), nil
}

// Pinned returns the pin list for the notes directory.
func (s *State) Pinned() []string {
	return s.Config.PinsFor(s.NotesDir)
}

// SortKey returns the configured secondary sort key.
func (s *State) SortKey() order.SortKey {
	return s.Config.SortKey()
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return home, nil
}
