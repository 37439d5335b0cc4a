package statestore

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/fahim-ahmed05/dotmngr/pkg/errors"
	"github.com/fahim-ahmed05/dotmngr/pkg/logging"
	"github.com/fahim-ahmed05/dotmngr/pkg/types"
)

// Store reads and writes the state document at a fixed location.
type Store struct {
	fs   types.FS
	path string
	log  zerolog.Logger
}

// New creates a store for the given state file. The file does not need to
// exist yet.
func New(fsys types.FS, path string) *Store {
	return &Store{
		fs:   fsys,
		path: path,
		log:  logging.GetLogger("statestore"),
	}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted document. A missing file yields an empty
// document and no error. An unreadable or unparseable file also yields an
// empty document, together with a STATE_CORRUPT error the caller reports as
// a warning; the run continues as if nothing were tracked.
func (s *Store) Load(configPath string) (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("path", s.path).Msg("no state file yet, starting empty")
			return NewDocument(configPath), nil
		}
		return NewDocument(configPath), errors.Wrapf(err, errors.ErrStateCorrupt,
			"cannot read state file %s", s.path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewDocument(configPath), errors.Wrapf(err, errors.ErrStateCorrupt,
			"state file %s is not valid JSON", s.path)
	}

	doc.ConfigPath = configPath
	if doc.Groups == nil {
		doc.Groups = make(map[string]*GroupState)
	}
	for name, state := range doc.Groups {
		if state == nil {
			doc.Groups[name] = &GroupState{Entries: make(map[string]types.Entry)}
		} else if state.Entries == nil {
			state.Entries = make(map[string]types.Entry)
		}
	}

	s.log.Debug().
		Str("path", s.path).
		Int("groups", len(doc.Groups)).
		Msg("loaded state")
	return &doc, nil
}

// Save writes the document in one shot. Runs persist exactly once, at the
// very end; a fatal abort earlier in the run deliberately skips this.
func (s *Store) Save(doc *Document, now time.Time) error {
	doc.UpdatedAt = now

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode state")
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create state directory for %s", s.path)
	}
	if err := s.fs.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot write state file %s", s.path)
	}

	s.log.Debug().
		Str("path", s.path).
		Int("groups", len(doc.Groups)).
		Msg("saved state")
	return nil
}
