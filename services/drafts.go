package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrDraftNotFound is returned when no draft has been saved for a form type.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is an in-progress form saved before submission. The payload is kept
// opaque so the store does not chase form layout changes.
type Draft struct {
	FormType string          `json:"form_type"`
	SavedAt  time.Time       `json:"saved_at"`
	Data     json.RawMessage `json:"data"`
}

// DraftStore keeps one draft per form type as a JSON file.
type DraftStore struct {
	Dir string
}

func NewDraftStore(dir string) *DraftStore {
	os.MkdirAll(dir, os.ModePerm)
	return &DraftStore{Dir: dir}
}

func (s *DraftStore) path(formType string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("draft_%s.json", formType))
}

// Save overwrites the draft for a form type.
func (s *DraftStore) Save(formType string, data json.RawMessage) error {
	draft := Draft{FormType: formType, SavedAt: time.Now(), Data: data}
	payload, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(formType), payload, 0644)
}

// Load returns the saved draft for a form type.
func (s *DraftStore) Load(formType string) (*Draft, error) {
	data, err := os.ReadFile(s.path(formType))
	if os.IsNotExist(err) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Delete removes the draft for a form type. Deleting a missing draft is not
// an error.
func (s *DraftStore) Delete(formType string) error {
	err := os.Remove(s.path(formType))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
