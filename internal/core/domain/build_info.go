package domain

import (
	"path/filepath"
	"time"
)

// ManifestPath is the location of the install manifest store, relative to the project root.
var ManifestPath = filepath.Join(".forge", "installs.json")

// JournalPath is where the progress journal of the last command is written, relative to the project root.
var JournalPath = filepath.Join(".forge", "journal.json")

// InstallManifest records the files a successful install placed on disk.
type InstallManifest struct {
	ID          string    `json:"id,omitzero"`
	Target      string    `json:"target,omitzero"`
	Prefix      string    `json:"prefix,omitzero"`
	Files       []string  `json:"files,omitempty"`
	InstalledAt time.Time `json:"installed_at,omitzero"`
}
