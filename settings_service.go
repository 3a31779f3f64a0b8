package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Settings struct {
	Theme           string `json:"theme"`
	AutoConnect     bool   `json:"autoConnect"`
	RecordOnConnect bool   `json:"recordOnConnect"`
}

func defaultSettings() Settings {
	return Settings{Theme: "dark"}
}

type SettingsService struct {
	mu       sync.RWMutex
	settings Settings
	filePath string
}

func NewSettingsService(dir string) *SettingsService {
	s := &SettingsService{
		filePath: filepath.Join(dir, "settings.json"),
		settings: defaultSettings(),
	}
	s.load()
	return s
}

func (s *SettingsService) GetSettings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsService) UpdateSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.save()
}

func (s *SettingsService) recordOnConnect() bool {
	return s.GetSettings().RecordOnConnect
}

func (s *SettingsService) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	json.Unmarshal(data, &s.settings)
}

func (s *SettingsService) save() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0o644)
}
