package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("NOTEFLOW_TEST_NAME", "from-env")
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("name: ${NOTEFLOW_TEST_NAME}\nport: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("port: 0\n"), 0o644)
	var s sample
	if err := Load(path, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadOrDefault_MissingFileKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	read, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"), &s)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if read {
		t.Error("reported a missing file as read")
	}
	if s.Name != "default" || s.Port != 8080 {
		t.Errorf("defaults changed: %+v", s)
	}
}

func TestLoadOrDefault_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("port: 7000\n"), 0o644)
	s := sample{Name: "default", Port: 8080}
	read, err := LoadOrDefault(path, &s)
	if err != nil || !read {
		t.Fatalf("LoadOrDefault: read=%v err=%v", read, err)
	}
	if s.Name != "default" || s.Port != 7000 {
		t.Errorf("got %+v", s)
	}
}
