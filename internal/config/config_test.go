package config

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/grokify/releaseconductor/pkg/model"
)

func TestGetProfile(t *testing.T) {
	for _, name := range ListProfiles() {
		p := GetProfile(name)
		if p == nil {
			t.Fatalf("GetProfile(%q) returned nil", name)
		}
		if p.Name != name {
			t.Errorf("GetProfile(%q).Name = %q", name, p.Name)
		}
	}
	if GetProfile("unknown") != nil {
		t.Error("expected nil for unknown profile")
	}
}

func TestGetProfile_ReturnsCopy(t *testing.T) {
	p := GetProfile("node")
	p.Audits.Files.Command = "changed"
	if ProfileNode.Audits.Files.Command != "npx" {
		t.Error("GetProfile must not expose the built-in profile")
	}
}

func TestNodeProfile(t *testing.T) {
	p := GetProfile("node")
	if p.Audits.Dependencies.Command != "npx" || p.Audits.Dependencies.Args[0] != "autod" {
		t.Errorf("dependencies audit = %+v", p.Audits.Dependencies)
	}
	if got := p.Audits.Files.Args[len(p.Audits.Files.Args)-1]; got != "--check" {
		t.Errorf("files audit should end with --check, got %q", got)
	}
}

func TestLoadProfileFromBytes(t *testing.T) {
	data := []byte(`
name: custom
description: Custom release
audits:
  files:
    command: ./scripts/check-files.sh
  dependencies:
    command: npx
    args: [depcheck]
stage:
  - package-lock.json
githubRelease: true
`)
	p, err := LoadProfileFromBytes(data)
	if err != nil {
		t.Fatalf("LoadProfileFromBytes failed: %v", err)
	}

	want := &model.ReleaseProfile{
		Name:        "custom",
		Description: "Custom release",
		Audits: model.AuditConfig{
			Files:        model.CommandSpec{Command: "./scripts/check-files.sh"},
			Dependencies: model.CommandSpec{Command: "npx", Args: []string{"depcheck"}},
		},
		Stage:         []string{"package-lock.json"},
		GitHubRelease: true,
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestLoadProfileFromBytes_Invalid(t *testing.T) {
	if _, err := LoadProfileFromBytes([]byte("stage: [unclosed")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := SaveProfileToFile(GetProfile("node"), path); err != nil {
		t.Fatalf("SaveProfileToFile failed: %v", err)
	}

	p, err := LoadProfileFromFile(path)
	if err != nil {
		t.Fatalf("LoadProfileFromFile failed: %v", err)
	}
	if !reflect.DeepEqual(p, GetProfile("node")) {
		t.Errorf("loaded %+v", p)
	}
}

func TestResolve(t *testing.T) {
	p, err := Resolve("minimal", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Name != "minimal" {
		t.Errorf("Name = %q", p.Name)
	}

	if _, err := Resolve("nope", ""); err == nil {
		t.Error("expected error for unknown profile")
	}
	if _, err := Resolve("node", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing profile file")
	}
}
