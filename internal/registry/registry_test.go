package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/grokify/releaseconductor/internal/runner"
)

func TestPublishArgs(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"latest", []string{"publish", "--registry=https://r.example.com"}},
		{"", []string{"publish", "--registry=https://r.example.com"}},
		{"beta", []string{"publish", "--tag", "beta", "--registry=https://r.example.com"}},
		{"latest-1", []string{"publish", "--tag", "latest-1", "--registry=https://r.example.com"}},
	}
	for _, tt := range tests {
		if got := PublishArgs(tt.tag, "https://r.example.com"); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PublishArgs(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestClient_PublishAndDistTags(t *testing.T) {
	var calls []string
	r := runner.Func(func(_ context.Context, opts runner.Options) (string, error) {
		calls = append(calls, opts.String())
		if opts.Dir != "/pkg" {
			t.Errorf("command ran in %q", opts.Dir)
		}
		return "latest: 1.0.0\n", nil
	})
	c := NewClient(r, "/pkg", "cnpm")

	if err := c.Publish(context.Background(), "beta", "https://r.example.com"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	out, err := c.DistTags(context.Background())
	if err != nil {
		t.Fatalf("DistTags failed: %v", err)
	}
	if out != "latest: 1.0.0\n" {
		t.Errorf("DistTags output = %q", out)
	}

	want := []string{
		"cnpm publish --tag beta --registry=https://r.example.com",
		"cnpm dist-tag ls",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestNewClient_DefaultBin(t *testing.T) {
	if c := NewClient(nil, "", ""); c.Bin != "npm" {
		t.Errorf("Bin = %q, want npm", c.Bin)
	}
}

func TestChooseTag(t *testing.T) {
	pkg := &Packument{
		Name:     "foo",
		DistTags: map[string]string{"latest": "2.1.0"},
		Versions: map[string]json.RawMessage{},
	}
	for _, v := range []string{"1.0.0", "2.0.0", "2.1.0"} {
		pkg.Versions[v] = json.RawMessage("{}")
	}

	tests := []struct {
		version string
		want    string
	}{
		{"2.1.1", "latest"},
		{"3.0.0", "latest"},
		{"1.0.1", "latest-1"},
		{"2.0.5", "latest-2"},
		{"3.0.0-beta.1", "beta"},
		{"3.0.0-alpha", "alpha"},
		{"3.0.0-0", "next"},
		{"3.0.0-rc1", "next"},
	}
	for _, tt := range tests {
		got, err := ChooseTag(pkg, tt.version)
		if err != nil {
			t.Errorf("ChooseTag(%q) error: %v", tt.version, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ChooseTag(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestChooseTag_Unpublished(t *testing.T) {
	got, err := ChooseTag(nil, "0.0.1")
	if err != nil {
		t.Fatalf("ChooseTag failed: %v", err)
	}
	if got != "latest" {
		t.Errorf("got %q, want latest", got)
	}
}

func TestChooseTag_Exists(t *testing.T) {
	pkg := &Packument{Name: "foo", Versions: map[string]json.RawMessage{"1.0.0": json.RawMessage("{}")}}
	_, err := ChooseTag(pkg, "1.0.0")
	if !errors.Is(err, ErrVersionExists) {
		t.Errorf("expected ErrVersionExists, got %v", err)
	}
}

func TestChooseTag_InvalidVersion(t *testing.T) {
	if _, err := ChooseTag(nil, "not-a-version"); err == nil {
		t.Error("expected error for invalid version")
	}
}

func TestTagResolver_SafeTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/@acme%2Fwidget":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"@acme/widget","dist-tags":{"latest":"1.4.0"},"versions":{"1.4.0":{}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	resolver := &TagResolver{HTTPClient: server.Client()}

	tag, err := resolver.SafeTag(context.Background(), "@acme/widget", "1.3.9", server.URL+"/")
	if err != nil {
		t.Fatalf("SafeTag failed: %v", err)
	}
	if tag != "latest-1" {
		t.Errorf("tag = %q, want latest-1", tag)
	}

	tag, err = resolver.SafeTag(context.Background(), "brand-new", "0.1.0", server.URL)
	if err != nil {
		t.Fatalf("SafeTag failed: %v", err)
	}
	if tag != "latest" {
		t.Errorf("tag = %q, want latest for unpublished package", tag)
	}
}

func TestTagResolver_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	resolver := &TagResolver{HTTPClient: server.Client()}
	if _, err := resolver.SafeTag(context.Background(), "foo", "1.0.0", server.URL); err == nil {
		t.Error("expected error for forbidden response")
	}
}

func TestNewTagResolver(t *testing.T) {
	r := NewTagResolver(ResolverConfig{MaxRetries: 2})
	if r.HTTPClient == nil || r.HTTPClient.Transport == nil {
		t.Fatal("expected retrying transport")
	}
}
