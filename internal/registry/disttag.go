package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/grokify/mogo/net/http/retryhttp"
	goversion "github.com/hashicorp/go-version"
)

// ErrVersionExists is returned when the registry already has the version.
var ErrVersionExists = errors.New("version already published")

var alphaIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z-]*$`)

// NextTag is used for prereleases without an alphabetic identifier.
const NextTag = "next"

// Packument is the subset of registry package metadata the resolver reads.
type Packument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
}

// TagResolver picks a dist-tag by looking at what the registry already has.
type TagResolver struct {
	HTTPClient *http.Client
}

// ResolverConfig configures the HTTP client of a TagResolver.
type ResolverConfig struct {
	// MaxRetries is the maximum number of retry attempts. Default is 3.
	MaxRetries int

	// InitialBackoff is the initial backoff between retries. Default is 1 second.
	InitialBackoff time.Duration
}

// NewTagResolver creates a resolver with a retrying HTTP transport.
func NewTagResolver(cfg ResolverConfig) *TagResolver {
	retryOpts := []retryhttp.Option{}
	if cfg.MaxRetries > 0 {
		retryOpts = append(retryOpts, retryhttp.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.InitialBackoff > 0 {
		retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(cfg.InitialBackoff))
	}
	rt := retryhttp.NewWithOptions(retryOpts...)
	return &TagResolver{HTTPClient: &http.Client{Transport: rt}}
}

// Fetch returns the package metadata, or nil when the package is not
// published yet.
func (r *TagResolver) Fetch(ctx context.Context, name, registry string) (*Packument, error) {
	endpoint := strings.TrimRight(registry, "/") + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetch %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	var pkg Packument
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return nil, errors.Wrapf(err, "decode metadata for %s", name)
	}
	return &pkg, nil
}

// SafeTag returns the dist-tag version should be published under.
func (r *TagResolver) SafeTag(ctx context.Context, name, version, registry string) (string, error) {
	pkg, err := r.Fetch(ctx, name, registry)
	if err != nil {
		return "", err
	}
	return ChooseTag(pkg, version)
}

// ChooseTag applies the tag rules to already fetched metadata:
// unpublished packages and newer versions get latest, prereleases get their
// first alphabetic identifier (or next), and older versions get
// latest-<major>.
func ChooseTag(pkg *Packument, version string) (string, error) {
	v, err := goversion.NewSemver(version)
	if err != nil {
		return "", errors.Wrapf(err, "parse version %s", version)
	}
	if pkg == nil {
		return LatestTag, nil
	}
	if _, ok := pkg.Versions[version]; ok {
		return "", errors.Wrapf(ErrVersionExists, "%s@%s", pkg.Name, version)
	}

	if pre := v.Prerelease(); pre != "" {
		ident := strings.SplitN(pre, ".", 2)[0]
		if alphaIdentifier.MatchString(ident) {
			return ident, nil
		}
		return NextTag, nil
	}

	latestStr, ok := pkg.DistTags[LatestTag]
	if !ok {
		return LatestTag, nil
	}
	latest, err := goversion.NewSemver(latestStr)
	if err != nil {
		return LatestTag, nil
	}
	if v.LessThan(latest) {
		return LatestTag + "-" + strconv.Itoa(v.Segments()[0]), nil
	}
	return LatestTag, nil
}
