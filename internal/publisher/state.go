package publisher

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/internal/collector"
	"github.com/grokify/releaseconductor/internal/commits"
	"github.com/grokify/releaseconductor/internal/manifest"
	"github.com/grokify/releaseconductor/pkg/model"
)

// runState is the state of one release run.
type runState struct {
	manifest *manifest.Manifest
	triple   model.VersionTriple
	version  string
	tag      string
	registry string

	// bucket is filled on first use of commits.
	bucket *model.CommitBucket
}

// commits returns the classified commit log, reading it from src only once
// per run.
func (s *runState) commits(ctx context.Context, src collector.CommitSource) (*model.CommitBucket, error) {
	if s.bucket != nil {
		return s.bucket, nil
	}
	log, err := src.CommitLog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read commit log")
	}
	bucket := commits.Classify(log)
	s.bucket = &bucket
	return s.bucket, nil
}
