package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/sdejongh/phodime/pkg/exifdate"
	"github.com/sdejongh/phodime/pkg/logging"
	"github.com/sdejongh/phodime/pkg/scheme"
	"github.com/sdejongh/phodime/pkg/storage"
)

// crossCheckExif compares the date encoded in a file name with the capture
// date stored in the image. Disagreement is reported as information only and
// never changes counters.
func (r *dirRun) crossCheckExif(ctx context.Context, f storage.FileInfo, tokens scheme.Tokens) {
	e := r.e

	nameDay, ok := r.outcome.Scheme.DateToken(tokens)
	if !ok {
		return
	}

	rc, err := e.backend.Open(ctx, f.Path)
	if err != nil {
		e.logger.Debug(ctx, "exif check skipped", logging.Fields{"file": f.Path, "error": err.Error()})
		return
	}
	defer rc.Close()

	day, err := exifdate.Day(rc)
	if err != nil {
		if !errors.Is(err, exifdate.ErrNoDate) {
			e.logger.Warn(ctx, "exif check failed", logging.Fields{"file": f.Path, "error": err.Error()})
		}
		return
	}

	if day != nameDay {
		r.info(ctx, fmt.Sprintf("%q: name date %s differs from exif date %s", f.Name, nameDay, day))
	}
}
