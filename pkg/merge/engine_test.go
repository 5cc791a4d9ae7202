package merge

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sdejongh/phodime/pkg/models"
	"github.com/sdejongh/phodime/pkg/output"
	"github.com/sdejongh/phodime/pkg/scheme"
	"github.com/sdejongh/phodime/pkg/storage"
	"github.com/spf13/afero"
)

// recorder is a Reporter that keeps what it is told
type recorder struct {
	started  bool
	messages []output.ProgressUpdate
	dirs     []string
	files    int
	fatal    error
	report   *models.RunReport
}

func (r *recorder) Start(w io.Writer, op *models.MergeOperation) error {
	r.started = true
	return nil
}

func (r *recorder) Progress(u output.ProgressUpdate) error {
	switch u.Type {
	case output.UpdateMessage:
		r.messages = append(r.messages, u)
	case output.UpdateDirectoryStart:
		r.dirs = append(r.dirs, u.Directory.Path)
	case output.UpdateFile:
		r.files++
	}
	return nil
}

func (r *recorder) Complete(report *models.RunReport) error {
	r.report = report
	return nil
}

func (r *recorder) Error(err error) error {
	r.fatal = err
	return nil
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) has(severity models.Severity, substr string) bool {
	for _, m := range r.messages {
		if m.Severity == severity && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// cannedPrompter answers questions from a fixed list, then the default
type cannedPrompter struct {
	answers   []bool
	questions []string
}

func (p *cannedPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	p.questions = append(p.questions, question)
	if len(p.answers) == 0 {
		return defaultYes, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type fixture struct {
	fs       afero.Fs
	backend  *storage.Local
	rec      *recorder
	prompter *cannedPrompter
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			if err := fsys.MkdirAll(path, 0755); err != nil {
				t.Fatalf("failed to create %s: %v", path, err)
			}
			continue
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return &fixture{
		fs:       fsys,
		backend:  storage.NewFS(fsys),
		rec:      &recorder{},
		prompter: &cannedPrompter{},
	}
}

func (f *fixture) run(t *testing.T, flags models.Flags, out string, inputs ...string) (*models.RunReport, error) {
	t.Helper()
	return f.runOp(t, &models.MergeOperation{
		ID:        "test-run",
		InputDirs: inputs,
		OutputDir: out,
		Flags:     flags,
	})
}

func (f *fixture) runOp(t *testing.T, op *models.MergeOperation) (*models.RunReport, error) {
	t.Helper()
	engine := NewEngine(f.backend, f.rec, f.prompter, nil, op)
	engine.SetOutput(io.Discard)
	report, err := engine.Run(context.Background())
	if report == nil {
		t.Fatal("Run() returned a nil report")
	}
	return report, err
}

func (f *fixture) content(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func (f *fixture) exists(path string) bool {
	ok, _ := afero.Exists(f.fs, path)
	return ok
}

func TestRun(t *testing.T) {
	t.Run("MergesAllSchemes", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg":       "huawei 1",
			"/a/Trip/IMG_20230116_090000_HDR.jpg":   "huawei 2",
			"/b/Phone/20230115_143001.jpg":          "samsung",
			"/c/Old/WP_20230115_14_30_02_Pro.jpg":   "winphone",
			"/c/Old/WP_20230117_08_00_00_Pro_1.mp4": "winphone video",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/Trip", "/b/Phone", "/c/Old")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitOK {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitOK)
		}

		want := map[string]string{
			"/out/20230115-143000-Trip.jpg":     "huawei 1",
			"/out/20230116-090000-Trip_HDR.jpg": "huawei 2",
			"/out/20230115-143001-Phone.jpg":    "samsung",
			"/out/20230115-143002-Old-WP.jpg":   "winphone",
			"/out/20230117-080000-Old-WP_1.mp4": "winphone video",
		}
		for path, content := range want {
			if got := f.content(t, path); got != content {
				t.Errorf("%s = %q, want %q", path, got, content)
			}
		}

		totals := report.Totals()
		if totals.FilesCopied != 5 || totals.FilesTotal != 5 || totals.DirsSucceeded != 3 || totals.Errors != 0 {
			t.Errorf("Totals() = %+v", totals)
		}
		if len(report.Directories) != 3 || report.Directories[2].Scheme != scheme.WinPhone {
			t.Errorf("Directories = %+v", report.Directories)
		}
		if f.rec.report != report {
			t.Error("Complete() was not called with the run report")
		}
		if f.rec.files != 5 || len(f.rec.dirs) != 3 {
			t.Errorf("updates = %d files, %d directories, want 5 and 3", f.rec.files, len(f.rec.dirs))
		}
	})

	t.Run("SourcesUntouched", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "data"})

		if _, err := f.run(t, models.Flags{}, "/out", "/a/Trip"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := f.content(t, "/a/Trip/IMG_20230115_143000.jpg"); got != "data" {
			t.Errorf("source content = %q, want data", got)
		}
	})

	t.Run("DuplicateBaseName", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "first",
			"/b/Trip/20230115_150000.jpg":     "second",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/Trip", "/b/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
		if !f.exists("/out/20230115-143000-Trip.jpg") {
			t.Error("files of the first directory should be copied")
		}
		if f.exists("/out/20230115-150000-Trip.jpg") {
			t.Error("files of the duplicate directory should not be copied")
		}

		second := report.Directories[1]
		if !second.Skipped || second.SkipReason != models.SkipDuplicateName {
			t.Errorf("second directory = %+v, want skipped as duplicate", second)
		}
		if report.Totals().Errors != 1 || report.Totals().DirsSucceeded != 1 {
			t.Errorf("Totals() = %+v", report.Totals())
		}
		if !f.rec.has(models.SeverityError, "duplicate name") {
			t.Error("missing duplicate name error")
		}
	})

	t.Run("RejectedDirectoryDoesNotClaimName", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/DSC0001.jpg":         "unknown",
			"/b/Trip/20230115_150000.jpg": "samsung",
		})

		report, _ := f.run(t, models.Flags{}, "/out", "/a/Trip", "/b/Trip")
		if report.Directories[0].SkipReason != models.SkipUnknownScheme {
			t.Errorf("first directory = %+v, want unknown scheme", report.Directories[0])
		}
		if report.Directories[1].Skipped {
			t.Errorf("second directory = %+v, want accepted", report.Directories[1])
		}
		if !f.exists("/out/20230115-150000-Trip.jpg") {
			t.Error("files of the second directory should be copied")
		}
	})

	t.Run("UnknownScheme", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Misc/DSC0001.jpg": "x",
			"/a/Misc/DSC0002.jpg": "y",
		})

		report, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Misc")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
		if !f.rec.has(models.SeverityError, "unknown scheme") {
			t.Error("missing unknown scheme error")
		}
		if !f.rec.has(models.SeverityInfo, "sampled 2 of 2 files") {
			t.Error("verbose run should report sample counts")
		}
		if report.Totals().FilesCopied != 0 {
			t.Errorf("FilesCopied = %d, want 0", report.Totals().FilesCopied)
		}
	})

	t.Run("EmptyDirectoryWarns", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Empty/":                       "",
			"/b/Trip/IMG_20230115_143000.jpg": "x",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/Empty", "/b/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitOK {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitOK)
		}
		empty := report.Directories[0]
		if !empty.Skipped || empty.SkipReason != models.SkipEmpty || empty.Confidence != 1 {
			t.Errorf("empty directory = %+v", empty)
		}
		totals := report.Totals()
		if totals.Warnings != 1 || totals.Errors != 0 || totals.DirsSucceeded != 2 {
			t.Errorf("Totals() = %+v", totals)
		}
	})

	t.Run("NotADirectory", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/file.jpg":                     "x",
			"/b/Trip/IMG_20230115_143000.jpg": "y",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/file.jpg", "/missing", "/b/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
		for _, d := range report.Directories[:2] {
			if d.SkipReason != models.SkipNotDirectory {
				t.Errorf("%s: SkipReason = %q, want %q", d.Path, d.SkipReason, models.SkipNotDirectory)
			}
		}
		if !f.exists("/out/20230115-143000-Trip.jpg") {
			t.Error("later directories should still be merged")
		}
		if report.Totals().Errors != 2 {
			t.Errorf("Errors = %d, want 2", report.Totals().Errors)
		}
	})

	t.Run("SchemeMismatch", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/a/Trip/IMG_20230115_143001.jpg": "2",
			"/a/Trip/IMG_20230115_143002.jpg": "3",
			"/a/Trip/IMG_20230115_143003.jpg": "4",
			"/a/Trip/holiday.jpg":             "5",
		})

		report, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
		if report.Totals().FilesCopied != 4 || report.Totals().Errors != 1 {
			t.Errorf("Totals() = %+v", report.Totals())
		}

		var mismatch *models.FileOutcome
		for i, fo := range report.Directories[0].Files {
			if fo.Action == models.ActionMismatch {
				mismatch = &report.Directories[0].Files[i]
			}
		}
		if mismatch == nil {
			t.Fatal("no mismatch recorded")
		}
		if !strings.Contains(mismatch.Suggestion, "holiday.jpg") {
			t.Errorf("Suggestion = %q, want a copy command", mismatch.Suggestion)
		}
		if !f.rec.has(models.SeverityError, "scheme mismatch, file not copied") {
			t.Error("missing mismatch error")
		}
	})

	t.Run("MismatchWithoutVerboseHasNoSuggestion", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/20230115_143000.jpg": "1",
			"/a/Trip/20230115_143001.jpg": "2",
			"/a/Trip/20230115_143002.jpg": "3",
			"/a/Trip/notes.txt":           "4",
		})

		report, _ := f.run(t, models.Flags{}, "/out", "/a/Trip")
		for _, fo := range report.Directories[0].Files {
			if fo.Suggestion != "" {
				t.Errorf("Suggestion = %q, want none", fo.Suggestion)
			}
		}
	})

	t.Run("Excluded", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/a/Trip/Thumbs.db":               "junk",
			"/a/Trip/.DS_Store":               "junk",
		})

		report, err := f.runOp(t, &models.MergeOperation{
			InputDirs:       []string{"/a/Trip"},
			OutputDir:       "/out",
			ExcludePatterns: []string{"Thumbs.db", ".DS_Store"},
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitOK || report.Directories[0].FilesSeen != 1 {
			t.Errorf("ExitCode = %d, FilesSeen = %d", report.ExitCode, report.Directories[0].FilesSeen)
		}
	})

	t.Run("InvalidExcludePattern", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "1"})

		report, err := f.runOp(t, &models.MergeOperation{
			InputDirs:       []string{"/a/Trip"},
			OutputDir:       "/out",
			ExcludePatterns: []string{"[unclosed"},
		})
		if err == nil || report.ExitCode != models.ExitError {
			t.Errorf("Run() = %d, %v, want a fatal error", report.ExitCode, err)
		}
	})

	t.Run("Quiet", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/a/Trip/holiday.jpg":             "2",
		})

		report, _ := f.run(t, models.Flags{Quiet: true, Verbose: true}, "/out", "/a/Trip")
		if f.rec.started || len(f.rec.messages) != 0 {
			t.Error("quiet run should not report anything")
		}
		if report.Totals().Errors == 0 {
			t.Error("quiet run should still count errors")
		}
		if len(f.prompter.questions) != 0 {
			t.Errorf("quiet run asked %q", f.prompter.questions)
		}
	})

	t.Run("ExifCheckKeepsCounters", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "not an image"})

		report, err := f.runOp(t, &models.MergeOperation{
			InputDirs: []string{"/a/Trip"},
			OutputDir: "/out",
			Flags:     models.Flags{Verbose: true},
			CheckExif: true,
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		totals := report.Totals()
		if totals.Errors != 0 || totals.Warnings != 0 || totals.FilesCopied != 1 {
			t.Errorf("Totals() = %+v", totals)
		}
	})
}

func TestRunOutputDir(t *testing.T) {
	t.Run("NonEmptyWithoutForce", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/out/keep.txt":                   "existing",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/Trip")
		if report.ExitCode != models.ExitOutDirNotEmpty {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitOutDirNotEmpty)
		}
		var fe *FatalError
		if !errors.As(err, &fe) {
			t.Fatalf("Run() error = %v, want *FatalError", err)
		}
		if report.Totals().FilesCopied != 0 || f.exists("/out/20230115-143000-Trip.jpg") {
			t.Error("no file should be copied")
		}
		if len(report.Directories) != 0 {
			t.Errorf("Directories = %+v, want none processed", report.Directories)
		}
		if f.rec.fatal == nil {
			t.Error("fatal error was not reported")
		}
	})

	t.Run("NonEmptyWithForce", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/out/keep.txt":                   "existing",
		})

		report, err := f.run(t, models.Flags{Force: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitOK {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitOK)
		}
		if !f.rec.has(models.SeverityWarning, "using non empty OUTDIR") {
			t.Error("missing non empty OUTDIR warning")
		}
		if f.content(t, "/out/keep.txt") != "existing" {
			t.Error("unrelated output files should be left alone")
		}
	})

	t.Run("NonEmptyConfirmed", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/out/keep.txt":                   "existing",
		})
		f.prompter.answers = []bool{true}

		report, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Trip")
		if err != nil || report.ExitCode != models.ExitOK {
			t.Fatalf("Run() = %d, %v", report.ExitCode, err)
		}
		if len(f.prompter.questions) != 1 {
			t.Errorf("questions = %q, want one", f.prompter.questions)
		}
		if !f.exists("/out/20230115-143000-Trip.jpg") {
			t.Error("file should be copied after confirmation")
		}
	})

	t.Run("NonEmptyDeclined", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/out/keep.txt":                   "existing",
		})
		f.prompter.answers = []bool{false}

		report, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
		if !report.Aborted || report.ExitCode != models.ExitOK {
			t.Errorf("Aborted = %v, ExitCode = %d, want aborted with 0", report.Aborted, report.ExitCode)
		}
		if f.exists("/out/20230115-143000-Trip.jpg") {
			t.Error("no file should be copied after declining")
		}
	})

	t.Run("EquivalentToInput", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "1"})

		report, err := f.run(t, models.Flags{Force: true}, "/a/Trip/", "/a/Trip")
		if err == nil {
			t.Fatal("Run() should fail")
		}
		if report.ExitCode != models.ExitInOutDirEqual {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitInOutDirEqual)
		}
		if ExitCode(err) != models.ExitInOutDirEqual {
			t.Errorf("ExitCode(err) = %d, want %d", ExitCode(err), models.ExitInOutDirEqual)
		}
	})

	t.Run("CreatedWhenMissing", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "1"})

		if _, err := f.run(t, models.Flags{}, "/deep/new/out", "/a/Trip"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !f.exists("/deep/new/out/20230115-143000-Trip.jpg") {
			t.Error("output directory should be created")
		}
	})

	t.Run("NotCreated", func(t *testing.T) {
		f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "1"})
		backend := &lazyBackend{Local: f.backend}

		engine := NewEngine(backend, f.rec, nil, nil, &models.MergeOperation{
			InputDirs: []string{"/a/Trip"},
			OutputDir: "/out",
		})
		report, err := engine.Run(context.Background())
		if err == nil || report.ExitCode != models.ExitOutDirNotCreated {
			t.Errorf("Run() = %d, %v, want exit %d", report.ExitCode, err, models.ExitOutDirNotCreated)
		}
	})

	t.Run("OutputIsFile", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "1",
			"/out":                            "a file",
		})

		report, err := f.run(t, models.Flags{Force: true}, "/out", "/a/Trip")
		if err == nil || report.ExitCode == models.ExitOK {
			t.Errorf("Run() = %d, %v, want a fatal error", report.ExitCode, err)
		}
	})
}

func TestRunDestinationConflict(t *testing.T) {
	files := func() map[string]string {
		return map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "new",
			"/out/20230115-143000-Trip.jpg":   "old",
		}
	}

	t.Run("ForceOverwrites", func(t *testing.T) {
		f := newFixture(t, files())

		report, err := f.run(t, models.Flags{Force: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := f.content(t, "/out/20230115-143000-Trip.jpg"); got != "new" {
			t.Errorf("destination = %q, want new", got)
		}
		totals := report.Totals()
		if totals.Errors != 0 || totals.Warnings != 2 || totals.FilesCopied != 1 {
			t.Errorf("Totals() = %+v, want 0 errors, 2 warnings, 1 copied", totals)
		}
		if report.Directories[0].Files[0].Action != models.ActionOverwritten {
			t.Errorf("Action = %s, want overwritten", report.Directories[0].Files[0].Action)
		}
		if report.ExitCode != models.ExitOK {
			t.Errorf("ExitCode = %d, want 0", report.ExitCode)
		}
	})

	t.Run("PromptSkip", func(t *testing.T) {
		f := newFixture(t, files())
		f.prompter.answers = []bool{true, false}

		report, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := f.content(t, "/out/20230115-143000-Trip.jpg"); got != "old" {
			t.Errorf("destination = %q, want old", got)
		}
		if report.ExitCode != models.ExitOK || report.Totals().Errors != 0 {
			t.Errorf("ExitCode = %d, Totals() = %+v", report.ExitCode, report.Totals())
		}
		if report.Directories[0].Files[0].Action != models.ActionSkipped {
			t.Errorf("Action = %s, want skipped", report.Directories[0].Files[0].Action)
		}
		if len(f.prompter.questions) != 2 || !strings.Contains(f.prompter.questions[1], "overwrite") {
			t.Errorf("questions = %q", f.prompter.questions)
		}
	})

	t.Run("PromptOverwrite", func(t *testing.T) {
		f := newFixture(t, files())
		f.prompter.answers = []bool{true, true}

		if _, err := f.run(t, models.Flags{Verbose: true}, "/out", "/a/Trip"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := f.content(t, "/out/20230115-143000-Trip.jpg"); got != "new" {
			t.Errorf("destination = %q, want new", got)
		}
	})

	t.Run("CollisionWithinRun", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "image",
			"/a/Trip/VID_20230115_143000.jpg": "video",
		})

		report, err := f.run(t, models.Flags{}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
		if got := f.content(t, "/out/20230115-143000-Trip.jpg"); got != "image" {
			t.Errorf("destination = %q, want the first file", got)
		}
		if report.Directories[0].Files[1].Action != models.ActionConflict {
			t.Errorf("Action = %s, want conflict", report.Directories[0].Files[1].Action)
		}
	})

	t.Run("ForcedCollisionWithinRun", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/a/Trip/IMG_20230115_143000.jpg": "image",
			"/a/Trip/VID_20230115_143000.jpg": "video",
		})

		report, err := f.run(t, models.Flags{Force: true}, "/out", "/a/Trip")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		totals := report.Totals()
		if report.ExitCode != models.ExitOK || totals.Warnings != 1 || totals.FilesCopied != 2 {
			t.Errorf("ExitCode = %d, totals = %+v, want success with one overwrite warning", report.ExitCode, totals)
		}
		if got := f.content(t, "/out/20230115-143000-Trip.jpg"); got != "video" {
			t.Errorf("destination = %q, want the later file", got)
		}
		if report.Directories[0].Files[1].Action != models.ActionOverwritten {
			t.Errorf("Action = %s, want overwritten", report.Directories[0].Files[1].Action)
		}
	})
}

func TestRunInconsistentCopy(t *testing.T) {
	f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "data"})
	backend := &silentCopyBackend{Local: f.backend}

	engine := NewEngine(backend, f.rec, nil, nil, &models.MergeOperation{
		InputDirs: []string{"/a/Trip"},
		OutputDir: "/out",
	})
	report, err := engine.Run(context.Background())
	if !errors.Is(err, ErrInconsistentCopy) {
		t.Fatalf("Run() error = %v, want ErrInconsistentCopy", err)
	}
	if report.ExitCode != models.ExitError || report.Fatal == "" {
		t.Errorf("ExitCode = %d, Fatal = %q", report.ExitCode, report.Fatal)
	}
}

func TestRunVerify(t *testing.T) {
	files := map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "data"}

	t.Run("SizeOnlyMissesCorruption", func(t *testing.T) {
		f := newFixture(t, files)
		engine := NewEngine(&corruptCopyBackend{Local: f.backend}, f.rec, nil, nil, &models.MergeOperation{
			InputDirs: []string{"/a/Trip"},
			OutputDir: "/out",
		})
		report, err := engine.Run(context.Background())
		if err != nil || report.ExitCode != models.ExitOK {
			t.Errorf("Run() = %d, %v, want success", report.ExitCode, err)
		}
	})

	t.Run("ContentCheckCatchesCorruption", func(t *testing.T) {
		f := newFixture(t, files)
		engine := NewEngine(&corruptCopyBackend{Local: f.backend}, f.rec, nil, nil, &models.MergeOperation{
			InputDirs: []string{"/a/Trip"},
			OutputDir: "/out",
			Verify:    true,
		})
		report, err := engine.Run(context.Background())
		if !errors.Is(err, ErrInconsistentCopy) {
			t.Fatalf("Run() error = %v, want ErrInconsistentCopy", err)
		}
		if report.ExitCode != models.ExitError {
			t.Errorf("ExitCode = %d, want %d", report.ExitCode, models.ExitError)
		}
	})

	t.Run("ContentCheckPassesGoodCopy", func(t *testing.T) {
		f := newFixture(t, files)
		engine := NewEngine(f.backend, f.rec, nil, nil, &models.MergeOperation{
			InputDirs: []string{"/a/Trip"},
			OutputDir: "/out",
			Verify:    true,
		})
		report, err := engine.Run(context.Background())
		if err != nil || report.Totals().FilesCopied != 1 {
			t.Errorf("Run() = %+v, %v, want one verified copy", report.Totals(), err)
		}
	})
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t, map[string]string{"/a/Trip/IMG_20230115_143000.jpg": "data"})
	engine := NewEngine(f.backend, f.rec, nil, nil, &models.MergeOperation{
		InputDirs: []string{"/a/Trip"},
		OutputDir: "/out",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := engine.Run(ctx)
	if !errors.Is(err, context.Canceled) || report.ExitCode != models.ExitError {
		t.Errorf("Run() = %d, %v, want cancellation", report.ExitCode, err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, models.ExitOK},
		{"Aborted", ErrUserAborted, models.ExitOK},
		{"Fatal", fatal(models.ExitOutDirNotEmpty, "x", "", "", nil), models.ExitOutDirNotEmpty},
		{"Other", errors.New("boom"), models.ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

// lazyBackend claims to create directories without doing so
type lazyBackend struct {
	*storage.Local
}

func (b *lazyBackend) MkdirAll(ctx context.Context, path string) error {
	return nil
}

// silentCopyBackend reports success without copying anything
type silentCopyBackend struct {
	*storage.Local
}

func (b *silentCopyBackend) Copy(ctx context.Context, src, dst string, overwrite bool) (int64, error) {
	return 0, nil
}

// corruptCopyBackend copies, then replaces the content with bytes of the same length
type corruptCopyBackend struct {
	*storage.Local
}

func (b *corruptCopyBackend) Copy(ctx context.Context, src, dst string, overwrite bool) (int64, error) {
	n, err := b.Local.Copy(ctx, src, dst, overwrite)
	if err != nil {
		return n, err
	}
	return n, afero.WriteFile(b.Fs(), dst, []byte(strings.Repeat("x", int(n))), 0644)
}
