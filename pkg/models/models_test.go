package models

import (
	"testing"
)

// ============== Flags Tests ==============

func TestFlags(t *testing.T) {
	t.Run("VerboseIsInteractive", func(t *testing.T) {
		f := Flags{Verbose: true}
		if !f.Interactive() {
			t.Error("Interactive() should be true when verbose")
		}
	})

	t.Run("QuietWinsOverVerbose", func(t *testing.T) {
		f := Flags{Verbose: true, Quiet: true}
		if f.Interactive() {
			t.Error("Interactive() should be false when quiet")
		}
		if n := f.Normalized(); n.Verbose || !n.Quiet {
			t.Errorf("Normalized() = %+v, want quiet only", n)
		}
	})

	t.Run("ForceKept", func(t *testing.T) {
		f := Flags{Force: true, Quiet: true}
		if !f.Normalized().Force {
			t.Error("Normalized() should keep Force")
		}
	})
}

// ============== MergeOperation Tests ==============

func TestMergeOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      MergeOperation
		wantErr bool
	}{
		{"Valid", MergeOperation{InputDirs: []string{"a", "b"}, OutputDir: "out"}, false},
		{"NoInputs", MergeOperation{OutputDir: "out"}, true},
		{"EmptyInput", MergeOperation{InputDirs: []string{"a", ""}, OutputDir: "out"}, true},
		{"NoOutput", MergeOperation{InputDirs: []string{"a"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("Validate() error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

// ============== Tally Tests ==============

func TestTally(t *testing.T) {
	t.Run("Counters", func(t *testing.T) {
		var tl Tally
		tl.IncErrors()
		tl.IncWarnings()
		tl.IncWarnings()
		tl.IncFiles()
		tl.IncFiles()
		tl.IncFiles()
		tl.IncCopied()
		tl.IncDirsSucceeded()

		want := Totals{Errors: 1, Warnings: 2, FilesTotal: 3, FilesCopied: 1, DirsSucceeded: 1}
		if got := tl.Totals(); got != want {
			t.Errorf("Totals() = %+v, want %+v", got, want)
		}
	})

	t.Run("Merge", func(t *testing.T) {
		var a, b Tally
		a.IncErrors()
		a.IncFiles()
		b.IncErrors()
		b.IncCopied()
		b.IncDirsSucceeded()

		a.Merge(b)
		if a.Errors() != 2 || a.FilesTotal() != 1 || a.FilesCopied() != 1 || a.DirsSucceeded() != 1 {
			t.Errorf("Merge() = %+v", a.Totals())
		}
		if b.Errors() != 1 {
			t.Errorf("Merge() changed its argument: %+v", b.Totals())
		}
	})
}

// ============== Verdict Tests ==============

func TestVerdict(t *testing.T) {
	tally := func(errors, succeeded int) Tally {
		var tl Tally
		for i := 0; i < errors; i++ {
			tl.IncErrors()
		}
		for i := 0; i < succeeded; i++ {
			tl.IncDirsSucceeded()
		}
		return tl
	}

	tests := []struct {
		name           string
		tally          Tally
		dirs           int
		wantCode       int
		wantConsistent bool
	}{
		{"AllSucceeded", tally(0, 3), 3, ExitOK, true},
		{"SomeFailed", tally(2, 1), 3, ExitError, true},
		{"SucceededWithErrors", tally(1, 3), 3, ExitError, false},
		{"FailedWithoutErrors", tally(0, 2), 3, ExitError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, consistent := Verdict(tt.tally, tt.dirs)
			if code != tt.wantCode || consistent != tt.wantConsistent {
				t.Errorf("Verdict() = (%d, %v), want (%d, %v)", code, consistent, tt.wantCode, tt.wantConsistent)
			}
		})
	}
}

// ============== Report Tests ==============

func TestDirectoryOutcomeSucceeded(t *testing.T) {
	d := DirectoryOutcome{Warnings: 2}
	if !d.Succeeded() {
		t.Error("Succeeded() should ignore warnings")
	}
	d.Errors = 1
	if d.Succeeded() {
		t.Error("Succeeded() should be false with errors")
	}
}

func TestActionCopied(t *testing.T) {
	for _, a := range []Action{ActionCopied, ActionOverwritten} {
		if !a.Copied() {
			t.Errorf("%s.Copied() = false, want true", a)
		}
	}
	for _, a := range []Action{ActionSkipped, ActionMismatch, ActionConflict, ActionFailed} {
		if a.Copied() {
			t.Errorf("%s.Copied() = true, want false", a)
		}
	}
}
