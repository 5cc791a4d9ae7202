package models

// Tally accumulates the counters of a merge run.
//
// Sub-operations build their own Tally and hand it back to be merged, so a
// counter only ever changes through its owner.
type Tally struct {
	errors        int
	warnings      int
	filesTotal    int
	filesCopied   int
	dirsSucceeded int
}

// Totals is a read-only snapshot of a Tally
type Totals struct {
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	FilesTotal    int `json:"files_total"`
	FilesCopied   int `json:"files_copied"`
	DirsSucceeded int `json:"dirs_succeeded"`
}

func (t *Tally) IncErrors()        { t.errors++ }
func (t *Tally) IncWarnings()      { t.warnings++ }
func (t *Tally) IncFiles()         { t.filesTotal++ }
func (t *Tally) IncCopied()        { t.filesCopied++ }
func (t *Tally) IncDirsSucceeded() { t.dirsSucceeded++ }

func (t Tally) Errors() int        { return t.errors }
func (t Tally) Warnings() int      { return t.warnings }
func (t Tally) FilesTotal() int    { return t.filesTotal }
func (t Tally) FilesCopied() int   { return t.filesCopied }
func (t Tally) DirsSucceeded() int { return t.dirsSucceeded }

// Merge adds the counters of other into t
func (t *Tally) Merge(other Tally) {
	t.errors += other.errors
	t.warnings += other.warnings
	t.filesTotal += other.filesTotal
	t.filesCopied += other.filesCopied
	t.dirsSucceeded += other.dirsSucceeded
}

// Totals returns a snapshot of the counters
func (t Tally) Totals() Totals {
	return Totals{
		Errors:        t.errors,
		Warnings:      t.warnings,
		FilesTotal:    t.filesTotal,
		FilesCopied:   t.filesCopied,
		DirsSucceeded: t.dirsSucceeded,
	}
}
