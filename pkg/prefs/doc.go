// Package prefs persists user preferences between runs.
//
// Preferences are stored as prefs.json in a directory:
//
//	repo := prefs.NewFileRepository("/path/to/dir")
//
//	p, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//
//	p.ErrorMode = true
//	if err := repo.Save(ctx, p); err != nil {
//	    return err
//	}
//
// A missing file loads as zero preferences, which callers merge over
// their own defaults with Apply.
package prefs
