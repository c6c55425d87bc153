// Package engine federates a launcher query across its result sources.
//
// An Engine holds three optional sources: installed applications, indexed
// files, and plugins. Search runs the sources enabled in the current
// configuration snapshot concurrently, joins them, blends a fuzzy title match
// into every score, sorts by descending score, and truncates to the
// configured maximum. Source failures never fail a search; the failing source
// simply contributes no results.
//
// Example:
//
//	e, err := engine.NewEngine(cfgStore,
//	    engine.WithApplicationSource(engine.ApplicationSource(store, time.Now)),
//	    engine.WithFileSource(engine.FileSource(store)),
//	    engine.WithPluginSource(host),
//	)
//	if err != nil {
//	    return err
//	}
//	results := e.Search(ctx, "code")
package engine
