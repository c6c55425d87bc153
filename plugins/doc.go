// Package plugins hosts the query plugins that complement application and
// file search.
//
// A Plugin declares which queries it can handle and returns ordinary search
// results for them. The Host fans a query out to every capable plugin on a
// worker pool and concatenates the results in registration order, so a slow
// plugin never reorders the output. Plugin errors and panics are logged and
// otherwise ignored.
//
// Two plugins are built in:
//
//   - Calculator evaluates arithmetic such as "2 + 3 * 4".
//   - Translator answers "translate <text>" (or "翻訳 <text>"). Without a
//     configured model host it returns placeholder text; with one it asks an
//     OpenAI-compatible chat model through langchaingo.
//
// Example:
//
//	host, err := plugins.NewHost(plugins.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer host.Close(ctx)
//
//	if err := host.LoadBuiltins(ctx, []string{"calculator"}, plugins.TranslatorConfig{}); err != nil {
//	    return err
//	}
//	results := host.SearchAll(ctx, "2+2")
package plugins
