package core

import (
	"encoding/json"
	"math"
	"slices"
)

// CategoryKind enumerates the kinds of search results.
type CategoryKind int

const (
	KindApplication CategoryKind = iota + 1
	KindFile
	KindBookmark
	KindPlugin
	KindSystemCommand
	KindCustomCommand
)

// Category classifies a result. Plugin is set only for KindPlugin.
type Category struct {
	Kind   CategoryKind
	Plugin string
}

var (
	CategoryApplication   = Category{Kind: KindApplication}
	CategoryFile          = Category{Kind: KindFile}
	CategoryBookmark      = Category{Kind: KindBookmark}
	CategorySystemCommand = Category{Kind: KindSystemCommand}
	CategoryCustomCommand = Category{Kind: KindCustomCommand}
)

// PluginCategory returns the category for results produced by the named plugin.
func PluginCategory(name string) Category {
	return Category{Kind: KindPlugin, Plugin: name}
}

func (c Category) String() string {
	switch c.Kind {
	case KindApplication:
		return "application"
	case KindFile:
		return "file"
	case KindBookmark:
		return "bookmark"
	case KindPlugin:
		return "plugin:" + c.Plugin
	case KindSystemCommand:
		return "system"
	case KindCustomCommand:
		return "custom"
	default:
		return "unknown"
	}
}

// Action tells the presentation layer what selecting a result does.
// The set of implementations is closed to this package.
type Action interface {
	// Kind returns a stable name for the action variant.
	Kind() string
	isAction()
}

// ExecuteApplication launches an executable with arguments.
type ExecuteApplication struct {
	Path string
	Args []string
}

// OpenFile opens a path with the platform's default handler.
type OpenFile struct {
	Path string
}

// OpenURL opens a URL in the default browser.
type OpenURL struct {
	URL string
}

// CopyToClipboard places text on the system clipboard.
type CopyToClipboard struct {
	Text string
}

// ExecuteCommand runs a shell command with arguments.
type ExecuteCommand struct {
	Command string
	Args    []string
}

// PluginAction delegates execution to the plugin with PluginID.
type PluginAction struct {
	PluginID string
	Data     json.RawMessage
}

func (ExecuteApplication) Kind() string { return "execute_application" }
func (OpenFile) Kind() string           { return "open_file" }
func (OpenURL) Kind() string            { return "open_url" }
func (CopyToClipboard) Kind() string    { return "copy_to_clipboard" }
func (ExecuteCommand) Kind() string     { return "execute_command" }
func (PluginAction) Kind() string       { return "plugin_action" }

func (ExecuteApplication) isAction() {}
func (OpenFile) isAction()           {}
func (OpenURL) isAction()            {}
func (CopyToClipboard) isAction()    {}
func (ExecuteCommand) isAction()     {}
func (PluginAction) isAction()       {}

// SearchResult is the common currency of every result source.
type SearchResult struct {
	Title       string
	Description string
	Path        string // Optional
	Icon        string // Optional
	Action      Action
	Score       float64 // Always within [0, 1]
	Category    Category
}

// NewSearchResult creates a result with a no-op clipboard action, the system
// command category, and a zero score.
func NewSearchResult(title, description string) SearchResult {
	return SearchResult{
		Title:       title,
		Description: description,
		Action:      CopyToClipboard{},
		Category:    CategorySystemCommand,
	}
}

func (r SearchResult) WithAction(action Action) SearchResult {
	r.Action = action
	return r
}

// WithScore sets the score, clamped to [0, 1].
func (r SearchResult) WithScore(score float64) SearchResult {
	r.Score = ClampScore(score)
	return r
}

func (r SearchResult) WithCategory(category Category) SearchResult {
	r.Category = category
	return r
}

func (r SearchResult) WithPath(path string) SearchResult {
	r.Path = path
	return r
}

func (r SearchResult) WithIcon(icon string) SearchResult {
	r.Icon = icon
	return r
}

// ClampScore limits score to [0, 1]. NaN becomes 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// SortByScore orders results by descending score. The sort is stable, and
// scores that do not compare (NaN) are treated as equal.
func SortByScore(results []SearchResult) {
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
}
