package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/shlex"
	"github.com/poiesic/launchpad/core"
	"gopkg.in/ini.v1"
)

const desktopGroup = "Desktop Entry"

var desktopLoadOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
}

// DesktopProvider lists applications from freedesktop.org desktop entry files.
type DesktopProvider struct {
	dirs   []string
	logger *slog.Logger
}

var _ Provider = (*DesktopProvider)(nil)

// DesktopOption configures a DesktopProvider.
type DesktopOption func(*DesktopProvider)

// WithApplicationDirs replaces the searched directories. Earlier directories
// take precedence when two contain the same desktop file ID.
// Default is xdg.ApplicationDirs.
func WithApplicationDirs(dirs ...string) DesktopOption {
	return func(p *DesktopProvider) {
		p.dirs = dirs
	}
}

// WithDesktopLogger sets a custom logger.
// Default is slog.Default().
func WithDesktopLogger(logger *slog.Logger) DesktopOption {
	return func(p *DesktopProvider) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewDesktopProvider creates a provider over the XDG application directories.
func NewDesktopProvider(opts ...DesktopOption) *DesktopProvider {
	p := &DesktopProvider{
		dirs:   xdg.ApplicationDirs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dirs returns the directories searched for desktop files.
func (p *DesktopProvider) Dirs() []string {
	return append([]string(nil), p.dirs...)
}

// InstalledApplications parses every desktop file under the application
// directories. Entries that are hidden, not applications, or malformed are
// skipped. An error is returned only when nothing could be listed because
// every existing directory failed to read.
func (p *DesktopProvider) InstalledApplications(ctx context.Context) ([]core.AppEntry, error) {
	seen := make(map[string]bool)
	var apps []core.AppEntry
	var errs []error

	for _, dir := range p.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if path == dir {
					return walkErr
				}
				p.logger.Debug("skipping unreadable path", "path", path, "err", walkErr)
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".desktop" {
				return nil
			}

			id := desktopFileID(dir, path)
			if seen[id] {
				return nil
			}
			// A hidden entry still masks the same ID in later directories.
			seen[id] = true

			data, err := os.ReadFile(path)
			if err != nil {
				p.logger.Debug("skipping unreadable desktop file", "path", path, "err", err)
				return nil
			}
			entry, ok, err := ParseDesktopEntry(data)
			if err != nil {
				p.logger.Debug("skipping malformed desktop file", "path", path, "err", err)
				return nil
			}
			if ok {
				apps = append(apps, entry)
			}
			return nil
		})

		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, fs.ErrNotExist):
			p.logger.Debug("application directory does not exist", "dir", dir)
		default:
			p.logger.Warn("failed to read application directory", "dir", dir, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dir, err))
		}
	}

	if len(apps) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	p.logger.Debug("desktop entries listed", "count", len(apps), "dirs", len(p.dirs))
	return apps, nil
}

// desktopFileID derives the desktop file ID: the path relative to the
// application directory with separators replaced by dashes.
func desktopFileID(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// ParseDesktopEntry converts the contents of a desktop file into an AppEntry.
// It reports false for entries that should not be listed: non-Application
// types and entries marked NoDisplay or Hidden.
func ParseDesktopEntry(data []byte) (core.AppEntry, bool, error) {
	file, err := ini.LoadSources(desktopLoadOptions, data)
	if err != nil {
		return core.AppEntry{}, false, fmt.Errorf("%w: %w", ErrInvalidDesktopEntry, err)
	}
	section, err := file.GetSection(desktopGroup)
	if err != nil {
		return core.AppEntry{}, false, fmt.Errorf("%w: missing [%s] group", ErrInvalidDesktopEntry, desktopGroup)
	}

	if section.Key("Type").String() != "Application" {
		return core.AppEntry{}, false, nil
	}
	if section.Key("NoDisplay").MustBool(false) || section.Key("Hidden").MustBool(false) {
		return core.AppEntry{}, false, nil
	}

	name := strings.TrimSpace(section.Key("Name").String())
	if name == "" {
		return core.AppEntry{}, false, fmt.Errorf("%w: missing Name", ErrInvalidDesktopEntry)
	}
	argv, err := shlex.Split(StripFieldCodes(section.Key("Exec").String()))
	if err != nil {
		return core.AppEntry{}, false, fmt.Errorf("%w: %s: Exec: %w", ErrInvalidDesktopEntry, name, err)
	}
	if len(argv) == 0 || argv[0] == "" {
		return core.AppEntry{}, false, fmt.Errorf("%w: %s: missing Exec", ErrInvalidDesktopEntry, name)
	}

	entry := core.AppEntry{
		Name:           name,
		ExecutablePath: argv[0],
		IconPath:       strings.TrimSpace(section.Key("Icon").String()),
		Description:    strings.TrimSpace(section.Key("Comment").String()),
		Keywords:       splitList(section.Key("Keywords").String()),
	}
	if len(argv) > 1 {
		entry.Args = argv[1:]
	}
	return entry, true, nil
}

// StripFieldCodes removes desktop entry field codes such as %f and %U from an
// Exec value and unescapes "%%". A code that stands alone as an argument is
// removed together with the whitespace before it; all other spacing, including
// inside quoted arguments, is kept.
func StripFieldCodes(exec string) string {
	out := make([]byte, 0, len(exec))
	for i := 0; i < len(exec); i++ {
		if exec[i] != '%' || i+1 == len(exec) {
			out = append(out, exec[i])
			continue
		}
		i++
		switch exec[i] {
		case '%':
			out = append(out, '%')
		case 'f', 'F', 'u', 'U', 'd', 'D', 'n', 'N', 'i', 'c', 'k', 'v', 'm':
			standalone := (i < 2 || isBlank(exec[i-2])) && (i+1 == len(exec) || isBlank(exec[i+1]))
			if standalone {
				out = bytes.TrimRight(out, " \t")
			}
		default:
			out = append(out, '%', exec[i])
		}
	}
	return strings.TrimSpace(string(out))
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// splitList splits a semicolon separated desktop entry list.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
