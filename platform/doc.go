// Package platform connects the launcher to the host operating system.
//
// A Provider lists installed applications for the index builder. On Linux the
// DesktopProvider reads freedesktop.org desktop entries from the XDG
// application directories; other platforms get an empty StaticProvider.
//
// A Performer carries out the action of a chosen search result: it launches
// processes, opens files and URLs with the platform opener, writes to the
// clipboard, and hands plugin actions to a PluginExecutor.
package platform
