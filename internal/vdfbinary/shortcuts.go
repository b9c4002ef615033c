package vdfbinary

import "strconv"

// ShortcutLaunchOptions returns the launch options of the shortcut with the
// given app id from a parsed shortcuts.vdf tree.
func ShortcutLaunchOptions(root Value, appID uint32) (string, bool) {
	entry, ok := findShortcut(root, appID)
	if !ok {
		return "", false
	}
	options, _ := entry.GetString("LaunchOptions")
	return options, true
}

// SetShortcutLaunchOptions updates the launch options of the shortcut with
// the given app id in a parsed shortcuts.vdf tree. Returns false when no
// shortcut with that app id exists.
func SetShortcutLaunchOptions(root Value, appID uint32, options string) bool {
	entry, ok := findShortcut(root, appID)
	if !ok {
		return false
	}
	m, ok := entry.AsMap()
	if !ok {
		return false
	}
	m.Set("LaunchOptions", NewString(options))
	return true
}

// Shortcut entries are stored under "shortcuts" keyed by array index.
// The launch options field is optional, shortcuts created by third-party
// tools like EmuDeck or Lutris often omit it.
func findShortcut(root Value, appID uint32) (Value, bool) {
	shortcutsMap, ok := root.GetMap("shortcuts")
	if !ok {
		return Value{}, false
	}
	for i := range len(shortcutsMap) {
		entry, ok := shortcutsMap.Lookup(strconv.Itoa(i))
		if !ok {
			break
		}
		if id, ok := entry.GetUint("appid"); ok && id == appID {
			return entry, true
		}
	}
	return Value{}, false
}
