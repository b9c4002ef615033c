package vdfbinary_test

import (
	"bytes"
	"testing"

	"github.com/LaunchOptsProject/launchopts-core/internal/vdfbinary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShortcutsTree() vdfbinary.Value {
	return vdfbinary.NewMap(vdfbinary.Map{
		"shortcuts": vdfbinary.NewMap(vdfbinary.Map{
			"0": vdfbinary.NewMap(vdfbinary.Map{
				"appid":         vdfbinary.NewUint(3414143657),
				"AppName":       vdfbinary.NewString("Control"),
				"Exe":           vdfbinary.NewString("\"/games/Control_DX12.exe\""),
				"StartDir":      vdfbinary.NewString("\"/games/\""),
				"IsHidden":      vdfbinary.NewUint(1),
				"LaunchOptions": vdfbinary.NewString("-fullscreen"),
			}),
			"1": vdfbinary.NewMap(vdfbinary.Map{
				"appid":    vdfbinary.NewUint(3022575626),
				"AppName":  vdfbinary.NewString("Cyberpunk 2077"),
				"Exe":      vdfbinary.NewString("\"/games/Cyberpunk2077.exe\""),
				"StartDir": vdfbinary.NewString("\"/games/\""),
				"icon":     vdfbinary.NewString("/icons/cyberpunk.ico"),
				"tags": vdfbinary.NewMap(vdfbinary.Map{
					"0": vdfbinary.NewString("favorite"),
				}),
			}),
		}),
	})
}

func encode(t *testing.T, root vdfbinary.Value) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, vdfbinary.Write(&buf, root))
	return buf.Bytes()
}

func TestParseShortcutsTree(t *testing.T) {
	t.Parallel()

	root, err := vdfbinary.Parse(bytes.NewReader(encode(t, testShortcutsTree())))
	require.NoError(t, err)

	shortcuts, ok := root.GetMap("shortcuts")
	require.True(t, ok)
	require.Len(t, shortcuts, 2)

	first, ok := shortcuts.Lookup("0")
	require.True(t, ok)
	appID, ok := first.GetUint("appid")
	require.True(t, ok)
	assert.Equal(t, uint32(3414143657), appID)
	name, ok := first.GetString("AppName")
	require.True(t, ok)
	assert.Equal(t, "Control", name)

	second, ok := shortcuts.Lookup("1")
	require.True(t, ok)
	icon, ok := second.GetString("icon")
	require.True(t, ok)
	assert.Contains(t, icon, "cyberpunk.ico")
	_, ok = second.GetString("LaunchOptions")
	assert.False(t, ok)
}

func TestParseEmptyFile(t *testing.T) {
	t.Parallel()

	_, err := vdfbinary.Parse(bytes.NewReader([]byte{}))
	assert.ErrorIs(t, err, vdfbinary.ErrEmptyVDF)
}

func TestParseTextVDF(t *testing.T) {
	t.Parallel()

	textVdf := []byte(`"shortcuts" { }`)
	_, err := vdfbinary.Parse(bytes.NewReader(textVdf))
	assert.ErrorIs(t, err, vdfbinary.ErrNotBinaryVDF)
}

func TestWriteRoundtrip(t *testing.T) {
	t.Parallel()

	original := testShortcutsTree()
	reparsed, err := vdfbinary.Parse(bytes.NewReader(encode(t, original)))
	require.NoError(t, err)

	assert.Equal(t, original, reparsed)
}

func TestShortcutLaunchOptions(t *testing.T) {
	t.Parallel()

	root := testShortcutsTree()

	options, ok := vdfbinary.ShortcutLaunchOptions(root, 3414143657)
	require.True(t, ok)
	assert.Equal(t, "-fullscreen", options)

	options, ok = vdfbinary.ShortcutLaunchOptions(root, 3022575626)
	require.True(t, ok)
	assert.Empty(t, options)

	_, ok = vdfbinary.ShortcutLaunchOptions(root, 12345)
	assert.False(t, ok)
}

func TestSetShortcutLaunchOptions(t *testing.T) {
	t.Parallel()

	root := testShortcutsTree()

	require.True(t, vdfbinary.SetShortcutLaunchOptions(root, 3022575626, "gamemoderun %command%"))
	options, ok := vdfbinary.ShortcutLaunchOptions(root, 3022575626)
	require.True(t, ok)
	assert.Equal(t, "gamemoderun %command%", options)

	// Survives a write/parse roundtrip.
	reparsed, err := vdfbinary.Parse(bytes.NewReader(encode(t, root)))
	require.NoError(t, err)
	options, ok = vdfbinary.ShortcutLaunchOptions(reparsed, 3022575626)
	require.True(t, ok)
	assert.Equal(t, "gamemoderun %command%", options)

	assert.False(t, vdfbinary.SetShortcutLaunchOptions(root, 999, "-x"))
}
