package input

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key. Values match GLFW key codes, which use the
// ASCII value for printable keys, so the window layer can convert directly.
type Key int

// Keyboard keys understood by the sampler and the config loader
const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	KeyA       Key = 65
	KeyB       Key = 66
	KeyC       Key = 67
	KeyD       Key = 68
	KeyE       Key = 69
	KeyF       Key = 70
	KeyG       Key = 71
	KeyH       Key = 72
	KeyI       Key = 73
	KeyJ       Key = 74
	KeyK       Key = 75
	KeyL       Key = 76
	KeyM       Key = 77
	KeyN       Key = 78
	KeyO       Key = 79
	KeyP       Key = 80
	KeyQ       Key = 81
	KeyR       Key = 82
	KeyS       Key = 83
	KeyT       Key = 84
	KeyU       Key = 85
	KeyV       Key = 86
	KeyW       Key = 87
	KeyX       Key = 88
	KeyY       Key = 89
	KeyZ       Key = 90
	KeyEscape  Key = 256
	KeyRight   Key = 262
	KeyLeft    Key = 263
	KeyDown    Key = 264
	KeyUp      Key = 265
)

var keyNames = map[Key]string{
	KeySpace:  "Space",
	KeyEscape: "Escape",
	KeyRight:  "Right",
	KeyLeft:   "Left",
	KeyDown:   "Down",
	KeyUp:     "Up",
}

func (k Key) String() string {
	if k >= KeyA && k <= KeyZ {
		return string(rune(k))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey resolves a key name as written in a config file ("W", "space",
// "Up"). Single letters are case-insensitive.
func ParseKey(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 1 {
		c := strings.ToUpper(trimmed)[0]
		if c >= 'A' && c <= 'Z' {
			return Key(c), nil
		}
	}
	for k, n := range keyNames {
		if strings.EqualFold(n, trimmed) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// MouseButton identifies a pointer button, matching GLFW button numbers
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Action is the edge reported for a key or button, matching GLFW actions
type Action int

const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)
