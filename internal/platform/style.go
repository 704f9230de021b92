package platform

// Window style bits. The values follow the win32 WS_* and WS_EX_* layout so
// they pass straight through to CreateWindowEx; other providers read only
// the decoration-related bits.
const (
	StyleOverlapped   uint32 = 0x00000000
	StylePopup        uint32 = 0x80000000
	StyleChild        uint32 = 0x40000000
	StyleVisible      uint32 = 0x10000000
	StyleClipSiblings uint32 = 0x04000000
	StyleClipChildren uint32 = 0x02000000
	StyleCaption      uint32 = 0x00C00000
	StyleSysMenu      uint32 = 0x00080000
	StyleThickFrame   uint32 = 0x00040000
	StyleMinimizeBox  uint32 = 0x00020000
	StyleMaximizeBox  uint32 = 0x00010000

	StyleOverlappedWindow = StyleOverlapped | StyleCaption | StyleSysMenu |
		StyleThickFrame | StyleMinimizeBox | StyleMaximizeBox

	ExStyleTopmost    uint32 = 0x00000008
	ExStyleWindowEdge uint32 = 0x00000100
	ExStyleAppWindow  uint32 = 0x00040000
)

// StyleForMode returns the style bits the engine uses for a window that
// starts in mode with the given flags.
func StyleForMode(mode Mode, flags Flags) (style, exStyle uint32) {
	exStyle = ExStyleAppWindow
	switch mode {
	case ModeFullscreen, ModeBorderless:
		style = StylePopup
	default:
		style = StyleOverlappedWindow
		if flags&FlagResizable == 0 {
			style &^= StyleThickFrame | StyleMaximizeBox
		}
		exStyle |= ExStyleWindowEdge
	}
	if flags&FlagAlwaysOnTop != 0 {
		exStyle |= ExStyleTopmost
	}
	return style, exStyle
}

// Decorated reports whether style asks the window manager for a frame.
func Decorated(style uint32) bool {
	return style&(StyleCaption|StyleThickFrame) != 0
}
