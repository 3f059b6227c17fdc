package entities

// Setting is the per chat moderation toggle.
type Setting int

const (
	// SettingUnset means no administrator has toggled moderation, messages are evaluated
	SettingUnset Setting = iota

	// SettingOn means messages are evaluated
	SettingOn

	// SettingOff means messages are ignored
	SettingOff
)

func (s Setting) String() string {
	switch s {
	case SettingOn:
		return "on"
	case SettingOff:
		return "off"
	default:
		return "unset"
	}
}

// Enabled reports whether messages should be evaluated. An unset chat is moderated.
func (s Setting) Enabled() bool {
	return s != SettingOff
}
