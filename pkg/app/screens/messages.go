package screens

// SwitchScreenMsg asks the root screen to change the active view.
type SwitchScreenMsg struct {
	Screen string
}

// SelectionMsg carries the user's chosen title out of the session.
type SelectionMsg struct {
	ASIN string
}
