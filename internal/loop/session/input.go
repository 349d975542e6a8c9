package session

// Input is the control snapshot for one tick. Flight controls are level
// triggered: they act on every tick they are set. PauseToggle, Confirm,
// Cancel, MenuLeft and MenuRight act on the tick they become set. Letter is
// a typed character for this tick only, zero when nothing was typed.
type Input struct {
	RotateLeft  bool
	RotateRight bool
	Thrust      bool
	Fire        bool
	Shield      bool

	PauseToggle bool
	Exit        bool

	Confirm   bool
	Cancel    bool
	MenuLeft  bool
	MenuRight bool
	Letter    rune
}

// pressed holds the rising edges of the menu signals.
type pressed struct {
	pause     bool
	confirm   bool
	cancel    bool
	menuLeft  bool
	menuRight bool
}

func edges(cur, prev Input) pressed {
	return pressed{
		pause:     cur.PauseToggle && !prev.PauseToggle,
		confirm:   cur.Confirm && !prev.Confirm,
		cancel:    cur.Cancel && !prev.Cancel,
		menuLeft:  cur.MenuLeft && !prev.MenuLeft,
		menuRight: cur.MenuRight && !prev.MenuRight,
	}
}
