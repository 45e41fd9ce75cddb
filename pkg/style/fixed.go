package style

// Fixed pins its root node where it currently is.
type Fixed struct {
	*base
}

func (f *Fixed) Weight() float64 { return 100 }

func (f *Fixed) UpdateData() {
	f.FixNode(f.root)
}

// Force is the free-floating style. It writes no positioning entries; its
// options override the force parameters for the subtree below its root.
type Force struct {
	*base
}

// ForceTranslation rebuilds the simulation forces so changed options apply.
func (f *Force) ForceTranslation() {
	f.env.RefreshForces()
}
