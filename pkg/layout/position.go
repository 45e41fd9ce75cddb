package layout

// ViewportPercentage converts absolute coordinates into a position in
// percent of a viewport of the given size.
func ViewportPercentage(x, y float64, size Size) Position {
	var p Position
	if size.Width != 0 {
		p.X = 100 * x / size.Width
	}
	if size.Height != 0 {
		p.Y = 100 * y / size.Height
	}
	return p
}

// Absolute converts p back into coordinates in a viewport of the given size.
func (p Position) Absolute(size Size) (x, y float64) {
	return p.X / 100 * size.Width, p.Y / 100 * size.Height
}
