package config

// SetPath sets the seed file path directly for tests
func (x *Board) SetPath(path string) {
	x.path = path
}

// SetOptions sets the logger flags directly for tests
func (x *Logger) SetOptions(level, format, output string) {
	x.level = level
	x.format = format
	x.output = output
}
