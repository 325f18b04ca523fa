package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a limit/offset window over a list query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps Limit to (0, MaxPageSize] and Offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
