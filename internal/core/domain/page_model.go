package domain

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

func NewPage(limit, offset int) Page {
	pLimit := DefaultPageLimit
	if limit > 0 {
		pLimit = limit
	}
	if pLimit > MaxPageLimit {
		pLimit = MaxPageLimit
	}

	pOffset := 0
	if offset > 0 {
		pOffset = offset
	}

	return Page{
		Limit:  pLimit,
		Offset: pOffset,
	}
}

// Apply returns the window of the given length selected by the page.
func (p Page) Apply(length int) (int, int) {
	if p.Offset >= length {
		return length, length
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > length {
		end = length
	}
	return p.Offset, end
}
