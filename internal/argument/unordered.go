package argument

// Unordered selects the phrase positions an unordered MatchPhrase argument searches.
type Unordered interface {
	positions(count int) []int
}

type anyPosition struct{}

func (anyPosition) positions(count int) []int {
	return span(0, count)
}

type fromPosition int

func (f fromPosition) positions(count int) []int {
	return span(int(f), count)
}

type atPositions []int

func (a atPositions) positions(int) []int {
	return a
}

// AnyPosition searches every phrase.
func AnyPosition() Unordered { return anyPosition{} }

// FromPosition searches phrases from index n onwards.
func FromPosition(n int) Unordered { return fromPosition(n) }

// AtPositions searches exactly the given phrase indices, in that order.
func AtPositions(indices ...int) Unordered {
	return atPositions(append([]int(nil), indices...))
}

func span(from, to int) []int {
	if from < 0 {
		from = 0
	}
	if from >= to {
		return nil
	}
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
