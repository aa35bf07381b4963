package drill

import "github.com/kotoba-app/kotoba/internal/speech"

// wordsLoadedMsg is sent when the deck words have been joined with the
// learner's weights.
type wordsLoadedMsg struct {
	Err error
}

// recognizedMsg carries the result of a spoken answer.
type recognizedMsg struct {
	Event speech.Event
}

// spokenMsg is sent when text-to-speech playback finishes.
type spokenMsg struct {
	Err error
}
