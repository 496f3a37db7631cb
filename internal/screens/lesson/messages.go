package lesson

import (
	"github.com/eduquest/eduquest/internal/progression"
)

// attemptStartedMsg is sent when the attempt was created.
type attemptStartedMsg struct {
	Attempt *progression.Attempt
	Err     error
}
