package prompts

import "errors"

var ErrNotFound = errors.New("prompt not found")
