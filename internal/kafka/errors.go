package kafka

import (
	"errors"
)

var (
	errTopicIsExist = errors.New("topic is already consumed")
)
