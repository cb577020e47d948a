package mqtt

import "errors"

// ErrNoReplyTopic is returned when a request carries no reply_to and no
// response topic is configured.
var ErrNoReplyTopic = errors.New("no reply topic for response")
