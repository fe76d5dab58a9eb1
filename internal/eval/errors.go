package eval

import "errors"

// ErrUnknownHandle is returned by Engine.Evaluate when the supplied handle
// does not belong to the graph (§7 "Unknown handle").
var ErrUnknownHandle = errors.New("eval: unknown handle")
