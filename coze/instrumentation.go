package coze

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/fwojciec/brief/coze"

var logger = otelslog.NewLogger(scopeName)
