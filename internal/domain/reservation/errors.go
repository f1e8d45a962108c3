package reservation

import "errors"

var ErrCrawlerNotConfigured = errors.New("crawler webhook is not configured")
